package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Wire envelope shared by every endpoint:
//
//	success: {"status":"success", ...}
//	client failure: {"status":"fail","message":...}
//	server failure: {"status":"error","message":...}

// Success writes a 200 with data under the "data" key.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   data,
	})
}

// Created writes a 201 with the created item under "data".
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"status": "success",
		"data":   data,
	})
}

// Item wraps a single resource the way list-less endpoints return it.
func Item(v interface{}) gin.H {
	return gin.H{"item": v}
}

// List writes a paginated collection with its total count.
func List(c *gin.Context, count int64, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"count":  count,
		"items":  items,
	})
}

// Fail writes a client-side failure (4xx).
func Fail(c *gin.Context, httpStatus int, msg string) {
	c.JSON(httpStatus, gin.H{
		"status":  "fail",
		"message": msg,
	})
}

// Internal writes a 500 with a generic message. Raw error text stays in
// the server log, never in the response body.
func Internal(c *gin.Context) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"status":  "error",
		"message": "Something went wrong",
	})
}
