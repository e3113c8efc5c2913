package handler

import (
	"errors"
	"fmt"
	"net/http"

	"portfolio-api/internal/models"
	"portfolio-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// JobHandler serves CRUD over the jobs table.
type JobHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewJobHandler(db *gorm.DB, logger *zap.Logger) *JobHandler {
	return &JobHandler{DB: db, Logger: logger}
}

type createJobReq struct {
	Company     string `json:"company" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

type updateJobReq struct {
	Company     *string `json:"company"`
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
}

func (h *JobHandler) Create(c *gin.Context) {
	var req createJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	job := models.Job{
		Company:     req.Company,
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
	}
	if err := h.DB.Create(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "Item already exists")
			return
		}
		h.Logger.Error("create job failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Created(c, util.Item(job))
}

func (h *JobHandler) List(c *gin.Context) {
	_, limit, offset := util.Pagination(c)

	var count int64
	if err := h.DB.Model(&models.Job{}).Count(&count).Error; err != nil {
		h.Logger.Error("count jobs failed", zap.Error(err))
		util.Internal(c)
		return
	}

	var jobs []models.Job
	if err := h.DB.Order("created_at").Limit(limit).Offset(offset).
		Find(&jobs).Error; err != nil {
		h.Logger.Error("list jobs failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.List(c, count, jobs)
}

func (h *JobHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var job models.Job
	if err := h.DB.First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get job failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	util.Success(c, util.Item(job))
}

func (h *JobHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var job models.Job
	if err := h.DB.First(&job, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get job failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	var req updateJobReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Company != nil {
		job.Company = *req.Company
	}
	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Date != nil {
		job.Date = *req.Date
	}
	if req.Description != nil {
		job.Description = *req.Description
	}

	if err := h.DB.Save(&job).Error; err != nil {
		h.Logger.Error("update job failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Success(c, util.Item(job))
}

func (h *JobHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	res := h.DB.Delete(&models.Job{}, "id = ?", id)
	if res.Error != nil {
		h.Logger.Error("delete job failed", zap.Error(res.Error))
		util.Internal(c)
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		return
	}

	c.Status(http.StatusNoContent)
}
