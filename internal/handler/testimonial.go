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

// TestimonialHandler serves CRUD over the testimonials table.
type TestimonialHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewTestimonialHandler(db *gorm.DB, logger *zap.Logger) *TestimonialHandler {
	return &TestimonialHandler{DB: db, Logger: logger}
}

type createTestimonialReq struct {
	Name     string `json:"name" binding:"required"`
	Comment  string `json:"comment"`
	Position string `json:"position"`
	Company  string `json:"company"`
	Img      string `json:"img"`
}

type updateTestimonialReq struct {
	Name     *string `json:"name"`
	Comment  *string `json:"comment"`
	Position *string `json:"position"`
	Company  *string `json:"company"`
	Img      *string `json:"img"`
}

func (h *TestimonialHandler) Create(c *gin.Context) {
	var req createTestimonialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	testimonial := models.Testimonial{
		Name:     req.Name,
		Comment:  req.Comment,
		Position: req.Position,
		Company:  req.Company,
		Img:      req.Img,
	}
	if err := h.DB.Create(&testimonial).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "Item already exists")
			return
		}
		h.Logger.Error("create testimonial failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Created(c, util.Item(testimonial))
}

func (h *TestimonialHandler) List(c *gin.Context) {
	_, limit, offset := util.Pagination(c)

	var count int64
	if err := h.DB.Model(&models.Testimonial{}).Count(&count).Error; err != nil {
		h.Logger.Error("count testimonials failed", zap.Error(err))
		util.Internal(c)
		return
	}

	var testimonials []models.Testimonial
	if err := h.DB.Order("created_at").Limit(limit).Offset(offset).
		Find(&testimonials).Error; err != nil {
		h.Logger.Error("list testimonials failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.List(c, count, testimonials)
}

func (h *TestimonialHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var testimonial models.Testimonial
	if err := h.DB.First(&testimonial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get testimonial failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	util.Success(c, util.Item(testimonial))
}

func (h *TestimonialHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var testimonial models.Testimonial
	if err := h.DB.First(&testimonial, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get testimonial failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	var req updateTestimonialReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name != nil {
		testimonial.Name = *req.Name
	}
	if req.Comment != nil {
		testimonial.Comment = *req.Comment
	}
	if req.Position != nil {
		testimonial.Position = *req.Position
	}
	if req.Company != nil {
		testimonial.Company = *req.Company
	}
	if req.Img != nil {
		testimonial.Img = *req.Img
	}

	if err := h.DB.Save(&testimonial).Error; err != nil {
		h.Logger.Error("update testimonial failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Success(c, util.Item(testimonial))
}

func (h *TestimonialHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	res := h.DB.Delete(&models.Testimonial{}, "id = ?", id)
	if res.Error != nil {
		h.Logger.Error("delete testimonial failed", zap.Error(res.Error))
		util.Internal(c)
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		return
	}

	c.Status(http.StatusNoContent)
}
