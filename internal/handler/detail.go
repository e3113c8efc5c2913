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

// DetailHandler serves CRUD over the details (site metadata) table.
type DetailHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewDetailHandler(db *gorm.DB, logger *zap.Logger) *DetailHandler {
	return &DetailHandler{DB: db, Logger: logger}
}

type createDetailReq struct {
	Title           string `json:"title" binding:"required"`
	Logo            string `json:"logo"`
	Keywords        string `json:"keywords"`
	SiteDescription string `json:"site_description"`
	Description     string `json:"description"`
	About           string `json:"about"`
	Position        string `json:"position"`
	Company         string `json:"company"`
	Img             string `json:"img"`
}

type updateDetailReq struct {
	Title           *string `json:"title"`
	Logo            *string `json:"logo"`
	Keywords        *string `json:"keywords"`
	SiteDescription *string `json:"site_description"`
	Description     *string `json:"description"`
	About           *string `json:"about"`
	Position        *string `json:"position"`
	Company         *string `json:"company"`
	Img             *string `json:"img"`
}

func (h *DetailHandler) Create(c *gin.Context) {
	var req createDetailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	detail := models.Detail{
		Title:           req.Title,
		Logo:            req.Logo,
		Keywords:        req.Keywords,
		SiteDescription: req.SiteDescription,
		Description:     req.Description,
		About:           req.About,
		Position:        req.Position,
		Company:         req.Company,
		Img:             req.Img,
	}
	if err := h.DB.Create(&detail).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "Item already exists")
			return
		}
		h.Logger.Error("create detail failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Created(c, util.Item(detail))
}

func (h *DetailHandler) List(c *gin.Context) {
	_, limit, offset := util.Pagination(c)

	var count int64
	if err := h.DB.Model(&models.Detail{}).Count(&count).Error; err != nil {
		h.Logger.Error("count details failed", zap.Error(err))
		util.Internal(c)
		return
	}

	var details []models.Detail
	if err := h.DB.Order("created_at").Limit(limit).Offset(offset).
		Find(&details).Error; err != nil {
		h.Logger.Error("list details failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.List(c, count, details)
}

func (h *DetailHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var detail models.Detail
	if err := h.DB.First(&detail, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get detail failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	util.Success(c, util.Item(detail))
}

func (h *DetailHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var detail models.Detail
	if err := h.DB.First(&detail, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get detail failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	var req updateDetailReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil {
		detail.Title = *req.Title
	}
	if req.Logo != nil {
		detail.Logo = *req.Logo
	}
	if req.Keywords != nil {
		detail.Keywords = *req.Keywords
	}
	if req.SiteDescription != nil {
		detail.SiteDescription = *req.SiteDescription
	}
	if req.Description != nil {
		detail.Description = *req.Description
	}
	if req.About != nil {
		detail.About = *req.About
	}
	if req.Position != nil {
		detail.Position = *req.Position
	}
	if req.Company != nil {
		detail.Company = *req.Company
	}
	if req.Img != nil {
		detail.Img = *req.Img
	}

	if err := h.DB.Save(&detail).Error; err != nil {
		h.Logger.Error("update detail failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Success(c, util.Item(detail))
}

func (h *DetailHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	res := h.DB.Delete(&models.Detail{}, "id = ?", id)
	if res.Error != nil {
		h.Logger.Error("delete detail failed", zap.Error(res.Error))
		util.Internal(c)
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		return
	}

	c.Status(http.StatusNoContent)
}
