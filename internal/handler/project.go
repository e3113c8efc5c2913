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

// ProjectHandler serves CRUD over the projects table.
type ProjectHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewProjectHandler(db *gorm.DB, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{DB: db, Logger: logger}
}

type createProjectReq struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Imgs        []string `json:"imgs"`
	Demo        string   `json:"demo"`
	Git         string   `json:"git"`
	Stacks      []string `json:"stacks"`
}

type updateProjectReq struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Imgs        *[]string `json:"imgs"`
	Demo        *string   `json:"demo"`
	Git         *string   `json:"git"`
	Stacks      *[]string `json:"stacks"`
}

func (h *ProjectHandler) Create(c *gin.Context) {
	var req createProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	project := models.Project{
		Title:       req.Title,
		Description: req.Description,
		Imgs:        req.Imgs,
		Demo:        req.Demo,
		Git:         req.Git,
		Stacks:      req.Stacks,
	}
	if err := h.DB.Create(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "Item already exists")
			return
		}
		h.Logger.Error("create project failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Created(c, util.Item(project))
}

func (h *ProjectHandler) List(c *gin.Context) {
	_, limit, offset := util.Pagination(c)

	var count int64
	if err := h.DB.Model(&models.Project{}).Count(&count).Error; err != nil {
		h.Logger.Error("count projects failed", zap.Error(err))
		util.Internal(c)
		return
	}

	var projects []models.Project
	if err := h.DB.Order("created_at").Limit(limit).Offset(offset).
		Find(&projects).Error; err != nil {
		h.Logger.Error("list projects failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.List(c, count, projects)
}

func (h *ProjectHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var project models.Project
	if err := h.DB.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get project failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	util.Success(c, util.Item(project))
}

func (h *ProjectHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var project models.Project
	if err := h.DB.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get project failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	var req updateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil {
		project.Title = *req.Title
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Imgs != nil {
		project.Imgs = *req.Imgs
	}
	if req.Demo != nil {
		project.Demo = *req.Demo
	}
	if req.Git != nil {
		project.Git = *req.Git
	}
	if req.Stacks != nil {
		project.Stacks = *req.Stacks
	}

	if err := h.DB.Save(&project).Error; err != nil {
		h.Logger.Error("update project failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Success(c, util.Item(project))
}

func (h *ProjectHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	res := h.DB.Delete(&models.Project{}, "id = ?", id)
	if res.Error != nil {
		h.Logger.Error("delete project failed", zap.Error(res.Error))
		util.Internal(c)
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		return
	}

	c.Status(http.StatusNoContent)
}
