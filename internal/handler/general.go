package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"

	"portfolio-api/internal/models"
	"portfolio-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GeneralHandler regenerates the translation JSON file from table
// contents. The file is a denormalized dump for the frontend, never
// authoritative.
type GeneralHandler struct {
	DB     *gorm.DB
	File   string
	Logger *zap.Logger
}

func NewGeneralHandler(db *gorm.DB, file string, logger *zap.Logger) *GeneralHandler {
	return &GeneralHandler{DB: db, File: file, Logger: logger}
}

// UpdateTranslationFile dumps the public columns of jobs, projects,
// details and testimonials into the translation file and returns the
// payload. Ids and timestamps are excluded.
func (h *GeneralHandler) UpdateTranslationFile(c *gin.Context) {
	dump := gin.H{}

	var jobs []models.Job
	if err := h.DB.Order("created_at").Find(&jobs).Error; err != nil {
		h.Logger.Error("dump jobs failed", zap.Error(err))
		util.Internal(c)
		return
	}
	jobRows := make([]gin.H, 0, len(jobs))
	for _, j := range jobs {
		jobRows = append(jobRows, gin.H{
			"company":     j.Company,
			"title":       j.Title,
			"date":        j.Date,
			"description": j.Description,
		})
	}
	dump["jobs"] = jobRows

	var projects []models.Project
	if err := h.DB.Order("created_at").Find(&projects).Error; err != nil {
		h.Logger.Error("dump projects failed", zap.Error(err))
		util.Internal(c)
		return
	}
	projectRows := make([]gin.H, 0, len(projects))
	for _, p := range projects {
		projectRows = append(projectRows, gin.H{
			"title":       p.Title,
			"description": p.Description,
			"imgs":        p.Imgs,
			"demo":        p.Demo,
			"git":         p.Git,
			"stacks":      p.Stacks,
		})
	}
	dump["projects"] = projectRows

	var details []models.Detail
	if err := h.DB.Order("created_at").Find(&details).Error; err != nil {
		h.Logger.Error("dump details failed", zap.Error(err))
		util.Internal(c)
		return
	}
	detailRows := make([]gin.H, 0, len(details))
	for _, d := range details {
		detailRows = append(detailRows, gin.H{
			"title":            d.Title,
			"logo":             d.Logo,
			"keywords":         d.Keywords,
			"site_description": d.SiteDescription,
			"description":      d.Description,
			"about":            d.About,
			"position":         d.Position,
			"company":          d.Company,
			"img":              d.Img,
		})
	}
	dump["details"] = detailRows

	var testimonials []models.Testimonial
	if err := h.DB.Order("created_at").Find(&testimonials).Error; err != nil {
		h.Logger.Error("dump testimonials failed", zap.Error(err))
		util.Internal(c)
		return
	}
	testimonialRows := make([]gin.H, 0, len(testimonials))
	for _, t := range testimonials {
		testimonialRows = append(testimonialRows, gin.H{
			"name":     t.Name,
			"comment":  t.Comment,
			"position": t.Position,
			"company":  t.Company,
			"img":      t.Img,
		})
	}
	dump["testimonials"] = testimonialRows

	payload, err := json.Marshal(dump)
	if err != nil {
		h.Logger.Error("encode translation dump failed", zap.Error(err))
		util.Internal(c)
		return
	}

	if err := os.MkdirAll(filepath.Dir(h.File), 0o755); err != nil {
		h.Logger.Error("create translation dir failed", zap.Error(err))
		util.Internal(c)
		return
	}
	if err := os.WriteFile(h.File, payload, 0o644); err != nil {
		h.Logger.Error("write translation file failed", zap.Error(err))
		util.Internal(c)
		return
	}

	c.Data(http.StatusOK, "application/json", payload)
}
