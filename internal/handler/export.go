package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"portfolio-api/internal/models"
	"portfolio-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExportHandler dumps portfolio tables as spreadsheet attachments for
// offline editing.
type ExportHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewExportHandler(db *gorm.DB, logger *zap.Logger) *ExportHandler {
	return &ExportHandler{DB: db, Logger: logger}
}

func (h *ExportHandler) jobRows() ([]string, [][]string, error) {
	var jobs []models.Job
	if err := h.DB.Order("created_at").Find(&jobs).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]string, 0, len(jobs))
	for _, j := range jobs {
		rows = append(rows, []string{j.Company, j.Title, j.Date, j.Description})
	}
	return []string{"Company", "Title", "Date", "Description"}, rows, nil
}

func (h *ExportHandler) projectRows() ([]string, [][]string, error) {
	var projects []models.Project
	if err := h.DB.Order("created_at").Find(&projects).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			p.Title, p.Description,
			strings.Join(p.Imgs, ", "),
			p.Demo, p.Git,
			strings.Join(p.Stacks, ", "),
		})
	}
	return []string{"Title", "Description", "Imgs", "Demo", "Git", "Stacks"}, rows, nil
}

func (h *ExportHandler) testimonialRows() ([]string, [][]string, error) {
	var testimonials []models.Testimonial
	if err := h.DB.Order("created_at").Find(&testimonials).Error; err != nil {
		return nil, nil, err
	}
	rows := make([][]string, 0, len(testimonials))
	for _, t := range testimonials {
		rows = append(rows, []string{t.Name, t.Comment, t.Position, t.Company, t.Img})
	}
	return []string{"Name", "Comment", "Position", "Company", "Img"}, rows, nil
}

func (h *ExportHandler) tableRows(table string) ([]string, [][]string, error) {
	switch table {
	case "", "jobs":
		return h.jobRows()
	case "projects":
		return h.projectRows()
	case "testimonials":
		return h.testimonialRows()
	default:
		return nil, nil, fmt.Errorf("unknown table %q", table)
	}
}

// ExportCSV streams one table (?table=jobs|projects|testimonials,
// default jobs) as a CSV attachment.
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	table := c.Query("table")
	header, rows, err := h.tableRows(table)
	if err != nil {
		if strings.HasPrefix(err.Error(), "unknown table") {
			util.Fail(c, http.StatusBadRequest, "Unknown table")
			return
		}
		h.Logger.Error("export csv failed", zap.Error(err))
		util.Internal(c)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"portfolio_%s.csv\"",
		time.Now().Format("20060102")))

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write(header)
	for _, row := range rows {
		writer.Write(row)
	}
}

// ExportXLSX writes jobs, projects and testimonials as one workbook with
// a sheet per table.
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := []struct {
		name string
		load func() ([]string, [][]string, error)
	}{
		{"Jobs", h.jobRows},
		{"Projects", h.projectRows},
		{"Testimonials", h.testimonialRows},
	}

	for i, sheet := range sheets {
		header, rows, err := sheet.load()
		if err != nil {
			h.Logger.Error("export xlsx failed",
				zap.String("sheet", sheet.name), zap.Error(err))
			util.Internal(c)
			return
		}

		if i == 0 {
			f.SetSheetName("Sheet1", sheet.name)
		} else {
			if _, err := f.NewSheet(sheet.name); err != nil {
				h.Logger.Error("create sheet failed", zap.Error(err))
				util.Internal(c)
				return
			}
		}

		cell, _ := excelize.CoordinatesToCellName(1, 1)
		f.SetSheetRow(sheet.name, cell, &header)
		for r, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, r+2)
			f.SetSheetRow(sheet.name, cell, &row)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"portfolio_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		h.Logger.Error("write xlsx failed", zap.Error(err))
	}
}
