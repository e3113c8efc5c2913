package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"portfolio-api/internal/models"
	"portfolio-api/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// imageExt is the fixed extension for all stored images.
	imageExt = ".webp"
	// stagedPrefix marks uploads whose final (id-based) name is not known
	// yet. Reconciliation skips these.
	stagedPrefix = "staged-"
)

// ImageHandler owns the upload/commit/serve pipeline and the image rows.
//
// A logical image moves through: staged file (upload) -> row + id-named
// file (commit). Commit is the only step that couples the database and
// the filesystem, and it cleans up its row when the rename fails so no
// row ever points at a file that was never there.
type ImageHandler struct {
	DB     *gorm.DB
	Dir    string
	Logger *zap.Logger
}

func NewImageHandler(db *gorm.DB, dir string, logger *zap.Logger) *ImageHandler {
	return &ImageHandler{DB: db, Dir: dir, Logger: logger}
}

// resolve maps a client-supplied name to a path inside the content
// directory, rejecting anything that would escape it.
func (h *ImageHandler) resolve(name string) (string, error) {
	if name == "" || name != filepath.Base(name) {
		return "", fmt.Errorf("invalid file name %q", name)
	}
	path := filepath.Join(h.Dir, name)
	rel, err := filepath.Rel(h.Dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("path %q escapes content dir", name)
	}
	return path, nil
}

type stagedItem struct {
	Field string `json:"field"`
	Name  string `json:"name"`
}

// Upload streams every multipart file field to its own staging file. Each
// staging name carries a fresh UUID, so concurrent uploads never collide.
func (h *ImageHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	var items []stagedItem
	for field, files := range form.File {
		for _, fh := range files {
			name := stagedPrefix + uuid.NewString() + imageExt
			if err := h.saveUpload(fh, name); err != nil {
				h.Logger.Error("upload failed",
					zap.String("field", field), zap.Error(err))
				util.Internal(c)
				return
			}
			items = append(items, stagedItem{Field: field, Name: name})
		}
	}

	if len(items) == 0 {
		util.Fail(c, http.StatusBadRequest, "No file fields in request")
		return
	}

	util.Created(c, gin.H{"items": items})
}

func (h *ImageHandler) saveUpload(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	path, err := h.resolve(name)
	if err != nil {
		return err
	}
	dst, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create staging file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write staging file: %w", err)
	}
	return nil
}

type commitImageReq struct {
	Name string `json:"name" binding:"required"`
}

// Commit turns a staged file into a committed image: insert the row,
// rename the file to the generated id, record the final name. A rename
// failure rolls the row back so no dangling row is left behind.
func (h *ImageHandler) Commit(c *gin.Context) {
	var req commitImageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	stagedPath, err := h.resolve(req.Name)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid file name")
		return
	}
	if _, err := os.Stat(stagedPath); err != nil {
		util.Fail(c, http.StatusNotFound, "Staged file not found")
		return
	}

	image := models.Image{Name: req.Name}
	if err := h.DB.Create(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "Image with that name already exists")
			return
		}
		h.Logger.Error("create image row failed", zap.Error(err))
		util.Internal(c)
		return
	}

	finalName := image.ID.String() + imageExt
	finalPath, err := h.resolve(finalName)
	if err != nil {
		h.DB.Delete(&models.Image{}, "id = ?", image.ID)
		h.Logger.Error("resolve final name failed", zap.Error(err))
		util.Internal(c)
		return
	}

	if err := os.Rename(stagedPath, finalPath); err != nil {
		// undo the insert so the row never outlives a failed rename
		h.DB.Delete(&models.Image{}, "id = ?", image.ID)
		h.Logger.Error("rename staged file failed",
			zap.String("staged", req.Name), zap.Error(err))
		util.Internal(c)
		return
	}

	if err := h.DB.Model(&image).Update("name", finalName).Error; err != nil {
		// undo both steps so the row never survives pointing at the staged
		// name the rename just moved away
		if rerr := os.Rename(finalPath, stagedPath); rerr != nil {
			h.Logger.Warn("restore staged file failed",
				zap.String("staged", req.Name), zap.Error(rerr))
		}
		h.DB.Delete(&models.Image{}, "id = ?", image.ID)
		h.Logger.Error("record final name failed", zap.Error(err))
		util.Internal(c)
		return
	}
	image.Name = finalName

	util.Created(c, util.Item(image))
}

// List returns a creation-ordered page of image rows with the total count.
func (h *ImageHandler) List(c *gin.Context) {
	_, limit, offset := util.Pagination(c)

	var count int64
	if err := h.DB.Model(&models.Image{}).Count(&count).Error; err != nil {
		h.Logger.Error("count images failed", zap.Error(err))
		util.Internal(c)
		return
	}

	var images []models.Image
	if err := h.DB.Order("created_at").Limit(limit).Offset(offset).
		Find(&images).Error; err != nil {
		h.Logger.Error("list images failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.List(c, count, images)
}

func (h *ImageHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var image models.Image
	if err := h.DB.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get image failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	util.Success(c, util.Item(image))
}

type updateImageReq struct {
	Name *string `json:"name"`
}

// Edit renames an image on disk and in its row.
func (h *ImageHandler) Edit(c *gin.Context) {
	id := c.Param("id")

	var image models.Image
	if err := h.DB.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get image failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	var req updateImageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == nil || *req.Name == image.Name {
		util.Success(c, util.Item(image))
		return
	}

	oldName := image.Name
	oldPath, err := h.resolve(oldName)
	if err != nil {
		h.Logger.Error("resolve old name failed", zap.Error(err))
		util.Internal(c)
		return
	}
	newPath, err := h.resolve(*req.Name)
	if err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid file name")
		return
	}

	// commit the row first so a name conflict leaves the files untouched
	image.Name = *req.Name
	if err := h.DB.Save(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "Image with that name already exists")
			return
		}
		h.Logger.Error("update image failed", zap.Error(err))
		util.Internal(c)
		return
	}

	// a missing source file is tolerated; dangling rows are reconcile's
	// business
	if err := os.Rename(oldPath, newPath); err != nil && !os.IsNotExist(err) {
		image.Name = oldName
		if rerr := h.DB.Save(&image).Error; rerr != nil {
			h.Logger.Warn("revert image name failed", zap.Error(rerr))
		}
		h.Logger.Error("rename image failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Success(c, util.Item(image))
}

// Delete removes the file best-effort, then the row. A missing file never
// blocks the row deletion; a second delete on the same id is a 404.
func (h *ImageHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	var image models.Image
	if err := h.DB.First(&image, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get image failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	if path, err := h.resolve(image.Name); err == nil {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			h.Logger.Warn("remove image file failed",
				zap.String("name", image.Name), zap.Error(err))
		}
	}

	if err := h.DB.Delete(&models.Image{}, "id = ?", image.ID).Error; err != nil {
		h.Logger.Error("delete image row failed", zap.Error(err))
		util.Internal(c)
		return
	}

	c.Status(http.StatusNoContent)
}

// Reconcile synchronizes the content directory with the images table:
// on-disk files without a row are adopted, rows without a file are
// reported as dangling but never deleted here.
func (h *ImageHandler) Reconcile(c *gin.Context) {
	entries, err := os.ReadDir(h.Dir)
	if err != nil {
		h.Logger.Error("read content dir failed", zap.Error(err))
		util.Internal(c)
		return
	}

	onDisk := make(map[string]bool, len(entries))
	var adopted []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		onDisk[name] = true
		if strings.HasPrefix(name, stagedPrefix) {
			continue
		}

		var existing models.Image
		err := h.DB.First(&existing, "name = ?", name).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.Logger.Error("lookup image by name failed", zap.Error(err))
			util.Internal(c)
			return
		}

		image := models.Image{Name: name}
		if err := h.DB.Create(&image).Error; err != nil {
			h.Logger.Error("adopt orphan file failed",
				zap.String("name", name), zap.Error(err))
			util.Internal(c)
			return
		}
		adopted = append(adopted, name)
	}

	var rows []models.Image
	if err := h.DB.Find(&rows).Error; err != nil {
		h.Logger.Error("list images failed", zap.Error(err))
		util.Internal(c)
		return
	}
	dangling := []string{}
	for _, row := range rows {
		if !onDisk[row.Name] {
			dangling = append(dangling, row.Name)
		}
	}
	if adopted == nil {
		adopted = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"adopted":  adopted,
		"dangling": dangling,
	})
}

// Show streams a file from the content directory. The path segment is
// canonicalized first; anything resolving outside the directory is a 404.
func (h *ImageHandler) Show(c *gin.Context) {
	path, err := h.resolve(c.Param("path"))
	if err != nil {
		util.Fail(c, http.StatusNotFound, "Image not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		util.Fail(c, http.StatusNotFound, "Image not found")
		return
	}
	c.File(path)
}
