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

// UserHandler serves CRUD over the users table. Passwords are hashed on
// the way in and never serialized on the way out.
type UserHandler struct {
	DB         *gorm.DB
	Logger     *zap.Logger
	BcryptCost int
}

func NewUserHandler(db *gorm.DB, logger *zap.Logger, bcryptCost int) *UserHandler {
	return &UserHandler{DB: db, Logger: logger, BcryptCost: bcryptCost}
}

type createUserReq struct {
	Username string `json:"username"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Fullname string `json:"fullname"`
	Role     int16  `json:"role"`
	Avatar   string `json:"avatar"`
	Notes    string `json:"notes"`
	Active   int16  `json:"active"`
}

type updateUserReq struct {
	Username *string `json:"username"`
	Password *string `json:"password"`
	Email    *string `json:"email"`
	Fullname *string `json:"fullname"`
	Role     *int16  `json:"role"`
	Avatar   *string `json:"avatar"`
	Notes    *string `json:"notes"`
	Active   *int16  `json:"active"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	hash, err := util.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		h.Logger.Error("hash password failed", zap.Error(err))
		util.Internal(c)
		return
	}

	role := req.Role
	if role == 0 {
		role = models.RoleEditor
	}

	user := models.User{
		Username: req.Username,
		Password: hash,
		Email:    req.Email,
		Fullname: req.Fullname,
		Role:     role,
		Avatar:   req.Avatar,
		Notes:    req.Notes,
		Active:   req.Active,
	}
	if err := h.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "User with that email already exists")
			return
		}
		h.Logger.Error("create user failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Created(c, util.Item(user.Public()))
}

func (h *UserHandler) List(c *gin.Context) {
	_, limit, offset := util.Pagination(c)

	var count int64
	if err := h.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		h.Logger.Error("count users failed", zap.Error(err))
		util.Internal(c)
		return
	}

	var users []models.User
	if err := h.DB.Order("created_at").Limit(limit).Offset(offset).
		Find(&users).Error; err != nil {
		h.Logger.Error("list users failed", zap.Error(err))
		util.Internal(c)
		return
	}

	items := make([]models.PublicUser, 0, len(users))
	for i := range users {
		items = append(items, users[i].Public())
	}
	util.List(c, count, items)
}

func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get user failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	util.Success(c, util.Item(user.Public()))
}

func (h *UserHandler) Update(c *gin.Context) {
	id := c.Param("id")

	var user models.User
	if err := h.DB.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		} else {
			h.Logger.Error("get user failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := util.HashPassword(*req.Password, h.BcryptCost)
		if err != nil {
			h.Logger.Error("hash password failed", zap.Error(err))
			util.Internal(c)
			return
		}
		user.Password = hash
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Fullname != nil {
		user.Fullname = *req.Fullname
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Notes != nil {
		user.Notes = *req.Notes
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := h.DB.Save(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			util.Fail(c, http.StatusConflict, "User with that email already exists")
			return
		}
		h.Logger.Error("update user failed", zap.Error(err))
		util.Internal(c)
		return
	}

	util.Success(c, util.Item(user.Public()))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	res := h.DB.Delete(&models.User{}, "id = ?", id)
	if res.Error != nil {
		h.Logger.Error("delete user failed", zap.Error(res.Error))
		util.Internal(c)
		return
	}
	if res.RowsAffected == 0 {
		util.Fail(c, http.StatusNotFound, fmt.Sprintf("Item with ID: %s not found", id))
		return
	}

	c.Status(http.StatusNoContent)
}
