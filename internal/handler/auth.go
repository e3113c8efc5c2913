package handler

import (
	"errors"
	"net/http"

	"portfolio-api/internal/models"
	"portfolio-api/internal/session"
	"portfolio-api/internal/util"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AuthHandler owns login/logout. It is the only writer of session state.
type AuthHandler struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

func NewAuthHandler(db *gorm.DB, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{DB: db, Logger: logger}
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and establishes the session. Unknown email
// and wrong password produce the same response so the endpoint cannot be
// used to probe which accounts exist.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := h.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.Fail(c, http.StatusUnauthorized, "Unauthorized")
		} else {
			h.Logger.Error("login lookup failed", zap.Error(err))
			util.Internal(c)
		}
		return
	}

	if !util.CheckPassword(req.Password, user.Password) {
		util.Fail(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	sess := session.FromContext(c)
	sess.SetUser(&user)

	util.Success(c, user.Public())
}

// Logout drops all session state. Calling it on an anonymous session is
// not an error.
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := session.FromContext(c)
	sess.Clear()

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// TestLogin marks the session authenticated without credentials. Only
// registered when security.test_login is enabled; never in release mode.
func (h *AuthHandler) TestLogin(c *gin.Context) {
	sess := session.FromContext(c)
	sess.SetLoggedIn(true)
	sess.SetRole(models.RoleEditor)

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
