package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/config"
	"github.com/alvinsyah/goblog/middleware"
	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates an AuthController.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates a local account with bcrypt hashing and the default role.
func (a *AuthController) Register(ctx *gin.Context) {
	type request struct {
		Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.FirstValidationError(err))
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "email already registered")
		return
	}
	if err := a.db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, "failed to process password")
		return
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
	}

	// New accounts get the default role when it exists.
	var defaultRole models.Role
	if err := a.db.Where("name = ?", models.RoleUser).First(&defaultRole).Error; err == nil {
		user.RoleID = &defaultRole.ID
	}

	if err := a.db.Create(&user).Error; err != nil {
		// The unique indexes are the real duplicate guard; the pre-checks above
		// only exist for friendlier messages.
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "username or email already in use")
			return
		}
		utils.Error(ctx, "failed to create account")
		return
	}

	a.sendTokenResponse(ctx, &user, http.StatusCreated, "registration successful")
}

// Login verifies credentials and issues a JWT as both body token and cookie.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.FirstValidationError(err))
		return
	}

	var user models.User
	err := a.db.Where("email = ?", req.Email).First(&user).Error
	if err != nil || !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Fail(ctx, http.StatusUnauthorized, "invalid email or password")
		return
	}

	a.sendTokenResponse(ctx, &user, http.StatusOK, "login successful")
}

// Logout revokes the presented token by its jti until its natural expiry and
// clears the cookie.
func (a *AuthController) Logout(ctx *gin.Context) {
	token := middleware.TokenFromRequest(ctx)
	if claims, err := utils.ParseToken(token); err == nil {
		expiresAt := time.Now().Add(time.Duration(config.Get().JWTExpireHours) * time.Hour)
		if claims.ExpiresAt != nil {
			expiresAt = claims.ExpiresAt.Time
		}
		utils.BlacklistToken(claims.ID, expiresAt)
	}

	clearTokenCookie(ctx)
	utils.Success(ctx, http.StatusOK, "logout successful", nil)
}

// sendTokenResponse issues a token for the user, sets the httpOnly jwt cookie
// and writes the auth envelope with the token alongside the public user data.
func (a *AuthController) sendTokenResponse(ctx *gin.Context, user *models.User, status int, message string) {
	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		utils.Error(ctx, "failed to generate token")
		return
	}

	cfg := config.Get()
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie("jwt", token, cfg.JWTExpireHours*3600, "/", "", cfg.Environment == "production", true)

	ctx.JSON(status, gin.H{
		"status":  "success",
		"message": message,
		"token":   token,
		"data": gin.H{
			"username": user.Username,
			"email":    user.Email,
		},
	})
}

func clearTokenCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteStrictMode)
	ctx.SetCookie("jwt", "", -1, "/", "", config.Get().Environment == "production", true)
}

// isDuplicateKeyErr reports whether the persistence error is a unique
// constraint violation, translated to the same 400-class response as the
// manual duplicate checks.
func isDuplicateKeyErr(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
