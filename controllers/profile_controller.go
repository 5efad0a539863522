package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/middleware"
	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

// ProfileController serves the authenticated user's own account.
type ProfileController struct {
	db *gorm.DB
}

func NewProfileController(db *gorm.DB) *ProfileController {
	return &ProfileController{db: db}
}

// Show returns the caller's public profile fields.
func (p *ProfileController) Show(ctx *gin.Context) {
	user, ok := p.currentUser(ctx)
	if !ok {
		return
	}

	utils.Success(ctx, http.StatusOK, "profile retrieved", gin.H{
		"username": user.Username,
		"email":    user.Email,
		"role":     user.RoleName(),
	})
}

// Update changes username, email or password. A password change requires the
// current password to be verified first.
func (p *ProfileController) Update(ctx *gin.Context) {
	type request struct {
		Username        string `json:"username" binding:"omitempty,min=3,max=50,alphanum"`
		Email           string `json:"email" binding:"omitempty,email"`
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword" binding:"omitempty,min=6"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.FirstValidationError(err))
		return
	}

	user, ok := p.currentUser(ctx)
	if !ok {
		return
	}

	if req.Username != "" && req.Username != user.Username {
		var existing models.User
		if err := p.db.Where("username = ? AND id <> ?", req.Username, user.ID).First(&existing).Error; err == nil {
			utils.Fail(ctx, http.StatusBadRequest, "username already taken")
			return
		}
		user.Username = req.Username
	}

	if req.Email != "" && req.Email != user.Email {
		var existing models.User
		if err := p.db.Where("email = ? AND id <> ?", req.Email, user.ID).First(&existing).Error; err == nil {
			utils.Fail(ctx, http.StatusBadRequest, "email already registered")
			return
		}
		user.Email = req.Email
	}

	if req.NewPassword != "" {
		if !utils.CheckPassword(user.PasswordHash, req.CurrentPassword) {
			utils.Fail(ctx, http.StatusUnauthorized, "current password is incorrect")
			return
		}
		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			utils.Error(ctx, "failed to process password")
			return
		}
		user.PasswordHash = hash
	}

	if err := p.db.Save(user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "username or email already in use")
			return
		}
		utils.Error(ctx, "failed to update profile")
		return
	}

	utils.Success(ctx, http.StatusOK, "profile updated", gin.H{
		"username": user.Username,
		"email":    user.Email,
	})
}

// Destroy deletes the account after password confirmation, removing the
// user's posts with their image files, and their comments.
func (p *ProfileController) Destroy(ctx *gin.Context) {
	type request struct {
		Password string `json:"password" binding:"required"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.FirstValidationError(err))
		return
	}

	user, ok := p.currentUser(ctx)
	if !ok {
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Fail(ctx, http.StatusUnauthorized, "password is incorrect")
		return
	}

	var posts []models.Post
	p.db.Where("user_id = ?", user.ID).Find(&posts)

	err := p.db.Transaction(func(tx *gorm.DB) error {
		for _, post := range posts {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		utils.Error(ctx, "failed to delete account")
		return
	}

	// Image files are removed only after the rows are gone.
	for _, post := range posts {
		if err := utils.DeleteImage(post.Image); err != nil {
			utils.Sugar.Warnw("failed to remove post image", "image", post.Image, "error", err)
		}
	}

	clearTokenCookie(ctx)
	utils.Success(ctx, http.StatusOK, "account deleted", nil)
}

func (p *ProfileController) currentUser(ctx *gin.Context) (*models.User, bool) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return nil, false
	}

	var user models.User
	if err := p.db.Preload("Role").First(&user, userID).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "user not found")
		return nil, false
	}
	return &user, true
}
