package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/middleware"
	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

// CommentController manages comments, created under a post's slug and
// addressed individually by id.
type CommentController struct {
	db *gorm.DB
}

func NewCommentController(db *gorm.DB) *CommentController {
	return &CommentController{db: db}
}

// Index lists all comments across posts, newest first.
func (c *CommentController) Index(ctx *gin.Context) {
	page, limit := utils.PageParams(ctx)

	var comments []models.Comment
	query := c.db.Model(&models.Comment{}).
		Preload("User").
		Order("created_at DESC")
	result, err := utils.Paginate(query, page, limit, &comments)
	if err != nil {
		utils.Error(ctx, "failed to retrieve comments")
		return
	}

	utils.SuccessPage(ctx, "comments retrieved", result)
}

// IndexByPost lists the comments of one post, looked up by slug.
func (c *CommentController) IndexByPost(ctx *gin.Context) {
	post, ok := c.findPost(ctx)
	if !ok {
		return
	}

	page, limit := utils.PageParams(ctx)

	var comments []models.Comment
	query := c.db.Model(&models.Comment{}).
		Where("post_id = ?", post.ID).
		Preload("User").
		Order("created_at DESC")
	result, err := utils.Paginate(query, page, limit, &comments)
	if err != nil {
		utils.Error(ctx, "failed to retrieve comments")
		return
	}

	utils.SuccessPage(ctx, "comments retrieved", result)
}

// Store adds a comment to the post named by slug.
func (c *CommentController) Store(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return
	}

	post, ok := c.findPost(ctx)
	if !ok {
		return
	}

	content, ok := bindCommentContent(ctx)
	if !ok {
		return
	}

	comment := models.Comment{
		Content: content,
		PostID:  post.ID,
		UserID:  userID,
	}
	if err := c.db.Create(&comment).Error; err != nil {
		utils.Error(ctx, "failed to create comment")
		return
	}

	c.db.Preload("User").First(&comment, comment.ID)
	utils.Success(ctx, http.StatusCreated, "comment created", comment)
}

// Show fetches one comment by id.
func (c *CommentController) Show(ctx *gin.Context) {
	var comment models.Comment
	if err := c.db.Preload("User").First(&comment, ctx.Param("id")).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "comment not found")
		return
	}

	utils.Success(ctx, http.StatusOK, "comment retrieved", comment)
}

// Update edits the caller's own comment.
func (c *CommentController) Update(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, ctx.Param("id")).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "comment not found")
		return
	}
	if comment.UserID != userID {
		utils.Fail(ctx, http.StatusForbidden, "you can only modify your own comments")
		return
	}

	content, ok := bindCommentContent(ctx)
	if !ok {
		return
	}

	comment.Content = content
	if err := c.db.Save(&comment).Error; err != nil {
		utils.Error(ctx, "failed to update comment")
		return
	}

	c.db.Preload("User").First(&comment, comment.ID)
	utils.Success(ctx, http.StatusOK, "comment updated", comment)
}

// Destroy removes the caller's own comment.
func (c *CommentController) Destroy(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return
	}

	var comment models.Comment
	if err := c.db.First(&comment, ctx.Param("id")).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "comment not found")
		return
	}
	if comment.UserID != userID {
		utils.Fail(ctx, http.StatusForbidden, "you can only modify your own comments")
		return
	}

	if err := c.db.Delete(&comment).Error; err != nil {
		utils.Error(ctx, "failed to delete comment")
		return
	}

	utils.Success(ctx, http.StatusOK, "comment deleted", nil)
}

func (c *CommentController) findPost(ctx *gin.Context) (*models.Post, bool) {
	var post models.Post
	if err := c.db.Where("slug = ?", ctx.Param("slug")).First(&post).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "post not found")
		return nil, false
	}
	return &post, true
}

func bindCommentContent(ctx *gin.Context) (string, bool) {
	type request struct {
		Content string `json:"content" binding:"required,max=500"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.FirstValidationError(err))
		return "", false
	}

	content := strings.TrimSpace(utils.Sanitize(req.Content))
	if content == "" {
		utils.Fail(ctx, http.StatusBadRequest, "content must not be empty")
		return "", false
	}
	return content, true
}
