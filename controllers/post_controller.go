package controllers

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/middleware"
	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

// PostController manages blog posts. Posts are addressed by slug, carry a
// required cover image and belong to their author and one category.
type PostController struct {
	db *gorm.DB
}

func NewPostController(db *gorm.DB) *PostController {
	return &PostController{db: db}
}

// Index lists posts with author and category preloaded, newest first.
func (p *PostController) Index(ctx *gin.Context) {
	page, limit := utils.PageParams(ctx)

	var posts []models.Post
	query := p.db.Model(&models.Post{}).
		Preload("User").Preload("User.Role").Preload("Category").
		Order("created_at DESC")
	result, err := utils.Paginate(query, page, limit, &posts)
	if err != nil {
		utils.Error(ctx, "failed to retrieve posts")
		return
	}

	utils.SuccessPage(ctx, "posts retrieved", result)
}

// MyPosts lists only the caller's posts.
func (p *PostController) MyPosts(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return
	}

	page, limit := utils.PageParams(ctx)

	var posts []models.Post
	query := p.db.Model(&models.Post{}).
		Where("user_id = ?", userID).
		Preload("Category").
		Order("created_at DESC")
	result, err := utils.Paginate(query, page, limit, &posts)
	if err != nil {
		utils.Error(ctx, "failed to retrieve posts")
		return
	}

	utils.SuccessPage(ctx, "posts retrieved", result)
}

// Show fetches a single post by slug.
func (p *PostController) Show(ctx *gin.Context) {
	var post models.Post
	err := p.db.Where("slug = ?", ctx.Param("slug")).
		Preload("User").Preload("User.Role").Preload("Category").
		First(&post).Error
	if err != nil {
		utils.Fail(ctx, http.StatusNotFound, "post not found")
		return
	}

	utils.Success(ctx, http.StatusOK, "post retrieved", post)
}

// Store creates a post from a multipart form. The image is staged on disk
// first; any rejection afterwards removes the staged file again.
func (p *PostController) Store(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return
	}

	title := strings.TrimSpace(ctx.PostForm("title"))
	content := ctx.PostForm("content")
	categoryID, categoryErr := strconv.ParseUint(ctx.PostForm("categoryId"), 10, 32)

	image, err := utils.SavePostImage(ctx, "image", utils.Slugify(title))
	if err != nil {
		utils.Fail(ctx, http.StatusBadRequest, uploadErrorMessage(err))
		return
	}

	if msg, ok := validatePostFields(title, content); !ok {
		p.discardImage(image)
		utils.Fail(ctx, http.StatusBadRequest, msg)
		return
	}
	if categoryErr != nil {
		p.discardImage(image)
		utils.Fail(ctx, http.StatusBadRequest, "categoryId must be a valid category id")
		return
	}

	var category models.Category
	if err := p.db.First(&category, uint(categoryID)).Error; err != nil {
		p.discardImage(image)
		utils.Fail(ctx, http.StatusBadRequest, "category not found")
		return
	}

	var existing models.Post
	if err := p.db.Where("title = ?", title).First(&existing).Error; err == nil {
		p.discardImage(image)
		utils.Fail(ctx, http.StatusBadRequest, "post title already exists")
		return
	}

	post := models.Post{
		Title:      title,
		Slug:       utils.Slugify(title),
		Content:    utils.Sanitize(content),
		Image:      image,
		UserID:     userID,
		CategoryID: category.ID,
	}
	if err := p.db.Create(&post).Error; err != nil {
		p.discardImage(image)
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "post title already exists")
			return
		}
		utils.Error(ctx, "failed to create post")
		return
	}

	p.db.Preload("User").Preload("Category").First(&post, post.ID)
	utils.Success(ctx, http.StatusCreated, "post created", post)
}

// Update modifies the caller's own post. A title change regenerates the slug.
// A replacement image is staged first and the old file is removed only after
// the update passes all checks.
func (p *PostController) Update(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return
	}

	var post models.Post
	if err := p.db.Where("slug = ?", ctx.Param("slug")).First(&post).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "post not found")
		return
	}
	if post.UserID != userID {
		utils.Fail(ctx, http.StatusForbidden, "you can only modify your own posts")
		return
	}

	title := strings.TrimSpace(ctx.PostForm("title"))
	content := ctx.PostForm("content")
	if title == "" {
		title = post.Title
	}
	if content == "" {
		content = post.Content
	}

	newImage := ""
	if _, err := ctx.FormFile("image"); err == nil {
		newImage, err = utils.SavePostImage(ctx, "image", utils.Slugify(title))
		if err != nil {
			utils.Fail(ctx, http.StatusBadRequest, uploadErrorMessage(err))
			return
		}
	}

	if msg, ok := validatePostFields(title, content); !ok {
		p.discardImage(newImage)
		utils.Fail(ctx, http.StatusBadRequest, msg)
		return
	}

	if raw := ctx.PostForm("categoryId"); raw != "" {
		categoryID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			p.discardImage(newImage)
			utils.Fail(ctx, http.StatusBadRequest, "categoryId must be a valid category id")
			return
		}
		var category models.Category
		if err := p.db.First(&category, uint(categoryID)).Error; err != nil {
			p.discardImage(newImage)
			utils.Fail(ctx, http.StatusBadRequest, "category not found")
			return
		}
		post.CategoryID = category.ID
	}

	if title != post.Title {
		var existing models.Post
		if err := p.db.Where("title = ? AND id <> ?", title, post.ID).First(&existing).Error; err == nil {
			p.discardImage(newImage)
			utils.Fail(ctx, http.StatusBadRequest, "post title already exists")
			return
		}
		post.Title = title
		post.Slug = utils.Slugify(title)
	}
	post.Content = utils.Sanitize(content)

	oldImage := ""
	if newImage != "" {
		oldImage = post.Image
		post.Image = newImage
	}

	if err := p.db.Save(&post).Error; err != nil {
		p.discardImage(newImage)
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "post title already exists")
			return
		}
		utils.Error(ctx, "failed to update post")
		return
	}

	if oldImage != "" {
		p.discardImage(oldImage)
	}

	p.db.Preload("User").Preload("Category").First(&post, post.ID)
	utils.Success(ctx, http.StatusOK, "post updated", post)
}

// Destroy removes the caller's own post, its comments and its image file.
func (p *PostController) Destroy(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Fail(ctx, http.StatusUnauthorized, "authentication required, please login first")
		return
	}

	var post models.Post
	if err := p.db.Where("slug = ?", ctx.Param("slug")).First(&post).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "post not found")
		return
	}
	if post.UserID != userID {
		utils.Fail(ctx, http.StatusForbidden, "you can only modify your own posts")
		return
	}

	err := p.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		utils.Error(ctx, "failed to delete post")
		return
	}

	p.discardImage(post.Image)
	utils.Success(ctx, http.StatusOK, "post deleted", nil)
}

func (p *PostController) discardImage(name string) {
	if name == "" {
		return
	}
	if err := utils.DeleteImage(name); err != nil {
		utils.Sugar.Warnw("failed to remove post image", "image", name, "error", err)
	}
}

var postTitlePattern = regexp.MustCompile(`^[a-zA-Z0-9 .,:'&!?()-]+$`)

func validatePostFields(title, content string) (string, bool) {
	if n := utf8.RuneCountInString(title); n < 3 || n > 50 {
		return "title must be between 3 and 50 characters", false
	}
	if !postTitlePattern.MatchString(title) {
		return "title contains invalid characters", false
	}
	if utf8.RuneCountInString(content) < 10 {
		return "content must be at least 10 characters", false
	}
	return "", true
}

func uploadErrorMessage(err error) string {
	switch {
	case errors.Is(err, utils.ErrNoFile):
		return "post image is required"
	case errors.Is(err, utils.ErrInvalidFileType):
		return "image must be jpeg, png or gif"
	case errors.Is(err, utils.ErrFileTooLarge):
		return "image exceeds the maximum allowed size"
	default:
		return "failed to store uploaded image"
	}
}
