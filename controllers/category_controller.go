package controllers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

var categoryNamePattern = regexp.MustCompile(`^[a-zA-Z ]+$`)

// CategoryController manages post categories, addressed by slug.
// Mutations are admin-only via the route policy.
type CategoryController struct {
	db *gorm.DB
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{db: db}
}

// Index lists categories with pagination.
func (c *CategoryController) Index(ctx *gin.Context) {
	page, limit := utils.PageParams(ctx)

	var categories []models.Category
	result, err := utils.Paginate(c.db.Model(&models.Category{}).Order("name ASC"), page, limit, &categories)
	if err != nil {
		utils.Error(ctx, "failed to retrieve categories")
		return
	}

	utils.SuccessPage(ctx, "categories retrieved", result)
}

// Store creates a category; the slug is derived from the name.
func (c *CategoryController) Store(ctx *gin.Context) {
	name, ok := c.bindCategoryName(ctx)
	if !ok {
		return
	}

	var existing models.Category
	if err := c.db.Where("name = ?", name).First(&existing).Error; err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "category name already exists")
		return
	}

	category := models.Category{Name: name, Slug: utils.Slugify(name)}
	if err := c.db.Create(&category).Error; err != nil {
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "category name already exists")
			return
		}
		utils.Error(ctx, "failed to create category")
		return
	}

	utils.Success(ctx, http.StatusCreated, "category created", category)
}

// Update renames a category and regenerates its slug.
func (c *CategoryController) Update(ctx *gin.Context) {
	var category models.Category
	if err := c.db.Where("slug = ?", ctx.Param("slug")).First(&category).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "category not found")
		return
	}

	name, ok := c.bindCategoryName(ctx)
	if !ok {
		return
	}

	var existing models.Category
	if err := c.db.Where("name = ? AND id <> ?", name, category.ID).First(&existing).Error; err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "category name already exists")
		return
	}

	category.Name = name
	category.Slug = utils.Slugify(name)
	if err := c.db.Save(&category).Error; err != nil {
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "category name already exists")
			return
		}
		utils.Error(ctx, "failed to update category")
		return
	}

	utils.Success(ctx, http.StatusOK, "category updated", category)
}

// Destroy removes a category together with its posts, their comments and
// their image files.
func (c *CategoryController) Destroy(ctx *gin.Context) {
	var category models.Category
	if err := c.db.Where("slug = ?", ctx.Param("slug")).First(&category).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "category not found")
		return
	}

	var posts []models.Post
	c.db.Where("category_id = ?", category.ID).Find(&posts)

	err := c.db.Transaction(func(tx *gorm.DB) error {
		for _, post := range posts {
			if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("category_id = ?", category.ID).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		return tx.Delete(&category).Error
	})
	if err != nil {
		utils.Error(ctx, "failed to delete category")
		return
	}

	for _, post := range posts {
		if err := utils.DeleteImage(post.Image); err != nil {
			utils.Sugar.Warnw("failed to remove post image", "image", post.Image, "error", err)
		}
	}

	utils.Success(ctx, http.StatusOK, "category deleted", nil)
}

func (c *CategoryController) bindCategoryName(ctx *gin.Context) (string, bool) {
	type request struct {
		Name string `json:"name" binding:"required,min=3,max=30"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.FirstValidationError(err))
		return "", false
	}
	if !categoryNamePattern.MatchString(req.Name) {
		utils.Fail(ctx, http.StatusBadRequest, "category name may only contain letters and spaces")
		return "", false
	}
	return req.Name, true
}
