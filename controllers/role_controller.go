package controllers

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/models"
	"github.com/alvinsyah/goblog/utils"
)

var roleNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// RoleController manages role definitions. All operations are admin-only,
// enforced by the route policy.
type RoleController struct {
	db *gorm.DB
}

func NewRoleController(db *gorm.DB) *RoleController {
	return &RoleController{db: db}
}

// Index lists roles with pagination.
func (r *RoleController) Index(ctx *gin.Context) {
	page, limit := utils.PageParams(ctx)

	var roles []models.Role
	result, err := utils.Paginate(r.db.Model(&models.Role{}).Order("id ASC"), page, limit, &roles)
	if err != nil {
		utils.Error(ctx, "failed to retrieve roles")
		return
	}

	utils.SuccessPage(ctx, "roles retrieved", result)
}

// Store creates a role.
func (r *RoleController) Store(ctx *gin.Context) {
	name, ok := r.bindRoleName(ctx)
	if !ok {
		return
	}

	var existing models.Role
	if err := r.db.Where("name = ?", name).First(&existing).Error; err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "role name already exists")
		return
	}

	role := models.Role{Name: name}
	if err := r.db.Create(&role).Error; err != nil {
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "role name already exists")
			return
		}
		utils.Error(ctx, "failed to create role")
		return
	}

	utils.Success(ctx, http.StatusCreated, "role created", role)
}

// Update renames a role.
func (r *RoleController) Update(ctx *gin.Context) {
	var role models.Role
	if err := r.db.First(&role, ctx.Param("id")).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "role not found")
		return
	}

	name, ok := r.bindRoleName(ctx)
	if !ok {
		return
	}

	var existing models.Role
	if err := r.db.Where("name = ? AND id <> ?", name, role.ID).First(&existing).Error; err == nil {
		utils.Fail(ctx, http.StatusBadRequest, "role name already exists")
		return
	}

	role.Name = name
	if err := r.db.Save(&role).Error; err != nil {
		if isDuplicateKeyErr(err) {
			utils.Fail(ctx, http.StatusBadRequest, "role name already exists")
			return
		}
		utils.Error(ctx, "failed to update role")
		return
	}

	utils.Success(ctx, http.StatusOK, "role updated", role)
}

// Destroy removes a role. Users holding it are detached, not deleted.
func (r *RoleController) Destroy(ctx *gin.Context) {
	var role models.Role
	if err := r.db.First(&role, ctx.Param("id")).Error; err != nil {
		utils.Fail(ctx, http.StatusNotFound, "role not found")
		return
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("role_id = ?", role.ID).Update("role_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&role).Error
	})
	if err != nil {
		utils.Error(ctx, "failed to delete role")
		return
	}

	utils.Success(ctx, http.StatusOK, "role deleted", nil)
}

func (r *RoleController) bindRoleName(ctx *gin.Context) (string, bool) {
	type request struct {
		Name string `json:"name" binding:"required,min=3,max=20"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Fail(ctx, http.StatusBadRequest, utils.FirstValidationError(err))
		return "", false
	}
	if !roleNamePattern.MatchString(req.Name) {
		utils.Fail(ctx, http.StatusBadRequest, "role name may only contain letters and numbers")
		return "", false
	}
	return req.Name, true
}
