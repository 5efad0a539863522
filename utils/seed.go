package utils

import (
	"errors"

	"gorm.io/gorm"

	"github.com/alvinsyah/goblog/config"
	"github.com/alvinsyah/goblog/models"
)

// SeedDefaults ensures the built-in roles exist and, when configured,
// creates the bootstrap admin account. Safe to run on every boot.
func SeedDefaults(db *gorm.DB) error {
	for _, name := range []string{models.RoleAdmin, models.RoleUser} {
		var role models.Role
		err := db.Where("name = ?", name).First(&role).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := db.Create(&models.Role{Name: name}).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}
	}

	cfg := config.Get()
	if cfg.AdminUsername == "" || cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return nil
	}

	var existing models.User
	err := db.Where("email = ?", cfg.AdminEmail).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var adminRole models.Role
	if err := db.Where("name = ?", models.RoleAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	hash, err := HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Username:     cfg.AdminUsername,
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		RoleID:       &adminRole.ID,
	}).Error
}
