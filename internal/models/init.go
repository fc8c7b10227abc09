package models

import (
	"strings"

	"github.com/etiquetas-qr/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin creates the bootstrap back-office account.
func InitDefaultAdmin(username, password string) error {
	var count int64
	DB.Model(&Admin{}).Count(&count)

	// With accounts present, make sure the default admin keeps the super role.
	if count > 0 {
		if err := DB.Model(&Admin{}).Where("username = ?", "admin").Update("role", AdminRoleSuper).Error; err != nil {
			logger.Warnw("ensure_default_admin_role_failed", "error", err)
		}
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	role := AdminRoleOperator
	if strings.EqualFold(strings.TrimSpace(username), "admin") {
		role = AdminRoleSuper
	}
	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
	}

	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}

	return nil
}
