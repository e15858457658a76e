package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jptandoc/turo_backend/models"
)

// IsAdmin reports whether the user is listed in the admins or superadmins
// tables. Role membership is checked against the database, not JWT claims,
// so a revoked admin loses access without waiting for token expiry.
func IsAdmin(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&models.Admin{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := db.Model(&models.Superadmin{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func IsSuperadmin(db *gorm.DB, userID uuid.UUID) (bool, error) {
	var count int64
	if err := db.Model(&models.Superadmin{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
