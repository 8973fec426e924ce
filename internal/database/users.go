package database

import (
	"errors"

	"salon-pos/internal/models"

	"gorm.io/gorm"
)

var ErrUserNotFound = errors.New("user not found")

func FindUserByUsername(username string) (*models.User, error) {
	var user models.User
	err := DB.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser stores a new login. The very first account becomes the admin.
func CreateUser(username, passwordHash string) (*models.User, error) {
	user := models.User{Username: username, PasswordHash: passwordHash, Role: models.RoleStaff}

	err := DB.Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.User{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			user.Role = models.RoleAdmin
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
