package repo

import (
	"context"
	"time"

	"gorm.io/gorm/clause"

	"github.com/roamstay/marketplace/services/auth/internal/models"
)

// UpsertResetToken is a single insert-or-replace keyed by email, so two
// concurrent reset requests for the same address can never leave two live
// tokens.
func (r *GormRepo) UpsertResetToken(ctx context.Context, email, token string, at time.Time) error {
	entry := models.PasswordResetToken{
		Email:     email,
		Token:     token,
		CreatedAt: at,
	}
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "created_at"}),
	}).Create(&entry).Error
}

func (r *GormRepo) FindResetToken(ctx context.Context, email string) (*models.PasswordResetToken, error) {
	var entry models.PasswordResetToken
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *GormRepo) DeleteResetToken(ctx context.Context, email string) error {
	return r.DB.WithContext(ctx).Where("email = ?", email).
		Delete(&models.PasswordResetToken{}).Error
}
