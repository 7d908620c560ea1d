package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roamstay/marketplace/services/auth/internal/models"
)

var (
	ErrEmailTaken = errors.New("email already taken")
	ErrPhoneTaken = errors.New("phone already taken")
)

func (r *GormRepo) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) FindUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	var count int64
	if err := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", u.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	if u.Phone != "" {
		if err := r.DB.WithContext(ctx).Model(&models.User{}).
			Where("phone = ?", u.Phone).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPhoneTaken
		}
	}

	return r.DB.WithContext(ctx).Create(u).Error
}

func (r *GormRepo) CreateHostProfile(ctx context.Context, p *models.HostProfile) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

// CreateHostUser persists the user and its host profile in one
// transaction: a profile failure must not leave an orphaned user row
// that would turn a retry into "email taken".
func (r *GormRepo) CreateHostUser(ctx context.Context, u *models.User, p *models.HostProfile) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		inner := &GormRepo{DB: tx}
		if err := inner.CreateUser(ctx, u); err != nil {
			return err
		}
		p.UserID = u.ID
		return inner.CreateHostProfile(ctx, p)
	})
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Save(u).Error
}

// StampPhoneVerified sets phone_verified_at once; a timestamp already set
// is left untouched.
func (r *GormRepo) StampPhoneVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND phone_verified_at IS NULL", id).
		Update("phone_verified_at", at).Error
}

func (r *GormRepo) StampEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND email_verified_at IS NULL", id).
		Update("email_verified_at", at).Error
}

func (r *GormRepo) UpdateUserRole(ctx context.Context, id uuid.UUID, role string) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("role", role).Error
}

func (r *GormRepo) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	result := r.DB.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
