package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/roamstay/marketplace/services/stays/internal/models"
	"github.com/roamstay/marketplace/services/stays/internal/transport"
)

func (r *GormRepo) GetStay(ctx context.Context, id uuid.UUID) (*models.Stay, error) {
	var stay models.Stay
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&stay).Error; err != nil {
		return nil, err
	}
	return &stay, nil
}

func (r *GormRepo) ListStays(ctx context.Context, offset, limit int) (int64, []models.Stay, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Stay{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Stay, 0, limit)
	if err := r.DB.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}

	return total, items, nil
}

func (r *GormRepo) CreateStay(ctx context.Context, stay *models.Stay) error {
	return r.DB.WithContext(ctx).Create(stay).Error
}

func (r *GormRepo) PatchStay(ctx context.Context, stay *models.Stay, req transport.PatchStayRequest) error {
	if req.Title != nil {
		stay.Title = *req.Title
	}
	if req.Description != nil {
		stay.Description = *req.Description
	}
	if req.City != nil {
		stay.City = *req.City
	}
	if req.Country != nil {
		stay.Country = *req.Country
	}
	if req.Address != nil {
		stay.Address = *req.Address
	}
	if req.PricePerNight != nil {
		stay.PricePerNight = *req.PricePerNight
	}
	if req.MaxGuests != nil {
		stay.MaxGuests = *req.MaxGuests
	}
	return r.DB.WithContext(ctx).Save(stay).Error
}

func (r *GormRepo) DeleteStay(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Delete(&models.Stay{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
