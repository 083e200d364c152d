package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/bip/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, settings domain.BipSettings) error {
	return r.db.WithContext(ctx).Create(&settings).Error
}

func (r *repository) FindByProduct(ctx context.Context, orgID, productID snowflake.ID) (*domain.BipSettings, error) {
	var settings domain.BipSettings
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND product_id = ?", orgID, productID).
		First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *repository) Update(ctx context.Context, settings *domain.BipSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
