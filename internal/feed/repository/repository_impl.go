package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/feed/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, item domain.FeedItem) error {
	return r.db.WithContext(ctx).Create(&item).Error
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, limit, offset int) ([]domain.FeedItem, error) {
	var items []domain.FeedItem
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
