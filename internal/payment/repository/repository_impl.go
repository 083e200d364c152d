package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/payment/domain"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

// NewRepository backs both billing lookups with direct queries; the payment
// edges need two narrow reads, not the whole organization domain.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var (
	_ domain.SeatCounter   = (*Repository)(nil)
	_ domain.BillingLookup = (*Repository)(nil)
)

func (r *Repository) CountActiveSeats(ctx context.Context, orgID snowflake.ID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("organization_members").
		Joins("JOIN users ON users.id = organization_members.user_id").
		Where("organization_members.org_id = ? AND users.active = ?", orgID, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) BillingCustomerID(ctx context.Context, orgID snowflake.ID) (string, error) {
	var ref string
	err := r.db.WithContext(ctx).
		Table("organizations").
		Select("billing_customer_id").
		Where("id = ?", orgID).
		Scan(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return ref, nil
}
