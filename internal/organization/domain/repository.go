package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrganization(ctx context.Context, org Organization) error
	AddMember(ctx context.Context, member OrganizationMember) error
	GetByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]OrganizationListItem, error)
	IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error)
	UpdateBilling(ctx context.Context, req UpdateBillingRequest) error
	PlanByOrgID(ctx context.Context, orgID snowflake.ID) (string, error)
}

type OrganizationListItem struct {
	ID        snowflake.ID
	Name      string
	Role      string
	CreatedAt time.Time
}
