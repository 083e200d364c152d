package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	RoleOwner  = "OWNER"
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

type Service interface {
	Create(ctx context.Context, userID snowflake.ID, req CreateOrganizationRequest) (*OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (*OrganizationResponse, error)
	ListOrganizationsByUser(ctx context.Context, userID snowflake.ID) ([]OrganizationListResponseItem, error)
	IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error)
	UpdateBilling(ctx context.Context, req UpdateBillingRequest) error
}

type CreateOrganizationRequest struct {
	Name string
}

// UpdateBillingRequest carries plan transitions coming from the billing
// processor webhook. The plan value is the sole gate input.
type UpdateBillingRequest struct {
	OrgID              snowflake.ID
	Plan               string
	SubscriptionStatus string
	BillingCustomerID  string
}

type OrganizationResponse struct {
	ID                 string    `json:"id"`
	Name               string    `json:"name"`
	Slug               string    `json:"slug"`
	Plan               string    `json:"plan"`
	SubscriptionStatus string    `json:"subscription_status"`
	CreatedAt          time.Time `json:"created_at"`
}

type OrganizationListResponseItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrNotFound            = errors.New("organization_not_found")
)
