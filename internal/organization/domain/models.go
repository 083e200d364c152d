// Package domain contains persistence models for the organization service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Organization represents a tenant.
type Organization struct {
	ID                 snowflake.ID `gorm:"primaryKey" json:"id"`
	Name               string       `gorm:"type:text;not null" json:"name"`
	Slug               string       `gorm:"type:text;not null;uniqueIndex:ux_organizations_slug" json:"slug"`
	Plan               string       `gorm:"type:text;not null;default:'FREE'" json:"plan"`
	SubscriptionStatus string       `gorm:"type:text;not null;default:'none';column:subscription_status" json:"subscription_status"`
	BillingCustomerID  string       `gorm:"type:text;column:billing_customer_id" json:"billing_customer_id"`
	CreatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt          time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Organization) TableName() string { return "organizations" }

// OrganizationMember represents membership of a user in an organization.
type OrganizationMember struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index;uniqueIndex:ux_org_user,priority:1" json:"org_id"`
	UserID    snowflake.ID `gorm:"not null;index;uniqueIndex:ux_org_user,priority:2" json:"user_id"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (OrganizationMember) TableName() string { return "organization_members" }
