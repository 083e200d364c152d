// Package event is the in-process domain event bus.
//
// Services publish events after a successful commit; subscribers update
// derived state (feed items, bip settings, billing seats). A subscriber
// failure never propagates back to the publisher, and an event with no
// subscribers is dropped.
package event

import "github.com/bwmarrin/snowflake"

// Event names are the stable wire vocabulary for subscribers and logs.
const (
	OrgCreatedName      = "org.created"
	ProductCreatedName  = "product.created"
	OKRCreatedName      = "okr.created"
	OKRDeletedName      = "okr.deleted"
	WorkItemCreatedName = "workItem.created"
	WorkItemUpdatedName = "workItem.updated"
	WorkItemDeletedName = "workItem.deleted"
	UserActivatedName   = "user.activated"
	UserDeactivatedName = "user.deactivated"
	FeedTextPostedName  = "feed.textPosted"
)

// Event is implemented by every domain event.
type Event interface {
	Name() string
}

// Lifecycle is the shared shape of aggregate lifecycle events: who acted,
// which tenant, which entity, and a DTO snapshot taken at emit time.
// Content must be JSON-marshalable; it is persisted opaquely by the feed.
type Lifecycle struct {
	OrgID      snowflake.ID
	UserID     snowflake.ID
	EntityType string
	EntityID   snowflake.ID
	Title      string
	Content    any
}

type OrgCreated struct {
	OrgID   snowflake.ID
	UserID  snowflake.ID
	Content any
}

func (OrgCreated) Name() string { return OrgCreatedName }

type ProductCreated struct {
	OrgID     snowflake.ID
	ProductID snowflake.ID
}

func (ProductCreated) Name() string { return ProductCreatedName }

type OKRCreated struct{ Lifecycle }

func (OKRCreated) Name() string { return OKRCreatedName }

type OKRDeleted struct{ Lifecycle }

func (OKRDeleted) Name() string { return OKRDeletedName }

type WorkItemCreated struct{ Lifecycle }

func (WorkItemCreated) Name() string { return WorkItemCreatedName }

// WorkItemUpdated snapshots both sides of the change; the feed persists
// {previous, current} so readers can diff.
type WorkItemUpdated struct {
	Lifecycle
	Previous any
	Current  any
}

func (WorkItemUpdated) Name() string { return WorkItemUpdatedName }

type WorkItemDeleted struct{ Lifecycle }

func (WorkItemDeleted) Name() string { return WorkItemDeletedName }

type UserActivated struct {
	OrgID  snowflake.ID
	UserID snowflake.ID
}

func (UserActivated) Name() string { return UserActivatedName }

type UserDeactivated struct {
	OrgID  snowflake.ID
	UserID snowflake.ID
}

func (UserDeactivated) Name() string { return UserDeactivatedName }

// FeedTextPosted announces a manually authored feed entry.
type FeedTextPosted struct {
	OrgID  snowflake.ID
	UserID snowflake.ID
	Title  string
	Text   string
}

func (FeedTextPosted) Name() string { return FeedTextPostedName }
