package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/northstar/internal/event"
	"github.com/smallbiznis/northstar/internal/feed/domain"
	orgdomain "github.com/smallbiznis/northstar/internal/organization/domain"
	userdomain "github.com/smallbiznis/northstar/internal/user/domain"
	"gorm.io/datatypes"
)

// OrgResolver and UserResolver verify that the ids an event carries still
// resolve; satisfied by the organization and user services.
type OrgResolver interface {
	GetByID(ctx context.Context, id string) (*orgdomain.OrganizationResponse, error)
}

type UserResolver interface {
	GetByID(ctx context.Context, id snowflake.ID) (*userdomain.Response, error)
}

// Subscriber projects aggregate lifecycle events into feed items.
type Subscriber struct {
	repo  domain.Repository
	genID *snowflake.Node
	orgs  OrgResolver
	users UserResolver
}

func NewSubscriber(repo domain.Repository, genID *snowflake.Node, orgs OrgResolver, users UserResolver) *Subscriber {
	return &Subscriber{repo: repo, genID: genID, orgs: orgs, users: users}
}

// Register hooks the subscriber into the bus for every event that produces
// a feed entry.
func (s *Subscriber) Register(bus *event.Bus) {
	for _, name := range []string{
		event.OKRCreatedName,
		event.OKRDeletedName,
		event.WorkItemCreatedName,
		event.WorkItemUpdatedName,
		event.WorkItemDeletedName,
	} {
		bus.Subscribe(name, s.onLifecycle)
	}
}

func (s *Subscriber) onLifecycle(ctx context.Context, e event.Event) error {
	var (
		lc      event.Lifecycle
		content any
		action  domain.Action
	)

	switch evt := e.(type) {
	case event.OKRCreated:
		lc, content, action = evt.Lifecycle, evt.Content, domain.ActionCreated
	case event.OKRDeleted:
		lc, content, action = evt.Lifecycle, evt.Content, domain.ActionDeleted
	case event.WorkItemCreated:
		lc, content, action = evt.Lifecycle, evt.Content, domain.ActionCreated
	case event.WorkItemUpdated:
		lc = evt.Lifecycle
		content = map[string]any{"previous": evt.Previous, "current": evt.Current}
		action = domain.ActionUpdated
	case event.WorkItemDeleted:
		lc, content, action = evt.Lifecycle, evt.Content, domain.ActionDeleted
	default:
		return fmt.Errorf("unexpected payload for %s: %T", e.Name(), e)
	}

	// A dangling org or user id means the event is stale; surface the error
	// to the bus rather than writing an orphaned item.
	org, err := s.orgs.GetByID(ctx, lc.OrgID.String())
	if err != nil {
		return err
	}
	if org == nil {
		return orgdomain.ErrNotFound
	}

	var userID *snowflake.ID
	if lc.UserID != 0 {
		user, err := s.users.GetByID(ctx, lc.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return userdomain.ErrNotFound
		}
		id := lc.UserID
		userID = &id
	}

	raw, err := json.Marshal(content)
	if err != nil {
		return err
	}

	return s.repo.Create(ctx, domain.FeedItem{
		ID:         s.genID.Generate(),
		OrgID:      lc.OrgID,
		UserID:     userID,
		Title:      lc.Title,
		EntityType: lc.EntityType,
		EntityID:   lc.EntityID,
		Action:     action,
		Content:    datatypes.JSON(raw),
		CreatedAt:  time.Now().UTC(),
	})
}
