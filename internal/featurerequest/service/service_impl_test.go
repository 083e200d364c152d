package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/northstar/internal/cache"
	"github.com/smallbiznis/northstar/internal/entitlement"
	"github.com/smallbiznis/northstar/internal/featurerequest/domain"
	"github.com/smallbiznis/northstar/internal/featurerequest/repository"
	"github.com/smallbiznis/northstar/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type planSourceStub struct {
	plan string
}

func (s *planSourceStub) PlanByOrgID(ctx context.Context, orgID snowflake.ID) (string, error) {
	return s.plan, nil
}

type membershipStub struct {
	member bool
}

func (s *membershipStub) IsMember(ctx context.Context, orgID, userID snowflake.ID) (bool, error) {
	return s.member, nil
}

func setupService(t *testing.T, plan string, member bool) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_loc=auto", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	prepareSchema(t, db)

	node := mustNode(t)
	svc := New(Params{
		DB:         db,
		Log:        zap.NewNop(),
		GenID:      node,
		Repo:       repository.NewRepository(db),
		Gate:       entitlement.NewResolver(&planSourceStub{plan: plan}, cache.NewPlanCache()),
		Membership: &membershipStub{member: member},
	})
	return svc, db, node
}

func prepareSchema(t *testing.T, db *gorm.DB) {
	t.Helper()
	if err := db.Exec(`CREATE TABLE feature_requests (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		title TEXT NOT NULL,
		description TEXT,
		status TEXT NOT NULL DEFAULT 'open',
		votes_count INTEGER NOT NULL DEFAULT 0,
		created_by BIGINT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create feature_requests: %v", err)
	}
	if err := db.Exec(`CREATE TABLE feature_request_votes (
		id BIGINT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		feature_request_id BIGINT NOT NULL,
		org_id BIGINT NOT NULL,
		vote INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`).Error; err != nil {
		t.Fatalf("create feature_request_votes: %v", err)
	}
	if err := db.Exec(`CREATE UNIQUE INDEX ux_fr_votes_user_request
		ON feature_request_votes (user_id, feature_request_id)`).Error; err != nil {
		t.Fatalf("create vote index: %v", err)
	}
}

func mustNode(t *testing.T) *snowflake.Node {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return node
}

func votesCount(t *testing.T, db *gorm.DB, id snowflake.ID) int {
	t.Helper()
	var count int
	if err := db.Raw(`SELECT votes_count FROM feature_requests WHERE id = ?`, id).Scan(&count).Error; err != nil {
		t.Fatalf("read votes_count: %v", err)
	}
	return count
}

func sumVotes(t *testing.T, db *gorm.DB, id snowflake.ID) int {
	t.Helper()
	var sum int
	if err := db.Raw(`SELECT COALESCE(SUM(vote), 0) FROM feature_request_votes
		WHERE feature_request_id = ?`, id).Scan(&sum).Error; err != nil {
		t.Fatalf("sum votes: %v", err)
	}
	return sum
}

func mustCreateRequest(t *testing.T, svc domain.Service, actorID snowflake.ID, scope domain.Scope, title string) snowflake.ID {
	t.Helper()
	resp, err := svc.Create(context.Background(), actorID, scope, domain.CreateRequest{Title: title})
	if err != nil {
		t.Fatalf("create feature request: %v", err)
	}
	id, err := snowflake.ParseString(resp.ID)
	if err != nil {
		t.Fatalf("parse id: %v", err)
	}
	return id
}

func TestUpvoteIsIdempotent(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	userID := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, userID, scope, "dark mode")

	for i := 0; i < 3; i++ {
		if err := svc.Upvote(ctx, userID, orgID, frID); err != nil {
			t.Fatalf("upvote %d: %v", i, err)
		}
	}

	if got := votesCount(t, db, frID); got != 1 {
		t.Fatalf("expected votes_count 1 after repeated upvotes, got %d", got)
	}

	var rows int
	if err := db.Raw(`SELECT COUNT(1) FROM feature_request_votes WHERE feature_request_id = ?`, frID).Scan(&rows).Error; err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if rows != 1 {
		t.Fatalf("expected a single vote row, got %d", rows)
	}
}

func TestVoteFlipMovesCounterByTwo(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	userID := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, userID, scope, "offline support")

	if err := svc.Downvote(ctx, userID, orgID, frID); err != nil {
		t.Fatalf("downvote: %v", err)
	}
	if got := votesCount(t, db, frID); got != -1 {
		t.Fatalf("expected votes_count -1 after downvote, got %d", got)
	}

	if err := svc.Upvote(ctx, userID, orgID, frID); err != nil {
		t.Fatalf("flip to upvote: %v", err)
	}
	if got := votesCount(t, db, frID); got != 1 {
		t.Fatalf("expected votes_count 1 after flip, got %d", got)
	}
}

func TestVotesCountMatchesVoteSum(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	creator := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, creator, scope, "webhooks")

	voters := []snowflake.ID{node.Generate(), node.Generate(), node.Generate()}
	if err := svc.Upvote(ctx, voters[0], orgID, frID); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := svc.Upvote(ctx, voters[1], orgID, frID); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := svc.Downvote(ctx, voters[2], orgID, frID); err != nil {
		t.Fatalf("downvote: %v", err)
	}

	count := votesCount(t, db, frID)
	if count != 1 {
		t.Fatalf("expected votes_count 1, got %d", count)
	}
	if sum := sumVotes(t, db, frID); sum != count {
		t.Fatalf("counter diverged from vote rows: count=%d sum=%d", count, sum)
	}
}

func TestVoteOnMissingRequest(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM", true)

	err := svc.Upvote(context.Background(), node.Generate(), node.Generate(), node.Generate())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestVoteScopedToOrg(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	userID := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, userID, scope, "sso")

	otherOrg := node.Generate()
	err := svc.Upvote(ctx, userID, otherOrg, frID)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for foreign org, got %v", err)
	}
	if got := votesCount(t, db, frID); got != 0 {
		t.Fatalf("expected counter untouched, got %d", got)
	}
}

func TestFreePlanIsFullyGated(t *testing.T) {
	svc, db, node := setupService(t, "FREE", true)
	ctx := context.Background()
	orgID := node.Generate()
	userID := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	_, err := svc.Create(ctx, userID, scope, domain.CreateRequest{Title: "blocked"})
	if !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required on create, got %v", err)
	}
	if _, err := svc.List(ctx, scope, pagination.Pagination{}); !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required on list, got %v", err)
	}
	if err := svc.Upvote(ctx, userID, orgID, node.Generate()); !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required on upvote, got %v", err)
	}
	if _, err := svc.GetVotes(ctx, userID, orgID); !errors.Is(err, entitlement.ErrUpgradeRequired) {
		t.Fatalf("expected upgrade required on votes, got %v", err)
	}

	var rows int
	if err := db.Raw(`SELECT COUNT(1) FROM feature_requests`).Scan(&rows).Error; err != nil {
		t.Fatalf("count requests: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected nothing persisted on a free plan, got %d rows", rows)
	}
}

func TestUpdateRequiresCreator(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	creator := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, creator, scope, "exports")

	stranger := node.Generate()
	title := "renamed"
	_, err := svc.Update(ctx, stranger, scope, frID, domain.UpdateRequest{Title: &title})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden for non-creator, got %v", err)
	}
}

func TestGetVotesReturnsOnlyCallersVotes(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	userA := node.Generate()
	userB := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, userA, scope, "api tokens")

	if err := svc.Upvote(ctx, userA, orgID, frID); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := svc.Downvote(ctx, userB, orgID, frID); err != nil {
		t.Fatalf("downvote: %v", err)
	}

	votes, err := svc.GetVotes(ctx, userA, orgID)
	if err != nil {
		t.Fatalf("get votes: %v", err)
	}
	if len(votes) != 1 {
		t.Fatalf("expected one vote for userA, got %d", len(votes))
	}
	if votes[0].FeatureRequestID != frID.String() || votes[0].Vote != domain.VoteUp {
		t.Fatalf("unexpected vote payload: %+v", votes[0])
	}
}

// The counter is recomputed from the vote rows on every cast, so a value
// that drifted (e.g. a lost concurrent delta) heals on the next vote.
func TestCastVoteResetsDriftedCounter(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	creator := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, creator, scope, "audit log")

	if err := svc.Upvote(ctx, creator, orgID, frID); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := db.Exec(`UPDATE feature_requests SET votes_count = 5 WHERE id = ?`, frID).Error; err != nil {
		t.Fatalf("drift counter: %v", err)
	}

	voter := node.Generate()
	if err := svc.Upvote(ctx, voter, orgID, frID); err != nil {
		t.Fatalf("second upvote: %v", err)
	}

	count := votesCount(t, db, frID)
	if count != 2 {
		t.Fatalf("expected counter reset to the row sum, got %d", count)
	}
	if sum := sumVotes(t, db, frID); sum != count {
		t.Fatalf("counter diverged from vote rows: count=%d sum=%d", count, sum)
	}
}

func TestListOrdersByVotesThenRecency(t *testing.T) {
	svc, _, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	creator := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	mustCreateRequest(t, svc, creator, scope, "unloved")
	popular := mustCreateRequest(t, svc, creator, scope, "most wanted")

	for _, voter := range []snowflake.ID{node.Generate(), node.Generate()} {
		if err := svc.Upvote(ctx, voter, orgID, popular); err != nil {
			t.Fatalf("upvote: %v", err)
		}
	}

	list, err := svc.List(ctx, scope, pagination.Pagination{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(list))
	}
	if list[0].Title != "most wanted" || list[0].VotesCount != 2 {
		t.Fatalf("expected the most voted request first: %+v", list)
	}
}

func TestDeleteRemovesVoteRows(t *testing.T) {
	svc, db, node := setupService(t, "PREMIUM", true)
	ctx := context.Background()
	orgID := node.Generate()
	creator := node.Generate()
	scope := domain.Scope{OrgID: orgID, ProductID: node.Generate()}

	frID := mustCreateRequest(t, svc, creator, scope, "short lived")

	if err := svc.Upvote(ctx, node.Generate(), orgID, frID); err != nil {
		t.Fatalf("upvote: %v", err)
	}
	if err := svc.Delete(ctx, creator, scope, frID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var rows int
	if err := db.Raw(`SELECT COUNT(1) FROM feature_request_votes WHERE feature_request_id = ?`, frID).Scan(&rows).Error; err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected vote rows to go with their request, got %d", rows)
	}
}
