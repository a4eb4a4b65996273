// Package cache provides redis-backed caches for application adapters.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/finance-tracker/categorizer/internal/application/adapter"
	"github.com/finance-tracker/categorizer/internal/domain/entity"
)

const snapshotKeyPrefix = "rules:snapshot:"

// snapshotKey returns the redis key holding an owner's enabled rules.
func snapshotKey(ownerID uuid.UUID) string {
	return snapshotKeyPrefix + ownerID.String()
}

// ruleSnapshotCache implements adapter.RuleSnapshotProvider with a read-through redis cache.
type ruleSnapshotCache struct {
	client *redis.Client
	repo   adapter.CategoryRuleRepository
	ttl    time.Duration
}

// NewRuleSnapshotCache wraps the rule repository with a redis cache.
// A redis failure falls back to the repository.
func NewRuleSnapshotCache(client *redis.Client, repo adapter.CategoryRuleRepository, ttl time.Duration) adapter.RuleSnapshotProvider {
	return &ruleSnapshotCache{
		client: client,
		repo:   repo,
		ttl:    ttl,
	}
}

// EnabledRules returns the cached snapshot, loading and storing it on a miss.
func (c *ruleSnapshotCache) EnabledRules(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error) {
	key := snapshotKey(ownerID)

	payload, err := c.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var rules []*entity.CategoryRule
		jsonErr := json.Unmarshal(payload, &rules)
		if jsonErr == nil {
			return rules, nil
		}
		slog.Warn("Discarding unreadable rule snapshot", "owner_id", ownerID, "error", jsonErr)
	case !errors.Is(err, redis.Nil):
		slog.Warn("Rule snapshot cache unavailable", "owner_id", ownerID, "error", err)
	}

	rules, err := c.repo.FindEnabledByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load enabled rules: %w", err)
	}

	payload, err = json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("failed to encode rule snapshot: %w", err)
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		slog.Warn("Failed to store rule snapshot", "owner_id", ownerID, "error", err)
	}

	return rules, nil
}

// Invalidate drops the owner's snapshot.
func (c *ruleSnapshotCache) Invalidate(ctx context.Context, ownerID uuid.UUID) error {
	if err := c.client.Del(ctx, snapshotKey(ownerID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate rule snapshot: %w", err)
	}
	return nil
}

// repositorySnapshots reads the rules straight from the repository.
type repositorySnapshots struct {
	repo adapter.CategoryRuleRepository
}

// NewRepositorySnapshots returns a provider without caching, used when redis is disabled.
func NewRepositorySnapshots(repo adapter.CategoryRuleRepository) adapter.RuleSnapshotProvider {
	return &repositorySnapshots{repo: repo}
}

func (s *repositorySnapshots) EnabledRules(ctx context.Context, ownerID uuid.UUID) ([]*entity.CategoryRule, error) {
	return s.repo.FindEnabledByOwner(ctx, ownerID)
}

func (s *repositorySnapshots) Invalidate(context.Context, uuid.UUID) error {
	return nil
}
