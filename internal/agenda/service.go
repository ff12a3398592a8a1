package agenda

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/platform/logger"
	"tarefas-api/internal/store"
)

// Cache is the key-value capability the agenda layer consumes. Get returns
// (nil, nil) when the key is absent. All operations are individually atomic;
// no transactional guarantees are assumed, and entries may be evicted at
// any time.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// TaskLister is the slice of the task store the agenda layer needs.
type TaskLister interface {
	List(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
}

// TaskSummary is the lightweight list projection of a task, the shape
// stored in the cache and returned by the agenda endpoint.
type TaskSummary struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	ExecutionDate time.Time         `json:"execution_date"`
	Status        domain.TaskStatus `json:"status"`
	Categories    []string          `json:"categories"`
}

// Config holds the TTL policy for cached agenda views.
type Config struct {
	// DefaultTTL applies to the unfiltered view.
	DefaultTTL time.Duration

	// FilteredTTL applies to any view with at least one explicit filter.
	// Filtered views have lower reuse likelihood, so they expire sooner.
	FilteredTTL time.Duration
}

// DefaultConfig returns the standard TTL policy.
func DefaultConfig() Config {
	return Config{
		DefaultTTL:  15 * time.Minute,
		FilteredTTL: 5 * time.Minute,
	}
}

// Service serves the agenda read path with lookaside caching and exposes
// the invalidation hook used by task mutations. The cache and store clients
// are injected at construction; their lifecycles belong to the caller.
type Service struct {
	cache  Cache
	tasks  TaskLister
	config Config
	logger *slog.Logger
}

// NewService creates an agenda service.
func NewService(cache Cache, tasks TaskLister, config Config, log *slog.Logger) *Service {
	if config.DefaultTTL <= 0 {
		config.DefaultTTL = DefaultConfig().DefaultTTL
	}
	if config.FilteredTTL <= 0 {
		config.FilteredTTL = DefaultConfig().FilteredTTL
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		cache:  cache,
		tasks:  tasks,
		config: config,
		logger: log.With(slog.String("component", "agenda_service")),
	}
}

// GetAgenda returns the owner's tasks matching the filters, ordered by
// execution date ascending, in summary form.
//
// The cache is consulted first; a hit is returned verbatim. On a miss the
// persistent store is queried and the cache populated with the TTL for the
// view kind. Any cache failure degrades to serving straight from the store:
// cache errors are logged, never surfaced. Store errors propagate.
func (s *Service) GetAgenda(ctx context.Context, ownerID uuid.UUID, filters Filters) ([]TaskSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key, cacheUsable := s.buildKey(ctx, ownerID, filters, log)

	if cacheUsable {
		cached, err := s.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Warn("agenda cache get failed, falling back to store",
				slog.String("key", key),
				slog.String("error", err.Error()))
			cacheUsable = false
		case cached != nil:
			var summaries []TaskSummary
			if err := json.Unmarshal(cached, &summaries); err != nil {
				// A corrupt entry is treated as a miss and overwritten.
				log.Warn("agenda cache entry corrupt, treating as miss",
					slog.String("key", key),
					slog.String("error", err.Error()))
			} else {
				return summaries, nil
			}
		}
	}

	tasks, err := s.tasks.List(ctx, ownerID, filters.StoreFilter())
	if err != nil {
		return nil, err
	}

	summaries := Summarize(tasks)

	if cacheUsable {
		if data, err := json.Marshal(summaries); err == nil {
			if err := s.cache.Set(ctx, key, data, s.ttlFor(filters)); err != nil {
				log.Warn("agenda cache set failed",
					slog.String("key", key),
					slog.String("error", err.Error()))
			}
		}
	}

	return summaries, nil
}

// Invalidate discards every cached agenda view for the owner. It must be
// called synchronously by any create, update, or delete of the owner's
// tasks, before the mutation's result is returned to its caller.
//
// It bumps the owner's generation counter, which orphans all keyed views
// (filtered included), and deletes the current unfiltered key outright.
// Cache failures are logged, not surfaced: a mutation never fails because
// of the cache, and a missed invalidation is still bounded by TTL expiry.
func (s *Service) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	generation := s.readGeneration(ctx, ownerID, log)
	unfiltered := cacheKey(ownerID, generation, Filters{})

	if _, err := s.cache.Incr(ctx, generationKey(ownerID)); err != nil {
		log.Warn("agenda generation bump failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
	}

	if err := s.cache.Delete(ctx, unfiltered); err != nil {
		log.Warn("agenda unfiltered key delete failed",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
	}
}

// buildKey computes the cache key for the request. The second return value
// is false when the generation counter could not be read, in which case the
// whole request bypasses the cache (fail-open).
func (s *Service) buildKey(ctx context.Context, ownerID uuid.UUID, filters Filters, log *slog.Logger) (string, bool) {
	generation, err := s.generation(ctx, ownerID)
	if err != nil {
		log.Warn("agenda generation read failed, bypassing cache",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return "", false
	}
	return cacheKey(ownerID, generation, filters), true
}

// generation reads the owner's current generation counter; an absent
// counter is generation zero.
func (s *Service) generation(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	raw, err := s.cache.Get(ctx, generationKey(ownerID))
	if err != nil {
		return 0, err
	}
	if raw == nil {
		return 0, nil
	}

	n, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		// A mangled counter is unusable; start over at zero. Stale entries
		// under other generations expire by TTL.
		return 0, nil
	}
	return n, nil
}

// readGeneration is the log-and-continue variant used on the write side.
func (s *Service) readGeneration(ctx context.Context, ownerID uuid.UUID, log *slog.Logger) int64 {
	generation, err := s.generation(ctx, ownerID)
	if err != nil {
		log.Warn("agenda generation read failed during invalidation",
			slog.String("owner_id", ownerID.String()),
			slog.String("error", err.Error()))
		return 0
	}
	return generation
}

// ttlFor selects the TTL for a view: the unfiltered view is reused often
// and kept longer; filtered views expire sooner.
func (s *Service) ttlFor(filters Filters) time.Duration {
	if filters.IsZero() {
		return s.config.DefaultTTL
	}
	return s.config.FilteredTTL
}

// Summarize projects tasks to their list form.
func Summarize(tasks []*domain.Task) []TaskSummary {
	summaries := make([]TaskSummary, 0, len(tasks))
	for _, t := range tasks {
		summaries = append(summaries, TaskSummary{
			ID:            t.ID,
			Title:         t.Title,
			ExecutionDate: t.ExecutionDate,
			Status:        t.Status,
			Categories:    t.CategoryNames(),
		})
	}
	return summaries
}
