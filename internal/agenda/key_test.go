package agenda

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCacheKeyUnfiltered(t *testing.T) {
	t.Parallel()

	owner := uuid.MustParse("39d5e0e3-6a67-46db-bd0f-d46a9e848b09")
	key := cacheKey(owner, 0, Filters{})
	assert.Equal(t, "agenda:user:39d5e0e3-6a67-46db-bd0f-d46a9e848b09:g0", key)
}

func TestCacheKeyDeterministic(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	day := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	filters := Filters{Date: &day, Status: "pending", Search: "report"}

	assert.Equal(t, cacheKey(owner, 3, filters), cacheKey(owner, 3, filters))
}

func TestCacheKeyChangesWithGeneration(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	filters := Filters{Status: "pending"}

	assert.NotEqual(t, cacheKey(owner, 0, filters), cacheKey(owner, 1, filters))
}

func TestCacheKeyDistinguishesFilterSets(t *testing.T) {
	t.Parallel()

	owner := uuid.New()
	a := cacheKey(owner, 0, Filters{Status: "pending"})
	b := cacheKey(owner, 0, Filters{Status: "completed"})
	c := cacheKey(owner, 0, Filters{Search: "pending"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}

func TestCacheKeyScopedToOwner(t *testing.T) {
	t.Parallel()

	filters := Filters{Status: "pending"}
	assert.NotEqual(t, cacheKey(uuid.New(), 0, filters), cacheKey(uuid.New(), 0, filters))
}

func TestGenerationKey(t *testing.T) {
	t.Parallel()

	owner := uuid.MustParse("39d5e0e3-6a67-46db-bd0f-d46a9e848b09")
	assert.Equal(t, "agenda:gen:39d5e0e3-6a67-46db-bd0f-d46a9e848b09", generationKey(owner))
}
