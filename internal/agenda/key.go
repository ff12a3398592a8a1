package agenda

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// generationKey is the per-owner counter embedded in every cache key.
// Incrementing it on invalidation makes all of the owner's cached views
// unreachable at once; the orphaned entries expire by TTL.
func generationKey(ownerID uuid.UUID) string {
	return "agenda:gen:" + ownerID.String()
}

// cacheKey derives the cache key for an owner, generation, and filter set.
//
// The unfiltered query gets a distinguished, stable, hash-free key since it
// is the highest-traffic case. Filtered queries append an xxhash of the
// sorted filter pairs, so equal filter values produce equal keys regardless
// of parameter order. A hash collision between two filter sets can at worst
// serve one owner's other result set for up to one TTL window; it can never
// cross owners because the owner ID is a literal key segment.
func cacheKey(ownerID uuid.UUID, generation int64, filters Filters) string {
	base := fmt.Sprintf("agenda:user:%s:g%d", ownerID, generation)
	if filters.IsZero() {
		return base
	}

	digest := xxhash.Sum64String(strings.Join(filters.normalize(), "&"))
	return fmt.Sprintf("%s:f:%016x", base, digest)
}
