package agenda

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"tarefas-api/internal/domain"
	"tarefas-api/internal/store"
)

// dateLayout is the wire format of the execution_date query parameter.
const dateLayout = "2006-01-02"

// Filters restricts the agenda listing. Zero values mean "no restriction".
type Filters struct {
	// Date matches tasks whose execution date falls on this calendar day,
	// ignoring time-of-day.
	Date *time.Time

	// Status matches tasks with exactly this status.
	Status domain.TaskStatus

	// CategoryID matches tasks labeled with this category.
	CategoryID uuid.UUID

	// Search matches tasks whose title or description contains this
	// substring, case-insensitively.
	Search string
}

// IsZero reports whether no filter is set. The unfiltered query is the
// highest-traffic case and gets the distinguished hash-free cache key.
func (f Filters) IsZero() bool {
	return f.Date == nil && f.Status == "" && f.CategoryID == uuid.Nil && f.Search == ""
}

// ParseFilters extracts agenda filters from query parameters. Parsing is
// deliberately permissive: a malformed value (unparseable date, unknown
// status, non-UUID category) is dropped as if the parameter were absent,
// so the agenda endpoint never fails on bad filter syntax.
func ParseFilters(q url.Values) Filters {
	var f Filters

	if raw := q.Get("execution_date"); raw != "" {
		if day, err := time.Parse(dateLayout, raw); err == nil {
			f.Date = &day
		}
	}

	if raw := q.Get("status"); raw != "" {
		if status := domain.TaskStatus(raw); status.IsValid() {
			f.Status = status
		}
	}

	if raw := q.Get("categories"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			f.CategoryID = id
		}
	}

	f.Search = strings.TrimSpace(q.Get("search"))

	return f
}

// StoreFilter converts the filters to the persistence-layer representation.
func (f Filters) StoreFilter() store.TaskFilter {
	return store.TaskFilter{
		Status:     f.Status,
		CategoryID: f.CategoryID,
		Day:        f.Date,
		Search:     f.Search,
	}
}

// normalize returns the set filters as sorted "name=value" pairs. Sorting
// makes key derivation independent of the order parameters arrived in.
func (f Filters) normalize() []string {
	var pairs []string

	if f.Date != nil {
		pairs = append(pairs, "date="+f.Date.Format(dateLayout))
	}
	if f.Status != "" {
		pairs = append(pairs, "status="+string(f.Status))
	}
	if f.CategoryID != uuid.Nil {
		pairs = append(pairs, "category="+f.CategoryID.String())
	}
	if f.Search != "" {
		pairs = append(pairs, "search="+f.Search)
	}

	sort.Strings(pairs)
	return pairs
}

// String renders the filters for logging.
func (f Filters) String() string {
	if f.IsZero() {
		return "(none)"
	}
	return fmt.Sprintf("{%s}", strings.Join(f.normalize(), " "))
}
