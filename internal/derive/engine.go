package derive

import (
	"sort"
	"strings"
	"time"
)

// Reserved value keys consumed by Apply's fixed pipeline stages.
const (
	SearchKey = "query"
	WindowKey = "window"
	SortKey   = "sort"
)

// Time-window bounds for the WindowKey stage.
var windowBounds = map[string]time.Duration{
	"24h": 24 * time.Hour,
	"7d":  7 * 24 * time.Hour,
	"30d": 30 * 24 * time.Hour,
}

// WindowOptions are the selectable window values, neutral sentinel first.
var WindowOptions = []string{All, "24h", "7d", "30d"}

// Less orders two items; used for the stable sort stage.
type Less[T any] func(a, b T) bool

// Binding tells Apply how to read one entity type. Nil accessors disable the
// corresponding stage.
type Binding[T any] struct {
	// Text is the field matched by the SearchKey value.
	Text func(T) string

	// Selects maps a values key to the category field it compares against.
	Selects map[string]func(T) string

	// Timestamp enables the WindowKey stage.
	Timestamp func(T) time.Time

	// Sorts maps a SortKey value to its ordering.
	Sorts map[string]Less[T]
}

// Apply derives a filtered, ordered view of items. Stages run in a fixed
// order: text search, categorical equality, time window, stable sort. The
// input slice is never mutated or retained; ties keep their input order.
func Apply[T any](items []T, vals Values, b Binding[T], now time.Time) []T {
	out := make([]T, 0, len(items))

	query := strings.ToLower(strings.TrimSpace(vals[SearchKey]))
	window := vals[WindowKey]
	bound, bounded := windowBounds[window]

	for _, item := range items {
		if query != "" && b.Text != nil {
			if !strings.Contains(strings.ToLower(b.Text(item)), query) {
				continue
			}
		}

		if !matchSelects(item, vals, b.Selects) {
			continue
		}

		if b.Timestamp != nil && bounded {
			// A zero timestamp (unparseable source value) fails every
			// bounded window but still passes "all".
			if now.Sub(b.Timestamp(item)) > bound {
				continue
			}
		}

		out = append(out, item)
	}

	if name := vals[SortKey]; name != "" && name != All {
		if less, ok := b.Sorts[name]; ok {
			sort.SliceStable(out, func(i, j int) bool {
				return less(out[i], out[j])
			})
		}
	}

	return out
}

func matchSelects[T any](item T, vals Values, selects map[string]func(T) string) bool {
	for key, category := range selects {
		value, ok := vals[key]
		if !ok || value == "" || value == All {
			continue
		}
		if category(item) != value {
			return false
		}
	}
	return true
}

// ParseTimestamp parses an RFC 3339 timestamp, returning the zero time for
// malformed input. Entities with malformed timestamps stay in the
// collection: they fail every bounded window and pass "all". Do not exclude
// them outright.
func ParseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
