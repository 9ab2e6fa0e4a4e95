package journal

import (
	"strings"
	"time"

	"momentlog/internal/model"
)

// MomentFilter selects a subset of an event's moments. Dimensions combine
// with AND; a zero-valued dimension matches everything. Within Tags the
// match is an intersection test: a moment passes if it carries at least one
// of the requested tags.
type MomentFilter struct {
	// Search is matched case-insensitively as a substring of the moment's
	// content. Empty matches all.
	Search string

	// Tags is the requested tag set. Empty matches all.
	Tags []model.Tag

	// From and To bound the moment's timestamp, both inclusive.
	// Nil bounds are open.
	From *time.Time
	To   *time.Time
}

// Matches reports whether m satisfies every dimension of the filter.
func (f MomentFilter) Matches(m model.Moment) bool {
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(m.Content), strings.ToLower(f.Search)) {
		return false
	}

	if len(f.Tags) > 0 && !hasAnyTag(m.Tags, f.Tags) {
		return false
	}

	if f.From != nil && m.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Timestamp.After(*f.To) {
		return false
	}

	return true
}

func hasAnyTag(have, want []model.Tag) bool {
	for _, h := range have {
		for _, w := range want {
			if h == w {
				return true
			}
		}
	}
	return false
}
