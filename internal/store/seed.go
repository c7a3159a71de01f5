package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// DefaultBuckets are the buckets created by Seed.
var DefaultBuckets = []string{"default.bucket", "empty.bucket"}

// DefaultTags are the tags created by Seed.
var DefaultTags = []Tag{
	{Name: "bug", Color: "#321820", TextColor: "#b87881"},
	{Name: "enhancement", Color: "#28393e", TextColor: "#8fd4d5"},
	{Name: "documentation", Color: "#0b2337", TextColor: "#309ce8"},
	{Name: "wontfix", Color: "#393c41", TextColor: "#d7d7d7"},
	{Name: "blocker", Color: "#a71a35", TextColor: "#ffd9df"},
	{Name: "high priority", Color: "#a7581a", TextColor: "#ffecd9"},
	{Name: "low priority", Color: "#4e542a", TextColor: "#c9d5b6"},
}

// DefaultStates are the states created by Seed.
var DefaultStates = []State{
	{Name: "new", SortingOrder: 0},
	{Name: "pause", SortingOrder: 0},
	{Name: "open", SortingOrder: 1},
	{Name: "done", SortingOrder: 2},
	{Name: "live", SortingOrder: 3},
}

// DefaultFilters returns the filters Seed creates for an adapter. Their
// names are prefixed with the adapter name.
func DefaultFilters(adapterName string) []Filter {
	return []Filter{
		{Name: adapterName + "_state_new", Operation: "with_state(new)"},
		{Name: adapterName + "_tag_doc", Operation: "with_tag(documentation)"},
		{Name: adapterName + "_assigned_to_me", Operation: "assigned_to(::me)"},
		{Name: adapterName + "_example_1", Operation: "with_state(new)\nwith_state(open)"},
	}
}

// Seed fills an empty database with the default buckets, tags, states and
// filters.
//
// Seed is idempotent. Buckets are only created while the buckets table is
// empty; tags, states and filters that already exist keep their current
// values.
func (s *Store) Seed(ctx context.Context, adapterName string) error {
	var buckets int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM buckets").Scan(&buckets); err != nil {
		return fmt.Errorf("seed: count buckets: %w", err)
	}
	if buckets == 0 {
		for _, name := range DefaultBuckets {
			if err := s.WriteBucket(ctx, &Bucket{Name: name}); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
	}

	tags := sq.Insert("tags").Columns("name", "color", "color_text").Suffix("ON CONFLICT(name) DO NOTHING")
	for _, tag := range DefaultTags {
		tags = tags.Values(tag.Name, tag.Color, tag.TextColor)
	}

	states := sq.Insert("states").Columns("name", "description", "sorting_order").Suffix("ON CONFLICT(name) DO NOTHING")
	for _, st := range DefaultStates {
		states = states.Values(st.Name, nullString(st.Description), st.SortingOrder)
	}

	filters := sq.Insert("filters").Columns("name", "operation").Suffix("ON CONFLICT(name) DO NOTHING")
	for _, f := range DefaultFilters(adapterName) {
		filters = filters.Values(f.Name, f.Operation)
	}

	for _, b := range []sq.InsertBuilder{tags, states, filters} {
		query, args, err := b.ToSql()
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
