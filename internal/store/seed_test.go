package store

import (
	"context"
	"testing"

	"github.com/TheBiochemic/tickets/internal/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_DefaultData(t *testing.T) {
	s := createSeededStore(t)
	ctx := context.Background()

	buckets, err := s.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "default.bucket", buckets[0].Name)
	assert.Equal(t, "empty.bucket", buckets[1].Name)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, DefaultTags, tags)

	states, err := s.ListStates(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "pause", "open", "done", "live"}, func() []string {
		names := make([]string, len(states))
		for i, st := range states {
			names[i] = st.Name
		}
		return names
	}())

	filters, err := s.ListFilters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []Filter{
		{Name: "local_assigned_to_me", Operation: "assigned_to(::me)"},
		{Name: "local_example_1", Operation: "with_state(new)\nwith_state(open)"},
		{Name: "local_state_new", Operation: "with_state(new)"},
		{Name: "local_tag_doc", Operation: "with_tag(documentation)"},
	}, filters)
}

func TestSeed_Idempotent(t *testing.T) {
	s := createSeededStore(t)
	ctx := context.Background()

	require.NoError(t, s.WriteTag(ctx, Tag{Name: "bug", Color: "#000000", TextColor: "#ffffff"}))
	require.NoError(t, s.Seed(ctx, "local"))

	buckets, err := s.ListBuckets(ctx)
	require.NoError(t, err)
	assert.Len(t, buckets, 2)

	tags, err := s.ListTags(ctx)
	require.NoError(t, err)
	assert.Len(t, tags, len(DefaultTags))
	assert.Contains(t, tags, Tag{Name: "bug", Color: "#000000", TextColor: "#ffffff"}, "seeding keeps edited tags")
}

func TestSeed_SecondAdapterAddsFilters(t *testing.T) {
	s := createSeededStore(t)
	require.NoError(t, s.Seed(context.Background(), "work"))

	filters, err := s.ListFilters(context.Background())
	require.NoError(t, err)
	assert.Len(t, filters, 8)
}

func TestDefaultFilters_Compile(t *testing.T) {
	for _, f := range DefaultFilters("local") {
		t.Run(f.Name, func(t *testing.T) {
			_, err := filter.Compile(f.Operation, map[string]string{"me": "new User"})
			assert.NoError(t, err)
		})
	}
}
