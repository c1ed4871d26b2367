package core

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_StartsEmpty(t *testing.T) {
	svc := NewService(DefaultColumnNames())

	snap := svc.Current()
	require.NotNil(t, snap)
	assert.Empty(t, snap.Version)
	assert.Equal(t, DefaultSettings(), snap.Settings)

	v := svc.View(ViewState{})
	assert.False(t, v.HasData())
	assert.Empty(t, v.Cards)
}

func TestService_UpdateReplacesSnapshot(t *testing.T) {
	svc := NewService(DefaultColumnNames())
	ctx := context.Background()

	first := svc.Update(ctx, scenarioResultSet(), DefaultSettings())
	require.Equal(t, 2, first.Dataset.Len())

	second := svc.Update(ctx, ResultSet{}, DefaultSettings())
	assert.NotEqual(t, first.Version, second.Version)
	assert.Same(t, second, svc.Current())

	// The earlier snapshot is left untouched.
	assert.Equal(t, 2, first.Dataset.Len())
	assert.Equal(t, 0, svc.Current().Dataset.Len())
}

func TestService_ViewAppliesSettings(t *testing.T) {
	svc := NewService(DefaultColumnNames())

	settings := DefaultSettings()
	settings.Card.EnableSearch = false
	svc.Update(context.Background(), scenarioResultSet(), settings)

	v := svc.View(ViewState{Search: "beta"})
	assert.Equal(t, []string{"Alpha", "Beta"}, titles(v.Cards))
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "beta", v.State.Search)

	settings.Card.EnableSearch = true
	svc.Update(context.Background(), scenarioResultSet(), settings)
	v = svc.View(ViewState{Search: "beta"})
	assert.Equal(t, []string{"Beta"}, titles(v.Cards))
	assert.Equal(t, 2, v.Total)
}

func TestService_ViewFacetsCoverWholeSnapshot(t *testing.T) {
	svc := NewService(DefaultColumnNames())
	rs := ResultSet{
		Categories: []Column{{DisplayName: "Title", Values: []any{"a", "b", "c"}}},
		Measures: []Column{{DisplayName: "MetaData Fields", Values: []any{
			map[string]any{"region": "US"},
			map[string]any{"region": "EU"},
			map[string]any{"region": "US"},
		}}},
	}
	svc.Update(context.Background(), rs, DefaultSettings())

	v := svc.View(ViewState{Filters: map[string][]string{"region": {"EU"}}})
	assert.Equal(t, []string{"b"}, titles(v.Cards))

	require.Len(t, v.Facets, 1)
	assert.Equal(t, "region", v.Facets[0].Key)
	assert.Equal(t, []FacetValue{{Value: "EU", Count: 1}, {Value: "US", Count: 2}}, v.Facets[0].Values)
}

func TestService_ViewOfPinsSnapshot(t *testing.T) {
	svc := NewService(DefaultColumnNames())
	ctx := context.Background()

	first := svc.Update(ctx, scenarioResultSet(), DefaultSettings())
	svc.Update(ctx, ResultSet{}, DefaultSettings())

	v := svc.ViewOf(first, ViewState{})
	assert.Equal(t, first.Version, v.Version)
	assert.Equal(t, []string{"Alpha", "Beta"}, titles(v.Cards))
	assert.Equal(t, 2, v.Total)

	assert.Equal(t, 0, svc.View(ViewState{}).Total)
}

func TestService_Card(t *testing.T) {
	svc := NewService(DefaultColumnNames())
	svc.Update(context.Background(), scenarioResultSet(), DefaultSettings())

	c, ok := svc.Card("2")
	require.True(t, ok)
	assert.Equal(t, "Beta", c.Title)

	_, ok = svc.Card("missing")
	assert.False(t, ok)
}

func TestService_LocaleOption(t *testing.T) {
	svc := NewService(DefaultColumnNames(), WithLocale("es"))
	assert.Equal(t, "es", svc.Locale())
}

func TestService_SubscribersReceiveVersion(t *testing.T) {
	svc := NewService(DefaultColumnNames())
	ch := svc.Subscribe()
	defer svc.Unsubscribe(ch)

	snap := svc.Update(context.Background(), scenarioResultSet(), DefaultSettings())

	select {
	case v := <-ch:
		assert.Equal(t, snap.Version, v)
	case <-time.After(time.Second):
		t.Fatal("subscriber was not notified")
	}
}

func TestService_ConcurrentReadersAndWriters(t *testing.T) {
	svc := NewService(DefaultColumnNames())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			svc.Update(ctx, scenarioResultSet(), DefaultSettings())
		}()
		go func() {
			defer wg.Done()
			v := svc.View(ViewState{Search: "a"})
			// Each view is computed from a single snapshot.
			assert.LessOrEqual(t, len(v.Cards), v.Total)
		}()
	}
	wg.Wait()

	assert.Equal(t, 2, svc.Current().Dataset.Len())
}
