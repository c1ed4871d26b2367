package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/CardBrowser/internal/logging"
	"github.com/JonMunkholm/CardBrowser/internal/notifier"
)

// Service owns the current Snapshot and answers view queries against it.
//
// Update replaces the snapshot wholesale; readers take the pointer under a
// read lock and work on it without holding the lock, so a running pipeline is
// never affected by a concurrent update.
type Service struct {
	names    ColumnNames
	locale   string
	notifier *notifier.Notifier

	mu   sync.RWMutex
	snap *Snapshot
}

// Option configures a Service.
type Option func(*Service)

// WithLocale sets the BCP 47 tag used for sort and facet collation.
func WithLocale(locale string) Option {
	return func(s *Service) { s.locale = locale }
}

// NewService creates a Service holding an empty snapshot with default settings.
func NewService(names ColumnNames, opts ...Option) *Service {
	s := &Service{
		names:    names,
		notifier: notifier.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap = &Snapshot{
		Version:    "",
		Settings:   DefaultSettings(),
		Resolution: Resolve(ResultSet{}, names),
		UpdatedAt:  time.Now(),
	}
	return s
}

// Names returns the column display names the adapter resolves.
func (s *Service) Names() ColumnNames {
	return s.names
}

// Locale returns the collation locale.
func (s *Service) Locale() string {
	return s.locale
}

// Update adapts rs into a new snapshot, publishes it and notifies subscribers.
func (s *Service) Update(ctx context.Context, rs ResultSet, settings Settings) *Snapshot {
	res := Resolve(rs, s.names)
	snap := &Snapshot{
		Version:    uuid.NewString(),
		Dataset:    adaptResolved(rs, res),
		Settings:   settings,
		Resolution: res,
		UpdatedAt:  time.Now(),
	}

	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()

	logger := logging.WithFields(ctx, "version", snap.Version, "cards", snap.Dataset.Len())
	if missing := res.Missing(s.names); len(missing) > 0 {
		logger.Debug("unresolved columns", "missing", missing)
	}
	logger.Info("snapshot updated", "sort_field", snap.Dataset.HasSortField())

	s.notifier.Broadcast(snap.Version)
	return snap
}

// Current returns the published snapshot. It must be treated as read-only.
func (s *Service) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// View runs the pipeline over the current snapshot with the snapshot's settings.
func (s *Service) View(state ViewState) View {
	return s.ViewOf(s.Current(), state)
}

// ViewOf runs the pipeline over snap. Callers that pair the view with the
// snapshot version, such as session state, take the snapshot once and pass
// it here.
func (s *Service) ViewOf(snap *Snapshot, state ViewState) View {
	opts := snap.Settings.ViewOptions()
	opts.Locale = s.locale

	return View{
		Version:  snap.Version,
		Cards:    Apply(snap.Dataset, state, opts),
		Total:    snap.Dataset.Len(),
		Sortable: snap.Dataset.HasSortField(),
		Facets:   Facets(snap.Dataset.Cards, s.locale),
		Settings: snap.Settings,
		State:    state,
	}
}

// Card looks up a card by id in the current snapshot.
// Duplicate ids resolve to the first card in input order.
func (s *Service) Card(id string) (Card, bool) {
	for _, c := range s.Current().Dataset.Cards {
		if c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// Subscribe returns a channel that receives the version of each new snapshot.
func (s *Service) Subscribe() chan string {
	return s.notifier.Subscribe()
}

// Unsubscribe releases a channel returned by Subscribe.
func (s *Service) Unsubscribe(ch chan string) {
	s.notifier.Unsubscribe(ch)
}
