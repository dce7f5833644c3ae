package columns

import (
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/msquare-market/admin/internal/storage/prefs"
)

// Store persists a grid layout under a page specific key.
// The persisted value only changes on SaveView and ResetDefault; column drags
// and header clicks only mark the layout dirty.
type Store struct {
	l     *zap.Logger
	prefs *prefs.WALStore
	key   prefs.Key[domain.ColumnState]
	grid  Grid

	mu       sync.Mutex
	baseline domain.ColumnState
	dirty    bool
}

// NewStore binds grid to the persisted layout of page (key "<page>ColumnState").
func NewStore(l *zap.Logger, store *prefs.WALStore, page string, grid Grid) *Store {
	return &Store{
		l:        l,
		prefs:    store,
		key:      prefs.ColumnStateKey(page),
		grid:     grid,
		baseline: grid.Defaults(),
	}
}

// RestoreOrder applies the persisted layout to the grid. Without one the grid keeps
// its code-defined defaults.
func (s *Store) RestoreOrder() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved, err := prefs.Get(s.prefs, s.key)
	if errors.Is(err, prefs.ErrNotFound) {
		s.baseline = s.grid.Defaults()
		s.dirty = s.differs()
		return nil
	}
	if err != nil {
		return errors.Wrapf(err, "restore %s", s.key.Name)
	}

	s.grid.SetOrder(saved.OrderedFields)
	s.grid.SetSort(saved.SortModel)
	// the grid normalizes stale layouts, so the baseline is what it actually shows
	s.baseline = s.live()
	s.dirty = false

	s.l.Debug("column layout restored", zap.String("key", s.key.Name), zap.Strings("order", s.baseline.OrderedFields))
	return nil
}

// HandleColumnChange is called after every reorder (isSort=false) or sort click
// (isSort=true). It returns whether the live layout now differs from the persisted one.
func (s *Store) HandleColumnChange(isSort bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty = s.differs()
	s.l.Debug("column layout changed", zap.String("key", s.key.Name), zap.Bool("sort", isSort), zap.Bool("dirty", s.dirty))
	return s.dirty
}

// SaveView persists the live layout.
func (s *Store) SaveView() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	live := s.live()
	if err := prefs.Set(s.prefs, s.key, live); err != nil {
		return errors.Wrapf(err, "save %s", s.key.Name)
	}
	s.baseline = live
	s.dirty = false
	return nil
}

// ResetDefault forgets the persisted layout and re-applies the code-defined one.
func (s *Store) ResetDefault() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := prefs.Remove(s.prefs, s.key); err != nil {
		return errors.Wrapf(err, "reset %s", s.key.Name)
	}

	defaults := s.grid.Defaults()
	s.grid.SetOrder(defaults.OrderedFields)
	s.grid.SetSort(defaults.SortModel)
	s.baseline = defaults
	s.dirty = false
	return nil
}

// Dirty reports whether the live layout differs from the persisted one.
func (s *Store) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Key is the storage key of this page.
func (s *Store) Key() string {
	return s.key.Name
}

func (s *Store) live() domain.ColumnState {
	return domain.ColumnState{OrderedFields: s.grid.Order(), SortModel: s.grid.Sort()}
}

func (s *Store) differs() bool {
	return !s.live().Equal(s.baseline)
}
