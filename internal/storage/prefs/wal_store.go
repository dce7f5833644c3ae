// Package prefs is the console's local key-value store, the counterpart of browser
// local storage. Values are typed and versioned and persisted in a WAL.
package prefs

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/gowal"
)

const (
	DefaultDir       = "./wal/prefs"
	segmentLimit     = 500
	maxSegments      = 20
	compactThreshold = 2000
	dirPermissions   = 0o755
)

// ErrNotFound is returned when a key has no live value.
var ErrNotFound = errors.New("preference not found")

// envelope is what actually goes into the WAL.
type envelope struct {
	Version int             `json:"v"`
	Deleted bool            `json:"deleted,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// WALStore keeps the latest value of every key in memory and appends each change to a WAL.
// The last writer wins.
type WALStore struct {
	wal    *gowal.Wal
	mu     sync.RWMutex
	values map[string]envelope
}

// NewWALStore opens (or creates) the store under dir and replays it.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.Wrapf(err, "ensure prefs dir %s", dir)
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "prefs_",
		SegmentThreshold: segmentLimit,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "init prefs WAL")
	}

	s := &WALStore{wal: wal, values: make(map[string]envelope)}

	records := 0
	for msg := range wal.Iterator() {
		records++
		var env envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			// a torn or foreign record, skip it like browsers skip unparsable entries
			continue
		}
		if env.Deleted {
			delete(s.values, msg.Key)
			continue
		}
		s.values[msg.Key] = env
	}

	if records > compactThreshold {
		if err := s.compact(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// compact re-appends every live key so it survives rotation of old segments.
func (s *WALStore) compact() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, env := range s.values {
		if err := s.append(key, env); err != nil {
			return errors.Wrapf(err, "compact key %s", key)
		}
	}
	return nil
}

func (s *WALStore) append(key string, env envelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return errors.Wrap(err, "marshal preference")
	}

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

func (s *WALStore) load(key string) (envelope, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	env, ok := s.values[key]
	return env, ok
}

func (s *WALStore) store(key string, version int, data []byte) error {
	if s == nil || s.wal == nil {
		return errors.New("prefs store is not initialized")
	}

	env := envelope{Version: version, Data: data}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.append(key, env); err != nil {
		return errors.Wrapf(err, "write preference %s", key)
	}
	s.values[key] = env
	return nil
}

// Delete removes a key. Removing a missing key is not an error.
func (s *WALStore) Delete(key string) error {
	if s == nil || s.wal == nil {
		return errors.New("prefs store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	if err := s.append(key, envelope{Deleted: true}); err != nil {
		return errors.Wrapf(err, "delete preference %s", key)
	}
	delete(s.values, key)
	return nil
}

// Keys returns the names of all live keys.
func (s *WALStore) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	return keys
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("prefs store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
