package prefs

import (
	"encoding/json"
	"time"

	"github.com/msquare-market/admin/internal/domain"
	"github.com/pkg/errors"
)

// Key is a typed accessor for a single stored value.
// Version is the shape version of T; values stored under another version are
// passed to Migrate, or treated as absent when Migrate is nil.
type Key[T any] struct {
	Name    string
	Version int
	Migrate func(version int, data []byte) (T, error)
}

// Get reads the value of key. It returns ErrNotFound when nothing usable is stored.
func Get[T any](s *WALStore, key Key[T]) (T, error) {
	var zero T
	if s == nil {
		return zero, errors.New("prefs store is not initialized")
	}

	env, ok := s.load(key.Name)
	if !ok {
		return zero, ErrNotFound
	}

	if env.Version != key.Version {
		if key.Migrate == nil {
			return zero, ErrNotFound
		}
		value, err := key.Migrate(env.Version, env.Data)
		if err != nil {
			return zero, errors.Wrapf(err, "migrate %s from v%d", key.Name, env.Version)
		}
		return value, nil
	}

	var value T
	if err := json.Unmarshal(env.Data, &value); err != nil {
		return zero, errors.Wrapf(err, "decode %s", key.Name)
	}
	return value, nil
}

// Set stores value under key with the key's current version.
func Set[T any](s *WALStore, key Key[T], value T) error {
	if s == nil {
		return errors.New("prefs store is not initialized")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrapf(err, "encode %s", key.Name)
	}
	return s.store(key.Name, key.Version, data)
}

// Remove deletes the value stored under key.
func Remove[T any](s *WALStore, key Key[T]) error {
	return s.Delete(key.Name)
}

const columnStateVersion = 1

// ColumnStateKey is where the grid layout of a page lives, e.g. "tokenColumnState".
func ColumnStateKey(page string) Key[domain.ColumnState] {
	return Key[domain.ColumnState]{
		Name:    page + "ColumnState",
		Version: columnStateVersion,
	}
}

// OnboardingStatus tracks the first-run walkthrough.
type OnboardingStatus struct {
	Completed bool      `json:"completed"`
	Step      int       `json:"step"`
	SeenAt    time.Time `json:"seenAt"`
}

// OnboardingKey stores the onboarding walkthrough progress.
var OnboardingKey = Key[OnboardingStatus]{Name: "onboardingStatus", Version: 1}

// Timer is a cooldown deadline (e.g. before an OTP can be re-sent).
type Timer struct {
	Deadline time.Time `json:"deadline"`
}

// Remaining time until the deadline, never negative.
func (t Timer) Remaining(now time.Time) time.Duration {
	if d := t.Deadline.Sub(now); d > 0 {
		return d
	}
	return 0
}

// TimerKey stores the cooldown timer.
var TimerKey = Key[Timer]{Name: "timer", Version: 1}
