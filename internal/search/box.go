package search

import (
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// DefaultMinLength shortest non-empty search forwarded to the list.
const DefaultMinLength = 3

// Box is a debounced search input. Values are trimmed; an empty value clears
// the search, values shorter than the minimum length are ignored. A value that
// failed to apply is not remembered, so sending it again retries.
type Box struct {
	apply     func(value string) error
	debouncer *Debouncer
	minLength int

	mu        sync.Mutex
	current   string
	forwarded string
}

// NewBox creates a box forwarding accepted values to apply.
func NewBox(apply func(value string) error, delay time.Duration, minLength int) *Box {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return &Box{
		apply:     apply,
		debouncer: NewDebouncer(delay),
		minLength: minLength,
	}
}

// Type records the raw input. It is evaluated when the debounce window closes.
func (b *Box) Type(value string) {
	b.mu.Lock()
	b.current = value
	b.mu.Unlock()

	b.debouncer.Call(b.commit)
}

// Submit forwards the current input without waiting (enter key).
func (b *Box) Submit(value string) {
	b.mu.Lock()
	b.current = value
	b.mu.Unlock()

	b.debouncer.Call(b.commit)
	b.debouncer.Flush()
}

// Value is the raw input.
func (b *Box) Value() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Close cancels a pending search.
func (b *Box) Close() {
	b.debouncer.Stop()
}

func (b *Box) commit() {
	b.mu.Lock()
	value := strings.TrimSpace(b.current)
	if !Accept(value, b.minLength) || value == b.forwarded {
		b.mu.Unlock()
		return
	}
	previous := b.forwarded
	b.forwarded = value
	b.mu.Unlock()

	if err := b.apply(value); err != nil {
		b.mu.Lock()
		if b.forwarded == value {
			b.forwarded = previous
		}
		b.mu.Unlock()
	}
}

// Accept reports whether a trimmed search value should reach the list.
func Accept(value string, minLength int) bool {
	n := utf8.RuneCountInString(value)
	return n == 0 || n >= minLength
}
