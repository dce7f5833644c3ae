package search

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type sink struct {
	mu     sync.Mutex
	values []string
	fail   error
}

func (s *sink) apply(v string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = append(s.values, v)
	return s.fail
}

func (s *sink) got() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.values...)
}

func TestAccept(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"", true},
		{"a", false},
		{"ab", false},
		{"abc", true},
		{"김철수", true},
		{"김철", false},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.want, Accept(tt.value, DefaultMinLength))
		})
	}
}

func TestBox_OnlyLastValueFires(t *testing.T) {
	s := &sink{}
	b := NewBox(s.apply, 20*time.Millisecond, 0)
	defer b.Close()

	for _, v := range []string{"k", "ki", "kim", "kim "} {
		b.Type(v)
	}

	assert.Eventually(t, func() bool { return len(s.got()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"kim"}, s.got())
}

func TestBox_ShortValuesIgnored(t *testing.T) {
	s := &sink{}
	b := NewBox(s.apply, 10*time.Millisecond, 0)
	defer b.Close()

	b.Type("ab")
	assert.Never(t, func() bool { return len(s.got()) > 0 }, 60*time.Millisecond, 5*time.Millisecond)

	b.Type("kim")
	assert.Eventually(t, func() bool { return len(s.got()) == 1 }, time.Second, 5*time.Millisecond)

	b.Type("   ")
	assert.Eventually(t, func() bool { return len(s.got()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"kim", ""}, s.got(), "clearing the box clears the search")
}

func TestBox_SkipsRepeatedValue(t *testing.T) {
	s := &sink{}
	b := NewBox(s.apply, time.Hour, 0)
	defer b.Close()

	b.Submit("lee")
	b.Submit(" lee ")
	b.Submit("park")

	assert.Equal(t, []string{"lee", "park"}, s.got())
}

func TestBox_RetriesFailedValue(t *testing.T) {
	s := &sink{fail: errors.New("offline")}
	b := NewBox(s.apply, time.Hour, 0)
	defer b.Close()

	b.Submit("kim")
	s.mu.Lock()
	s.fail = nil
	s.mu.Unlock()
	b.Submit("kim")
	b.Submit("kim")

	assert.Equal(t, []string{"kim", "kim"}, s.got())
}

func TestDebouncer_Stop(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	d := NewDebouncer(10 * time.Millisecond)

	d.Call(func() { mu.Lock(); calls++; mu.Unlock() })
	d.Stop()
	d.Call(func() { mu.Lock(); calls++; mu.Unlock() })

	assert.Never(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls > 0
	}, 50*time.Millisecond, 5*time.Millisecond)
}
