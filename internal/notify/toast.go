// Package notify delivers toasts: short, non-blocking messages about the outcome of
// an action or a request.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultCapacity = 200

// Level of a toast.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Toast is a single notification.
type Toast struct {
	Index   uint64    `json:"index"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"ts"`
}

// Notifier is what components use to raise toasts.
type Notifier interface {
	Success(message string)
	Error(message string)
	Warning(message string)
}

// Hub keeps the most recent toasts in memory and hands them out by index,
// so several readers (TUI, SSE streams) can follow the same feed.
type Hub struct {
	l        *zap.Logger
	mu       sync.RWMutex
	toasts   []Toast
	next     uint64
	capacity int
	now      func() time.Time
}

// NewHub creates a hub keeping at most capacity toasts (0 means default).
func NewHub(l *zap.Logger, capacity int) *Hub {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Hub{l: l, capacity: capacity, next: 1, now: time.Now}
}

func (h *Hub) Success(message string) { h.push(LevelSuccess, message) }
func (h *Hub) Error(message string)   { h.push(LevelError, message) }
func (h *Hub) Warning(message string) { h.push(LevelWarning, message) }
func (h *Hub) Info(message string)    { h.push(LevelInfo, message) }

func (h *Hub) push(level Level, message string) {
	h.mu.Lock()
	toast := Toast{Index: h.next, Level: level, Message: message, At: h.now()}
	h.next++
	h.toasts = append(h.toasts, toast)
	if len(h.toasts) > h.capacity {
		h.toasts = h.toasts[len(h.toasts)-h.capacity:]
	}
	h.mu.Unlock()

	switch level {
	case LevelError, LevelWarning:
		h.l.Warn("toast", zap.String("level", string(level)), zap.String("message", message))
	default:
		h.l.Info("toast", zap.String("level", string(level)), zap.String("message", message))
	}
}

// After returns toasts with an index greater than index, oldest first.
func (h *Hub) After(index uint64) []Toast {
	h.mu.RLock()
	defer h.mu.RUnlock()

	out := make([]Toast, 0)
	for _, t := range h.toasts {
		if t.Index > index {
			out = append(out, t)
		}
	}
	return out
}

// LastIndex is the index of the latest toast, 0 when none was raised.
func (h *Hub) LastIndex() uint64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.next - 1
}
