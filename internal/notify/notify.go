// Package notify carries short user-facing outcome messages from the feed
// service to whatever presents them.
package notify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

type Notification struct {
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description"`
	Variant     Variant   `json:"variant"`
	CreatedAt   time.Time `json:"created_at"`
}

type Notifier interface {
	Notify(n Notification)
}

func Info(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault, CreatedAt: time.Now()}
}

func Error(description string) Notification {
	return Notification{Title: "Error", Description: description, Variant: VariantDestructive, CreatedAt: time.Now()}
}

// Hub keeps the most recent notifications, oldest first.
type Hub struct {
	mu       sync.RWMutex
	capacity int
	items    []Notification
}

func NewHub(capacity int) *Hub {
	if capacity <= 0 {
		capacity = 50
	}
	return &Hub{capacity: capacity}
}

func (h *Hub) Notify(n Notification) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.items = append(h.items, n)
	if over := len(h.items) - h.capacity; over > 0 {
		h.items = append([]Notification(nil), h.items[over:]...)
	}
}

func (h *Hub) Recent() []Notification {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return append([]Notification{}, h.items...)
}

type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger}
}

func (l *Logger) Notify(n Notification) {
	l.logger.Info("notification",
		zap.String("title", n.Title),
		zap.String("description", n.Description),
		zap.String("variant", string(n.Variant)),
	)
}

type Multi []Notifier

func (m Multi) Notify(n Notification) {
	for _, notifier := range m {
		notifier.Notify(n)
	}
}
