package console

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// NotificationKind is the severity of a notification.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is one message shown to the operator.
type Notification struct {
	ID      string           `json:"id"`
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
	Time    time.Time        `json:"time"`
}

// Notifications keeps the most recent messages, newest last.
type Notifications struct {
	mu    sync.Mutex
	limit int
	items []Notification
	now   func() time.Time
}

// NewNotifications creates a feed keeping at most limit messages.
func NewNotifications(limit int) *Notifications {
	if limit < 1 {
		limit = 1
	}
	return &Notifications{limit: limit, now: time.Now}
}

// Success records a success message.
func (n *Notifications) Success(message string) Notification {
	return n.add(NotificationSuccess, message)
}

// Error records an error message.
func (n *Notifications) Error(message string) Notification {
	return n.add(NotificationError, message)
}

func (n *Notifications) add(kind NotificationKind, message string) Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	item := Notification{
		ID:      uuid.NewString(),
		Kind:    kind,
		Message: message,
		Time:    n.now(),
	}
	n.items = append(n.items, item)
	if over := len(n.items) - n.limit; over > 0 {
		n.items = append([]Notification(nil), n.items[over:]...)
	}
	return item
}

// List returns a copy of the kept messages, oldest first.
func (n *Notifications) List() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.items))
	copy(out, n.items)
	return out
}
