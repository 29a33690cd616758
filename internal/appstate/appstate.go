// Package appstate holds the process-wide UI state: display preferences and the
// notification feed. It is created once at startup and lives for the process.
package appstate

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotificationNotFound is returned when marking an unknown notification.
var ErrNotificationNotFound = errors.New("notification not found")

// DefaultCapacity bounds the notification feed.
const DefaultCapacity = 100

// Preferences are the user's display toggles.
type Preferences struct {
	DarkMode    bool `json:"darkMode"`
	SidebarOpen bool `json:"sidebarOpen"`
}

// Notification is one entry in the feed.
type Notification struct {
	ID         string    `json:"id"`
	Message    string    `json:"message"`
	Collection string    `json:"collection,omitempty"`
	EntityID   string    `json:"entityId,omitempty"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"createdAt"`
}

// State is safe for concurrent use.
type State struct {
	mu            sync.RWMutex
	prefs         Preferences
	notifications []Notification
	capacity      int
}

// New creates the state. A non-positive capacity uses DefaultCapacity.
func New(capacity int) *State {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &State{capacity: capacity}
}

// Preferences returns the current toggles.
func (s *State) Preferences() Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SetPreferences replaces the toggles.
func (s *State) SetPreferences(p Preferences) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs = p
	return s.prefs
}

// UpdatePreferences applies fn to the toggles atomically.
func (s *State) UpdatePreferences(fn func(*Preferences)) Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.prefs)
	return s.prefs
}

// Notify appends an unread notification, dropping the oldest past capacity.
func (s *State) Notify(n Notification) Notification {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	n.Read = false

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
	if over := len(s.notifications) - s.capacity; over > 0 {
		s.notifications = append([]Notification(nil), s.notifications[over:]...)
	}
	return n
}

// Notifications returns the feed, newest first.
func (s *State) Notifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Notification, len(s.notifications))
	for i, n := range s.notifications {
		out[len(out)-1-i] = n
	}
	return out
}

// MarkRead flags one notification as read.
func (s *State) MarkRead(id string) (Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return s.notifications[i], nil
		}
	}
	return Notification{}, ErrNotificationNotFound
}

// UnreadCount is the badge number.
func (s *State) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, item := range s.notifications {
		if !item.Read {
			n++
		}
	}
	return n
}
