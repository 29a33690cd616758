package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreferences(t *testing.T) {
	s := New(0)
	assert.Equal(t, Preferences{}, s.Preferences())

	s.SetPreferences(Preferences{DarkMode: true})
	assert.True(t, s.Preferences().DarkMode)
	assert.False(t, s.Preferences().SidebarOpen)
}

func TestNotificationsFeed(t *testing.T) {
	s := New(2)
	first := s.Notify(Notification{Message: "Load A1 created"})
	require.NotEmpty(t, first.ID)
	s.Notify(Notification{Message: "Driver Ann updated"})
	s.Notify(Notification{Message: "Load A1 deleted"})

	feed := s.Notifications()
	require.Len(t, feed, 2, "oldest entry dropped past capacity")
	assert.Equal(t, "Load A1 deleted", feed[0].Message)
	assert.Equal(t, "Driver Ann updated", feed[1].Message)
	assert.Equal(t, 2, s.UnreadCount())

	_, err := s.MarkRead(first.ID)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	read, err := s.MarkRead(feed[1].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)
	assert.Equal(t, 1, s.UnreadCount())
}

func TestUpdatePreferencesKeepsUntouchedToggles(t *testing.T) {
	s := New(0)
	s.SetPreferences(Preferences{DarkMode: true})
	got := s.UpdatePreferences(func(p *Preferences) { p.SidebarOpen = true })
	assert.Equal(t, Preferences{DarkMode: true, SidebarOpen: true}, got)
}
