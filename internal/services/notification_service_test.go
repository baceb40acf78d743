package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drilling-dashboard/internal/util"
)

func seededStore(t *testing.T) *Notifications {
	t.Helper()
	s, err := LoadNotificationStore(context.Background(), nil, DefaultNotifications())
	require.NoError(t, err)
	return s
}

func notifIDs(ns []Notification) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.ID
	}
	return out
}

func TestNotificationFilters(t *testing.T) {
	s := seededStore(t)

	assert.Len(t, s.List("all", "date"), 6)
	assert.Len(t, s.List("", ""), 6)
	assert.Equal(t, []string{"2"}, notifIDs(s.List("retard", "date")))
	assert.Equal(t, []string{"3"}, notifIDs(s.List("critique", "date")))
	assert.Equal(t, []string{"4"}, notifIDs(s.List("action", "date")))
	assert.ElementsMatch(t, []string{"1", "5", "6"}, notifIDs(s.List("info", "date")))
	assert.Len(t, s.List("unread", "date"), 6)
	assert.Len(t, s.List("bogus", "date"), 6)
}

func TestNotificationMarkRead(t *testing.T) {
	s := seededStore(t)
	assert.Equal(t, 6, s.UnreadCount())

	require.NoError(t, s.MarkRead("3"))
	assert.Equal(t, 5, s.UnreadCount())
	assert.NotContains(t, notifIDs(s.List("unread", "")), "3")

	err := s.MarkRead("nope")
	require.Error(t, err)
	assert.Equal(t, "not_found", util.CodeOf(err))

	assert.Equal(t, 5, s.MarkAllRead())
	assert.Equal(t, 0, s.UnreadCount())
	assert.Empty(t, s.List("unread", ""))
	assert.Equal(t, 0, s.MarkAllRead())
}

func TestNotificationSort(t *testing.T) {
	base := time.Date(2025, 1, 29, 9, 0, 0, 0, time.UTC)
	s := NewNotifications(util.FixedClock{T: base}, []Notification{
		{ID: "old-info", Type: NotifInfo, Timestamp: base.Add(-2 * time.Hour)},
		{ID: "new-warn", Type: NotifWarning, Timestamp: base.Add(time.Hour)},
		{ID: "mid-crit", Type: NotifCritical, Timestamp: base},
		{ID: "new-action", Type: NotifAction, Timestamp: base.Add(2 * time.Hour)},
	})

	assert.Equal(t, []string{"new-action", "new-warn", "mid-crit", "old-info"}, notifIDs(s.List("all", "date")))
	assert.Equal(t, []string{"mid-crit", "new-warn", "new-action", "old-info"}, notifIDs(s.List("all", "type")))
}

func TestNotificationAddAndSubscribe(t *testing.T) {
	now := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	s := NewNotifications(util.FixedClock{T: now}, nil)

	ch, stop := s.Subscribe()
	defer stop()

	n, ok := s.Add(Notification{Type: NotifCritical, Title: "Phase bloquée"})
	require.True(t, ok)
	assert.NotEmpty(t, n.ID)
	assert.Equal(t, "Critique / Urgence", n.Category)
	assert.Equal(t, now, n.Timestamp)

	select {
	case got := <-ch:
		assert.Equal(t, n.ID, got.ID)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}

	_, ok = s.Add(Notification{ID: n.ID})
	assert.False(t, ok)
	assert.Equal(t, 1, s.UnreadCount())

	assert.Equal(t, 1, s.Merge([]Notification{{ID: n.ID}, {ID: "fresh"}}))
	assert.Equal(t, 2, s.UnreadCount())
}

func TestNotificationUnsubscribeIsIdempotent(t *testing.T) {
	s := NewNotifications(nil, nil)
	ch, stop := s.Subscribe()
	stop()
	stop()
	_, open := <-ch
	assert.False(t, open)

	// broadcast setelah unsubscribe tidak panic
	_, ok := s.Add(Notification{Title: "x"})
	assert.True(t, ok)
}

func TestNotificationConcurrentAccess(t *testing.T) {
	s := seededStore(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.MarkRead("1")
			_ = s.List("unread", "type")
			s.Add(Notification{Title: "concurrent"})
			_ = s.UnreadCount()
		}()
	}
	wg.Wait()
	assert.Len(t, s.List("all", ""), 26)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.yaml")
	body := `notifications:
  - id: "a1"
    type: critical
    title: "Phase bloquée"
    description: "Cimentation suspendue"
    timestamp: 2025-01-29T09:30:00Z
    well_id: "VUL-2"
  - id: "a2"
    type: info
    title: "Fichier bien reçu"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	s, err := LoadNotificationStore(context.Background(), util.FixedClock{T: time.Unix(0, 0)}, FileSource{Path: path})
	require.NoError(t, err)

	all := s.List("all", "type")
	require.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].ID)
	assert.Equal(t, "VUL-2", all[0].WellID)
	assert.Equal(t, "Critique / Urgence", all[0].Category)
	assert.Equal(t, 2025, all[0].Timestamp.Year())

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}.LoadNotifications(context.Background())
	require.Error(t, err)
}

func TestParseNotificationType(t *testing.T) {
	typ, ok := ParseNotificationType(" Warning ")
	assert.True(t, ok)
	assert.Equal(t, NotifWarning, typ)
	_, ok = ParseNotificationType("other")
	assert.False(t, ok)
}

// memSource = source yang isinya bisa ditambah selama test berjalan.
type memSource struct {
	mu    sync.Mutex
	items []Notification
	err   error
}

func (m *memSource) LoadNotifications(context.Context) ([]Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]Notification(nil), m.items...), nil
}

func (m *memSource) push(n Notification) {
	m.mu.Lock()
	m.items = append(m.items, n)
	m.mu.Unlock()
}

func (m *memSource) fail(err error) {
	m.mu.Lock()
	m.err = err
	m.mu.Unlock()
}

func TestNotificationSyncMergesSourceUpdates(t *testing.T) {
	src := &memSource{}
	src.fail(errors.New("mysql down"))
	s := NewNotifications(util.FixedClock{T: time.Date(2025, 1, 29, 10, 0, 0, 0, time.UTC)}, nil)
	ch, stop := s.Subscribe()
	defer stop()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Sync(ctx, src, 5*time.Millisecond) }()

	// error source tidak menghentikan loop
	time.Sleep(20 * time.Millisecond)
	assert.Empty(t, s.List("all", ""))

	src.fail(nil)
	src.push(Notification{ID: "w-1", Type: NotifCritical, Title: "Retard critique", WellID: "1"})
	select {
	case got := <-ch:
		assert.Equal(t, "w-1", got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("merged alert not broadcast")
	}

	// tick berikutnya tidak menduplikasi id yang sudah ada
	time.Sleep(20 * time.Millisecond)
	assert.Len(t, s.List("all", ""), 1)
	assert.Equal(t, 1, s.UnreadCount())

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("sync did not stop")
	}
}
