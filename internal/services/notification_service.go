// internal/services/notification_service.go
// Store notifikasi décideur: in-memory, status "lu" tidak dipersist

package services

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"drilling-dashboard/internal/logger"
	"drilling-dashboard/internal/util"
)

type NotificationType string

const (
	NotifInfo     NotificationType = "info"
	NotifWarning  NotificationType = "warning"
	NotifCritical NotificationType = "critical"
	NotifAction   NotificationType = "action"
)

// kategori tampilan per tipe
var notifCategory = map[NotificationType]string{
	NotifInfo:     "Info / Statut",
	NotifWarning:  "Retard / Dépassement",
	NotifCritical: "Critique / Urgence",
	NotifAction:   "Demande ou Action requise",
}

func ParseNotificationType(s string) (NotificationType, bool) {
	t := NotificationType(strings.ToLower(strings.TrimSpace(s)))
	_, ok := notifCategory[t]
	return t, ok
}

type Notification struct {
	ID          string           `json:"id" yaml:"id"`
	Type        NotificationType `json:"type" yaml:"type"`
	Category    string           `json:"category" yaml:"category"`
	Title       string           `json:"title" yaml:"title"`
	Description string           `json:"description" yaml:"description"`
	Timestamp   time.Time        `json:"timestamp" yaml:"timestamp"`
	IsRead      bool             `json:"isRead" yaml:"-"`
	WellID      string           `json:"wellId,omitempty" yaml:"well_id,omitempty"`
}

// NotificationSource = asal notifikasi awal (MySQL, file YAML, atau bawaan).
type NotificationSource interface {
	LoadNotifications(ctx context.Context) ([]Notification, error)
}

// NotificationSink = tujuan persist alert dari worker. false = sudah ada.
type NotificationSink interface {
	SaveNotification(ctx context.Context, n Notification) (bool, error)
}

// ---- sumber bawaan & file ----

type staticSource []Notification

func (s staticSource) LoadNotifications(context.Context) ([]Notification, error) {
	return slices.Clone(s), nil
}

// DefaultNotifications = data contoh dashboard décideur.
func DefaultNotifications() NotificationSource {
	ts := time.Date(2025, time.January, 29, 9, 30, 0, 0, time.UTC)
	mk := func(id string, t NotificationType, title, desc, well string) Notification {
		return Notification{ID: id, Type: t, Category: notifCategory[t], Title: title, Description: desc, Timestamp: ts, WellID: well}
	}
	return staticSource{
		mk("1", NotifInfo, "Puits terminé", "Le puits BRK-12 a été terminé avec succès.", "BRK-12"),
		mk("2", NotifWarning, "Dépassement de budget", "Le coût actuel du puits GHT-6 dépasse le budget prévu de +12%.", "GHT-6"),
		mk("3", NotifCritical, "Phase bloquée", "La phase cimentation du puits VUL-2 est suspendue pour cause technique.", "VUL-2"),
		mk("4", NotifAction, "Fichier manquant", "Le rapport journalier du puits RCH-4 n'a pas été déposé.", "RCH-4"),
		mk("5", NotifInfo, "Nouvelle analyse disponible", "Les données du puits TRZ-5 ont été traitées.", "TRZ-5"),
		mk("6", NotifInfo, "Fichier bien reçu", "Le fichier de coût pour le puits DLF-7 a été soumis avec succès.", "DLF-7"),
	}
}

// FileSource membaca daftar notifikasi dari file YAML.
type FileSource struct{ Path string }

func (f FileSource) LoadNotifications(context.Context) ([]Notification, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read alerts file: %w", err)
	}
	var doc struct {
		Notifications []Notification `yaml:"notifications"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse alerts file %s: %w", f.Path, err)
	}
	return doc.Notifications, nil
}

// ---- store ----

type Notifications struct {
	mu    sync.RWMutex
	items []Notification
	byID  map[string]int
	subs  map[chan Notification]struct{}
	clock util.Clock
}

func NewNotifications(clock util.Clock, seed []Notification) *Notifications {
	if clock == nil {
		clock = util.RealClock{}
	}
	s := &Notifications{
		byID:  map[string]int{},
		subs:  map[chan Notification]struct{}{},
		clock: clock,
	}
	for _, n := range seed {
		s.insert(n)
	}
	return s
}

// LoadNotificationStore membuat store dari source; status lu selalu mulai false.
func LoadNotificationStore(ctx context.Context, clock util.Clock, src NotificationSource) (*Notifications, error) {
	items, err := src.LoadNotifications(ctx)
	if err != nil {
		return nil, err
	}
	return NewNotifications(clock, items), nil
}

// insert: caller memegang lock (atau belum dipublikasikan). false = id duplikat.
func (s *Notifications) insert(n Notification) (Notification, bool) {
	if n.ID == "" {
		n.ID = util.NewID()
	}
	if _, dup := s.byID[n.ID]; dup {
		return n, false
	}
	if n.Type == "" {
		n.Type = NotifInfo
	}
	if n.Category == "" {
		n.Category = notifCategory[n.Type]
	}
	if n.Timestamp.IsZero() {
		n.Timestamp = s.clock.Now()
	}
	n.IsRead = false
	s.byID[n.ID] = len(s.items)
	s.items = append(s.items, n)
	return n, true
}

// Filter: all | retard | critique | info | action | unread. Nilai asing = all.
func matchFilter(n Notification, filter string) bool {
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "retard":
		return n.Type == NotifWarning
	case "critique":
		return n.Type == NotifCritical
	case "info":
		return n.Type == NotifInfo
	case "action":
		return n.Type == NotifAction
	case "unread":
		return !n.IsRead
	default:
		return true
	}
}

var typeRank = map[NotificationType]int{
	NotifCritical: 0,
	NotifWarning:  1,
	NotifAction:   2,
	NotifInfo:     3,
}

// List: sort "type" = critical, warning, action, info; selain itu terbaru dulu.
func (s *Notifications) List(filter, sortBy string) []Notification {
	s.mu.RLock()
	out := make([]Notification, 0, len(s.items))
	for _, n := range s.items {
		if matchFilter(n, filter) {
			out = append(out, n)
		}
	}
	s.mu.RUnlock()

	byType := strings.EqualFold(strings.TrimSpace(sortBy), "type")
	slices.SortStableFunc(out, func(a, b Notification) int {
		if byType {
			if c := cmp.Compare(typeRank[a.Type], typeRank[b.Type]); c != 0 {
				return c
			}
		}
		return b.Timestamp.Compare(a.Timestamp)
	})
	return out
}

func (s *Notifications) MarkRead(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.byID[id]
	if !ok {
		return util.NotFound("notification " + id)
	}
	s.items[i].IsRead = true
	return nil
}

// MarkAllRead mengembalikan jumlah notifikasi yang berubah.
func (s *Notifications) MarkAllRead() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for i := range s.items {
		if !s.items[i].IsRead {
			s.items[i].IsRead = true
			n++
		}
	}
	return n
}

func (s *Notifications) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, it := range s.items {
		if !it.IsRead {
			n++
		}
	}
	return n
}

// Add menambah notifikasi baru dan menyiarkannya ke subscriber.
func (s *Notifications) Add(n Notification) (Notification, bool) {
	s.mu.Lock()
	n, ok := s.insert(n)
	if ok {
		s.broadcast(n)
	}
	s.mu.Unlock()
	return n, ok
}

// Merge menambahkan item yang id-nya belum dikenal (sinkronisasi dari source).
func (s *Notifications) Merge(items []Notification) int {
	added := 0
	for _, n := range items {
		if _, ok := s.Add(n); ok {
			added++
		}
	}
	return added
}

// Sync memuat ulang src tiap interval dan menggabungkan alert baru (mis. hasil
// cmd/worker di MySQL) ke store; subscriber SSE ikut menerima. Berhenti saat
// ctx selesai.
func (s *Notifications) Sync(ctx context.Context, src NotificationSource, interval time.Duration) error {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
		items, err := src.LoadNotifications(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.With("alerts.sync").WithError(err).Warn("reload alerts failed")
			continue
		}
		if n := s.Merge(items); n > 0 {
			logger.With("alerts.sync").WithField("added", n).Info("alerts merged")
		}
	}
}

// broadcast non-blocking: subscriber yang lambat kehilangan event.
func (s *Notifications) broadcast(n Notification) {
	for ch := range s.subs {
		select {
		case ch <- n:
		default:
		}
	}
}

// Subscribe mengembalikan channel event dan fungsi untuk berhenti.
func (s *Notifications) Subscribe() (<-chan Notification, func()) {
	ch := make(chan Notification, 16)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, ch)
			s.mu.Unlock()
			close(ch)
		})
	}
}
