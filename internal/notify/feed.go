// Package notify keeps the recent success/error outcomes shown to the user.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
)

type Notification struct {
	ID        string    `json:"id"`
	Severity  Severity  `json:"severity"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

const DefaultFeedSize = 50

// Feed is a bounded ring of notifications, safe for concurrent use.
type Feed struct {
	mu   sync.Mutex
	buf  []Notification
	next int
	full bool
	now  func() time.Time
}

func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{buf: make([]Notification, size), now: time.Now}
}

// Notify records a notification and returns it.
func (f *Feed) Notify(sev Severity, msg string) Notification {
	n := Notification{
		ID:        uuid.NewString(),
		Severity:  sev,
		Message:   msg,
		CreatedAt: f.now().UTC(),
	}

	f.mu.Lock()
	f.buf[f.next] = n
	f.next = (f.next + 1) % len(f.buf)
	if f.next == 0 {
		f.full = true
	}
	f.mu.Unlock()

	ev := log.Info()
	if sev == Error {
		ev = log.Warn()
	}
	ev.Str("notification_id", n.ID).Str("severity", string(sev)).Msg(msg)
	return n
}

// Recent returns up to limit notifications, newest first. limit <= 0 means all.
func (f *Feed) Recent(limit int) []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := f.next
	if f.full {
		count = len(f.buf)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]Notification, 0, limit)
	for i := 0; i < limit; i++ {
		idx := (f.next - 1 - i + len(f.buf)) % len(f.buf)
		out = append(out, f.buf[idx])
	}
	return out
}
