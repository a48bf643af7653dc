// Package notify holds the transient messages shown in the corner of the window, and the
// translations for every user-facing string.
package notify

import (
	"embed"
	"fmt"
	"sync"

	"github.com/leonelquinteros/gotext"
)

//go:embed locales/*.po
var locales embed.FS

// DefaultTTL is how long a notification stays visible, in seconds.
const DefaultTTL float32 = 3

// MaxVisible caps the stack; the oldest is dropped first.
const MaxVisible = 4

var (
	mu      sync.RWMutex
	current = mustLoad("en")
)

func mustLoad(lang string) *gotext.Po {
	po, err := load(lang)
	if err != nil {
		panic(err)
	}
	return po
}

func load(lang string) (*gotext.Po, error) {
	data, err := locales.ReadFile("locales/" + lang + ".po")
	if err != nil {
		return nil, fmt.Errorf("notify: no translations for %q: %w", lang, err)
	}
	po := gotext.NewPo()
	po.Parse(data)
	return po, nil
}

// SetLanguage switches translations. Unknown languages leave the current one in place.
func SetLanguage(lang string) error {
	po, err := load(lang)
	if err != nil {
		return err
	}
	mu.Lock()
	current = po
	mu.Unlock()
	return nil
}

// T translates key and formats args into it. Keys without a translation are returned as is.
func T(key string, args ...any) string {
	mu.RLock()
	po := current
	mu.RUnlock()
	tr := po.Get(key)
	if len(args) == 0 {
		return tr
	}
	return fmt.Sprintf(tr, args...)
}

// Level is the severity of a notification.
type Level int

const (
	Info Level = iota
	Success
	Error
)

// Notification is one visible message.
type Notification struct {
	ID    int
	Level Level
	Text  string
	TTL   float32 // seconds remaining
}

// Queue is advanced by the frame tick.
type Queue struct {
	items  []Notification
	nextID int
	ttl    float32
}

func NewQueue() *Queue { return &Queue{ttl: DefaultTTL} }

// Push adds a message and returns its id.
func (q *Queue) Push(level Level, text string) int {
	q.nextID++
	q.items = append(q.items, Notification{ID: q.nextID, Level: level, Text: text, TTL: q.ttl})
	if len(q.items) > MaxVisible {
		q.items = q.items[len(q.items)-MaxVisible:]
	}
	return q.nextID
}

func (q *Queue) Info(text string) int { return q.Push(Info, text) }

func (q *Queue) Success(text string) int { return q.Push(Success, text) }

func (q *Queue) Error(text string) int { return q.Push(Error, text) }

// Update ages every message by dt and drops the expired ones.
func (q *Queue) Update(dt float32) {
	kept := q.items[:0]
	for _, n := range q.items {
		n.TTL -= dt
		if n.TTL > 0 {
			kept = append(kept, n)
		}
	}
	q.items = kept
}

// Dismiss removes a message early.
func (q *Queue) Dismiss(id int) {
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Visible returns the messages oldest first.
func (q *Queue) Visible() []Notification {
	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}
