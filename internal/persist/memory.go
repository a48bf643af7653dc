package persist

import (
	"context"
	"strconv"
	"sync"
	"time"

	"room-designer/internal/catalog"
	"room-designer/internal/scene"
)

// Memory is an in-process Provider used for offline sessions and tests.
type Memory struct {
	mu          sync.Mutex
	designs     map[string][]scene.Snapshot
	screenshots map[string][][]byte
	entries     []catalog.Entry
	seq         int
	// Fail, when set, is returned by every call.
	Fail error
}

// NewMemory returns an empty store listing entries as its catalog.
func NewMemory(entries []catalog.Entry) *Memory {
	return &Memory{
		designs:     make(map[string][]scene.Snapshot),
		screenshots: make(map[string][][]byte),
		entries:     entries,
	}
}

func (m *Memory) ack() Ack {
	m.seq++
	return Ack{ID: strconv.Itoa(m.seq), CreatedAt: time.Now()}
}

func (m *Memory) SaveSnapshot(_ context.Context, userID, _ string, snap scene.Snapshot, _ []byte) (Ack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return Ack{}, m.Fail
	}
	m.designs[userID] = append(m.designs[userID], snap)
	return m.ack(), nil
}

func (m *Memory) LoadLatestSnapshot(_ context.Context, userID string) (scene.Snapshot, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return scene.Snapshot{}, false, m.Fail
	}
	list := m.designs[userID]
	if len(list) == 0 {
		return scene.Snapshot{}, false, nil
	}
	return list[len(list)-1], true, nil
}

func (m *Memory) Catalog(context.Context) ([]catalog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return nil, m.Fail
	}
	out := make([]catalog.Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

func (m *Memory) SaveScreenshot(_ context.Context, userID string, png []byte) (Ack, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return Ack{}, m.Fail
	}
	m.screenshots[userID] = append(m.screenshots[userID], png)
	return m.ack(), nil
}

// Screenshots returns how many screenshots userID has.
func (m *Memory) Screenshots(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.screenshots[userID])
}
