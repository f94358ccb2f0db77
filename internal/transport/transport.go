package transport

import (
	"context"
	"sync"
	"time"
)

// Record is the wire shape of the simulated message store.
type Record struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

// Transport abstracts the remote message store. The in-memory mock below
// cannot fail, but substitutes must surface connectivity errors through the
// returned error rather than panicking.
type Transport interface {
	FetchAll(ctx context.Context) ([]Record, error)
	Append(ctx context.Context, author, text string) (Record, error)
}

// DefaultLatency is the simulated round-trip delay applied to every call.
const DefaultLatency = 300 * time.Millisecond

var seed = []Record{
	{ID: 1, Author: "João", Text: "Olá, pessoal!"},
	{ID: 2, Author: "Maria", Text: "Oi, João! Tudo bem?"},
	{ID: 3, Author: "João", Text: "Tudo ótimo! E com você?"},
}

// Mock simulates the remote store. FetchAll resets the backing store to the
// canonical seed before returning it, so every new session starts from the
// same three messages regardless of what earlier sessions appended. Append
// assigns sequential ids and is safe to call concurrently with other appends.
type Mock struct {
	latency time.Duration

	mu       sync.Mutex
	messages []Record
	nextID   int
}

// Option configures a Mock.
type Option func(*Mock)

// WithLatency overrides the simulated delay. Tests pass 0.
func WithLatency(d time.Duration) Option {
	return func(m *Mock) { m.latency = d }
}

// NewMock builds a mock transport pre-populated with the seed conversation.
func NewMock(opts ...Option) *Mock {
	m := &Mock{latency: DefaultLatency}
	for _, opt := range opts {
		opt(m)
	}
	m.reset()
	return m
}

func (m *Mock) reset() {
	m.messages = make([]Record, len(seed))
	copy(m.messages, seed)
	m.nextID = seed[len(seed)-1].ID + 1
}

// FetchAll returns the seed snapshot after the simulated delay.
func (m *Mock) FetchAll(ctx context.Context) ([]Record, error) {
	if err := m.sleep(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
	out := make([]Record, len(m.messages))
	copy(out, m.messages)
	return out, nil
}

// Append stores a new record with the next sequential id and returns it after
// the simulated delay.
func (m *Mock) Append(ctx context.Context, author, text string) (Record, error) {
	if err := m.sleep(ctx); err != nil {
		return Record{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	rec := Record{ID: m.nextID, Author: author, Text: text}
	m.nextID++
	m.messages = append(m.messages, rec)
	return rec, nil
}

func (m *Mock) sleep(ctx context.Context) error {
	if m.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(m.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
