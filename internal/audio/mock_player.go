package audio

import (
	"context"
	"sync"
)

// MockSink implements Sink without touching an audio device. Tests use it
// to observe what would have been played.
type MockSink struct {
	mu        sync.Mutex
	played    [][]byte
	closed    bool
	playErr   error // returned from Play when set
	PlayCount int
}

// NewMockSink returns an inert audio sink for tests.
func NewMockSink() *MockSink {
	return &MockSink{}
}

// FailWith makes subsequent Play calls return err.
func (m *MockSink) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playErr = err
}

// Play records the payload and returns immediately.
func (m *MockSink) Play(ctx context.Context, pcm []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.playErr != nil {
		return m.playErr
	}
	buf := make([]byte, len(pcm))
	copy(buf, pcm)
	m.played = append(m.played, buf)
	m.PlayCount++
	return nil
}

// Played returns copies of every payload handed to Play.
func (m *MockSink) Played() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([][]byte, len(m.played))
	copy(out, m.played)
	return out
}

// Close implements Sink.
func (m *MockSink) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSink) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
