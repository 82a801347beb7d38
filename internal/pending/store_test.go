package pending

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glebsterx/TaskFlow/internal/detect"
)

func testCandidate(messageID int64) detect.Candidate {
	return detect.Candidate{
		RawText:    "нужно проверить API завтра",
		Title:      "Проверить API",
		Confidence: 0.6,
		MessageID:  messageID,
		ChatID:     -1001,
		AuthorID:   7,
	}
}

func TestStore_PutTakeRoundTrip(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(101, testCandidate(101))

	entry, ok := s.TakeIfPending(101)
	require.True(t, ok)
	assert.Equal(t, "Проверить API", entry.Candidate.Title)

	// Consumed: second take fails.
	_, ok = s.TakeIfPending(101)
	assert.False(t, ok)
}

func TestStore_TakeUnknownKey(t *testing.T) {
	s := NewStore(time.Minute)
	_, ok := s.TakeIfPending(999)
	assert.False(t, ok)
}

func TestStore_PutOverwrites(t *testing.T) {
	s := NewStore(time.Minute)

	first := testCandidate(101)
	first.Title = "Старое название"
	s.Put(101, first)

	second := testCandidate(101)
	second.Title = "Новое название"
	s.Put(101, second)

	require.Equal(t, 1, s.Len())
	entry, ok := s.TakeIfPending(101)
	require.True(t, ok)
	assert.Equal(t, "Новое название", entry.Candidate.Title)
}

func TestStore_ExpiredEntryNotTakeable(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	s := NewStore(15 * time.Minute).WithClock(func() time.Time { return now })

	s.Put(101, testCandidate(101))

	now = now.Add(16 * time.Minute)
	_, ok := s.TakeIfPending(101)
	assert.False(t, ok)

	// The expired take removed the entry.
	assert.Equal(t, 0, s.Len())
}

func TestStore_TakeJustInsideTTL(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	s := NewStore(15 * time.Minute).WithClock(func() time.Time { return now })

	s.Put(101, testCandidate(101))

	now = now.Add(15 * time.Minute)
	_, ok := s.TakeIfPending(101)
	assert.True(t, ok)
}

func TestStore_PeekDoesNotConsume(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(101, testCandidate(101))

	_, ok := s.Peek(101)
	require.True(t, ok)

	_, ok = s.TakeIfPending(101)
	assert.True(t, ok)
}

func TestStore_PeekExpiredReadsAbsent(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute).WithClock(func() time.Time { return now })

	s.Put(101, testCandidate(101))
	now = now.Add(2 * time.Minute)

	_, ok := s.Peek(101)
	assert.False(t, ok)

	// Peek leaves removal to take/sweep.
	assert.Equal(t, 1, s.Len())
}

func TestStore_Sweep(t *testing.T) {
	now := time.Date(2024, 3, 13, 12, 0, 0, 0, time.UTC)
	s := NewStore(time.Minute).WithClock(func() time.Time { return now })

	s.Put(101, testCandidate(101))
	s.Put(102, testCandidate(102))
	now = now.Add(30 * time.Second)
	s.Put(103, testCandidate(103))

	now = now.Add(45 * time.Second)
	removed := s.Sweep()

	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Len())

	_, ok := s.TakeIfPending(103)
	assert.True(t, ok)
}

// Exactly one of N concurrent takers wins.
func TestStore_TakeOnceUnderContention(t *testing.T) {
	s := NewStore(time.Minute)
	s.Put(101, testCandidate(101))

	const goroutines = 50
	var wins atomic.Int32
	var wg sync.WaitGroup

	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, ok := s.TakeIfPending(101); ok {
				wins.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, 0, s.Len())
}
