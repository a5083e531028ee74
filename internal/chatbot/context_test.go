package chatbot

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestContextManagerWindowTruncation(t *testing.T) {
	cm := NewContextManager(testLogger(t), 3, time.Minute)

	for i := 0; i < 5; i++ {
		cm.Update("u1", fmt.Sprintf("m%d", i), fmt.Sprintf("r%d", i))
	}

	got := cm.Get("u1")
	if len(got) != 3 {
		t.Fatalf("window length = %d, want 3", len(got))
	}
	if got[0].Message != "m2" || got[2].Message != "m4" {
		t.Fatalf("window kept wrong exchanges: %v", got)
	}
}

func TestContextManagerTTLExpiry(t *testing.T) {
	cm := NewContextManager(testLogger(t), 10, 20*time.Millisecond)

	cm.Update("u1", "hello", "hi")
	if got := cm.Get("u1"); len(got) != 1 {
		t.Fatalf("fresh context length = %d, want 1", len(got))
	}

	time.Sleep(40 * time.Millisecond)
	if got := cm.Get("u1"); got != nil {
		t.Fatalf("expired context should be cleared, got %v", got)
	}
}

func TestContextManagerSweeper(t *testing.T) {
	cm := NewContextManager(testLogger(t), 10, 10*time.Millisecond)
	cm.StartSweeper(5 * time.Millisecond)
	defer cm.Stop()

	cm.Update("u1", "hello", "hi")
	time.Sleep(50 * time.Millisecond)

	cm.mu.Lock()
	_, ok := cm.contexts["u1"]
	cm.mu.Unlock()
	if ok {
		t.Fatalf("sweeper should have removed the expired context")
	}
}

func TestContextManagerConcurrentUpdates(t *testing.T) {
	cm := NewContextManager(testLogger(t), DefaultMaxContextLength, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cm.Update("shared", fmt.Sprintf("m%d", i), "r")
			cm.Get("shared")
		}(i)
	}
	wg.Wait()

	if got := cm.Get("shared"); len(got) != DefaultMaxContextLength {
		t.Fatalf("window length = %d, want %d", len(got), DefaultMaxContextLength)
	}
}

func TestFormatted(t *testing.T) {
	cm := NewContextManager(testLogger(t), 10, time.Minute)
	if got := cm.Formatted("nobody"); got != "" {
		t.Fatalf("empty context should format to empty string, got %q", got)
	}

	cm.Update("u1", "how are you", "fine")
	want := "User: how are you\nBot: fine"
	if got := cm.Formatted("u1"); got != want {
		t.Fatalf("Formatted = %q, want %q", got, want)
	}
}
