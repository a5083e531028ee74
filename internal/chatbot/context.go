package chatbot

import (
	"strings"
	"sync"
	"time"

	"github.com/lingobridge/lingobridge-backend/internal/logger"
)

const (
	// Maximum exchanges kept per user.
	DefaultMaxContextLength = 10
	// Contexts idle longer than this are dropped.
	DefaultContextTTL = 30 * time.Minute
)

type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
}

type userContext struct {
	exchanges   []Exchange
	lastUpdated time.Time
}

// ContextManager holds per-user conversation windows. Multiple requests for
// the same user may arrive concurrently, so all map access is mutex-guarded.
type ContextManager struct {
	mu       sync.Mutex
	contexts map[string]*userContext
	maxLen   int
	ttl      time.Duration
	log      *logger.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewContextManager(log *logger.Logger, maxLen int, ttl time.Duration) *ContextManager {
	if maxLen <= 0 {
		maxLen = DefaultMaxContextLength
	}
	if ttl <= 0 {
		ttl = DefaultContextTTL
	}
	return &ContextManager{
		contexts: make(map[string]*userContext),
		maxLen:   maxLen,
		ttl:      ttl,
		log:      log.With("component", "ContextManager"),
		stop:     make(chan struct{}),
	}
}

// Get returns the active window for a user, clearing it first if expired.
func (cm *ContextManager) Get(userID string) []Exchange {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	uc, ok := cm.contexts[userID]
	if !ok {
		return nil
	}
	if time.Since(uc.lastUpdated) > cm.ttl {
		delete(cm.contexts, userID)
		return nil
	}
	out := make([]Exchange, len(uc.exchanges))
	copy(out, uc.exchanges)
	return out
}

func (cm *ContextManager) Update(userID, message, response string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	uc, ok := cm.contexts[userID]
	if !ok {
		uc = &userContext{}
		cm.contexts[userID] = uc
	}
	uc.exchanges = append(uc.exchanges, Exchange{
		Timestamp: time.Now(),
		Message:   message,
		Response:  response,
	})
	if len(uc.exchanges) > cm.maxLen {
		uc.exchanges = uc.exchanges[len(uc.exchanges)-cm.maxLen:]
	}
	uc.lastUpdated = time.Now()
}

func (cm *ContextManager) Clear(userID string) {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	delete(cm.contexts, userID)
}

// Formatted renders the window for inclusion in a model prompt.
func (cm *ContextManager) Formatted(userID string) string {
	exchanges := cm.Get(userID)
	if len(exchanges) == 0 {
		return ""
	}
	lines := make([]string, 0, len(exchanges))
	for _, e := range exchanges {
		lines = append(lines, "User: "+e.Message+"\nBot: "+e.Response)
	}
	return strings.Join(lines, "\n")
}

// StartSweeper launches the background TTL sweep. Stop shuts it down.
func (cm *ContextManager) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cm.sweepExpired()
			case <-cm.stop:
				return
			}
		}
	}()
}

func (cm *ContextManager) Stop() {
	cm.stopOnce.Do(func() { close(cm.stop) })
}

func (cm *ContextManager) sweepExpired() {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	removed := 0
	for userID, uc := range cm.contexts {
		if time.Since(uc.lastUpdated) > cm.ttl {
			delete(cm.contexts, userID)
			removed++
		}
	}
	if removed > 0 {
		cm.log.Debug("Swept expired conversation contexts", "removed", removed)
	}
}
