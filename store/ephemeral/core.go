package ephemeral

import (
	"errors"
	"sync"
	"time"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/utils"
)

var (
	ErrTooLong   = errors.New("key too long")
	ErrStoreFull = errors.New("ephemeral store full")
	maxKeyLength = 255
	maxStoreSize = 10000
)

const cleanupInterval = time.Minute

type item struct {
	count     int
	expiresAt time.Time
}

// coreStore is a bounded map of counters that expire a fixed time after
// their first increment.
type coreStore struct {
	data map[string]*item
	mu   sync.RWMutex
	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

func newCoreStore() *coreStore {
	store := &coreStore{
		data: make(map[string]*item),
		now:  time.Now,
		stop: make(chan struct{}),
	}

	go store.cleanup(cleanupInterval)

	logging.DebugLog("Ephemeral store initialized")
	return store
}

// incr bumps the counter for key, starting a fresh window of ttl if none is
// live, and returns the new count and when the window ends.
func (s *coreStore) incr(key string, ttl time.Duration) (int, time.Time, error) {
	if len(key) > maxKeyLength {
		logging.DebugLog("Store incr failed: key too long [%s] (length: %d)", utils.HashEmail(key), len(key))
		return 0, time.Time{}, ErrTooLong
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	it, ok := s.data[key]
	if !ok || now.After(it.expiresAt) {
		if !ok && len(s.data) >= maxStoreSize {
			logging.WarnLog("Store incr failed: store full (size: %d)", len(s.data))
			return 0, time.Time{}, ErrStoreFull
		}
		it = &item{expiresAt: now.Add(ttl)}
		s.data[key] = it
	}
	it.count++

	logging.DebugLog("Store incr [%s] count=%d", utils.HashEmail(key), it.count)
	return it.count, it.expiresAt, nil
}

func (s *coreStore) get(key string) (int, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.data[key]
	if !ok || s.now().After(it.expiresAt) {
		return 0, time.Time{}, false
	}
	return it.count, it.expiresAt, true
}

func (s *coreStore) delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.data[key]
	delete(s.data, key)

	if existed {
		logging.DebugLog("Store delete success [%s]", utils.HashEmail(key))
	}
}

func (s *coreStore) close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *coreStore) cleanup(every time.Duration) {
	logging.DebugLog("Store cleanup goroutine started")
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
		if n, size := s.sweep(); n > 0 {
			logging.InfoLog("Store cleanup: removed %d expired items (current size: %d)", n, size)
		}
	}
}

func (s *coreStore) sweep() (removed, size int) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, v := range s.data {
		if now.After(v.expiresAt) {
			delete(s.data, k)
			removed++
		}
	}
	return removed, len(s.data)
}
