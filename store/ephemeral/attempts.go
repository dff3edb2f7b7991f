package ephemeral

import (
	"time"

	"github.com/Goofygiraffe06/portal/internal/logging"
	"github.com/Goofygiraffe06/portal/internal/utils"
)

// AttemptLimiter counts failed logins per email. Once max failures land
// inside one window the email is locked until that window ends.
type AttemptLimiter struct {
	core   *coreStore
	max    int
	window time.Duration
}

func NewAttemptLimiter(max int, window time.Duration) *AttemptLimiter {
	if max <= 0 {
		max = 1
	}
	logging.DebugLog("Attempt limiter created max=%d window=%v", max, window)
	return &AttemptLimiter{core: newCoreStore(), max: max, window: window}
}

// Locked reports whether email has used up its attempts, and for how much
// longer.
func (l *AttemptLimiter) Locked(email string) (bool, time.Duration) {
	count, until, ok := l.core.get(utils.NormalizeEmail(email))
	if !ok || count < l.max {
		return false, 0
	}
	return true, until.Sub(l.core.now())
}

// Fail records a failed attempt and returns how many remain.
func (l *AttemptLimiter) Fail(email string) (int, error) {
	key := utils.NormalizeEmail(email)
	count, _, err := l.core.incr(key, l.window)
	if err != nil {
		return 0, err
	}
	remaining := l.max - count
	if remaining <= 0 {
		logging.WarnLog("Login locked out [%s] after %d failures", utils.HashEmail(key), count)
		return 0, nil
	}
	return remaining, nil
}

// Reset forgets the failures for email.
func (l *AttemptLimiter) Reset(email string) {
	l.core.delete(utils.NormalizeEmail(email))
}

// Close stops the background sweeper.
func (l *AttemptLimiter) Close() {
	l.core.close()
}
