package manager

import (
	"context"
	"time"

	"github.com/Goofygiraffe06/portal/internal/config"
	"github.com/Goofygiraffe06/portal/internal/workerpool"
)

// WorkManager provides separate pools for DB, Crypto, and SMTP work.
// bcrypt and SQLite calls block, so handlers hand them off here instead of
// running them on the request goroutine.
type WorkManager struct {
	db     *workerpool.Pool
	crypto *workerpool.Pool
	smtp   *workerpool.Pool
}

// Option configures the WorkManager.
type Option func(*options)

type options struct {
	dbWorkers     int
	cryptoWorkers int
	smtpWorkers   int
	queueSize     int
}

// WithDBWorkers sets the DB worker count.
func WithDBWorkers(n int) Option { return func(o *options) { o.dbWorkers = n } }

// WithCryptoWorkers sets the crypto worker count.
func WithCryptoWorkers(n int) Option { return func(o *options) { o.cryptoWorkers = n } }

// WithSMTPWorkers sets the SMTP worker count.
func WithSMTPWorkers(n int) Option { return func(o *options) { o.smtpWorkers = n } }

// WithQueueSize sets the shared queue size (per pool).
func WithQueueSize(n int) Option { return func(o *options) { o.queueSize = n } }

// NewWorkManager constructs the manager with the given options (or defaults from config).
func NewWorkManager(opts ...Option) *WorkManager {
	o := &options{
		dbWorkers:     config.DBWorkerCount(),
		cryptoWorkers: config.CryptoWorkerCount(),
		smtpWorkers:   config.SMTPWorkerCount(),
		queueSize:     config.WorkerQueueSize(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return &WorkManager{
		db:     workerpool.New("db", o.dbWorkers, o.queueSize),
		crypto: workerpool.New("crypto", o.cryptoWorkers, o.queueSize),
		smtp:   workerpool.New("smtp", o.smtpWorkers, o.queueSize),
	}
}

// Close shuts down all pools.
func (m *WorkManager) Close() {
	if m == nil {
		return
	}
	m.db.Close()
	m.crypto.Close()
	m.smtp.Close()
}

// DoDB runs fn on the DB pool and waits for it.
func (m *WorkManager) DoDB(ctx context.Context, fn func(ctx context.Context) error) error {
	return do(ctx, m.db, fn)
}

// DoCrypto runs fn on the crypto pool and waits for it.
func (m *WorkManager) DoCrypto(ctx context.Context, fn func(ctx context.Context) error) error {
	return do(ctx, m.crypto, fn)
}

// SubmitSMTP schedules an SMTP task without waiting.
func (m *WorkManager) SubmitSMTP(fn func(ctx context.Context)) error {
	return m.smtp.Submit(fn)
}

// do submits fn and waits for its result or for ctx to end. The task's
// context is cancelled along with ctx.
func do(ctx context.Context, p *workerpool.Pool, fn func(ctx context.Context) error) error {
	errCh := make(chan error, 1)
	err := p.Submit(func(taskCtx context.Context) {
		taskCtx, cancel := context.WithCancel(taskCtx)
		defer cancel()
		stop := context.AfterFunc(ctx, cancel)
		defer stop()
		errCh <- fn(taskCtx)
	})
	if err != nil {
		return err
	}
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunWithTimeout runs a function respecting a deadline and returns whether it completed.
func RunWithTimeout(parent context.Context, d time.Duration, fn func(ctx context.Context)) bool {
	ctx, cancel := context.WithTimeout(parent, d)
	defer cancel()
	done := make(chan struct{})
	go func() { fn(ctx); close(done) }()
	select {
	case <-done:
		return true
	case <-ctx.Done():
		return false
	}
}
