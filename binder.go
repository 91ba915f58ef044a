package staticserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// errBindAbandoned reports that the bind phase stopped because shutdown was
// requested, not because the remaining attempts would have failed.
var errBindAbandoned = errors.New("bind abandoned: shutdown requested")

// ExhaustedError reports that every configured bind attempt failed.
type ExhaustedError struct {
	Attempts int
	LastErr  error
}

func (this *ExhaustedError) Error() string {
	return fmt.Sprintf("unable to bind after %d attempt(s): %s", this.Attempts, this.LastErr)
}
func (this *ExhaustedError) Unwrap() error { return this.LastErr }

type bindRetry struct {
	address     string
	maxAttempts int
	delay       time.Duration
	config      listenConfig
	logger      logger
	sleep       func(context.Context, time.Duration)
}

func newBindRetry(config configuration) *bindRetry {
	return &bindRetry{
		address:     config.ListenAddress,
		maxAttempts: config.MaxBindAttempts,
		delay:       config.BindRetryDelay,
		config:      config.ListenConfig,
		logger:      config.Logger,
		sleep:       contextSleep,
	}
}

// Bind attempts to acquire a bound, listening socket, retrying with a fixed
// delay between attempts. Every bind error is treated identically; there is
// no backoff and no inspection of the error class. A listener produced by a
// failed attempt is closed before the next attempt begins so that no
// descriptor survives a discarded attempt. When every attempt has failed,
// the returned error is an *ExhaustedError. A context canceled between
// attempts abandons the loop with errBindAbandoned instead.
func (this *bindRetry) Bind(ctx context.Context) (net.Listener, error) {
	var lastErr error
	for attempt := 1; attempt <= this.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			this.logger.Printf("[INFO] Abandoning bind to [%s] before attempt %d of %d: shutdown requested.", this.address, attempt, this.maxAttempts)
			return nil, errBindAbandoned
		}

		listener, err := this.config.Listen(ctx, "tcp", this.address)
		if err == nil {
			this.logger.Printf("[INFO] Bound to [%s] on attempt %d of %d.", this.address, attempt, this.maxAttempts)
			return listener, nil
		}

		if listener != nil {
			_ = listener.Close()
		}

		lastErr = err
		this.logger.Printf("[WARN] Bind to [%s] failed (attempt %d of %d): [%s]", this.address, attempt, this.maxAttempts, err)
		if attempt < this.maxAttempts {
			this.sleep(ctx, this.delay)
		}
	}

	this.logger.Printf("[WARN] Unable to bind to [%s]; all %d attempt(s) failed.", this.address, this.maxAttempts)
	return nil, &ExhaustedError{Attempts: this.maxAttempts, LastErr: lastErr}
}

func contextSleep(ctx context.Context, duration time.Duration) {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
