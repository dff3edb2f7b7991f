package config

import (
	"strconv"
	"strings"
	"time"
)

// ServerPort is the port the reference auth service listens on.
func ServerPort() string {
	return GetEnv("PORT", "8080")
}

// DBPath is the SQLite database file backing the user store.
func DBPath() string {
	return GetEnv("DB_PATH", "portal.db")
}

// ServerLogFile is where the auth service writes its logs.
func ServerLogFile() string {
	return GetEnv("PORTALD_LOG_FILE", "portald.log")
}

// CORSAllowedOrigins lists browser origins allowed to call the API.
func CORSAllowedOrigins() []string {
	return GetList("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

// ServerReadTimeout returns the maximum duration for reading the entire request, including the body.
func ServerReadTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_TIMEOUT", "10s")
}

// ServerReadHeaderTimeout returns the amount of time allowed to read request headers.
func ServerReadHeaderTimeout() time.Duration {
	return MustParseDuration("SERVER_READ_HEADER_TIMEOUT", "5s")
}

// ServerWriteTimeout returns the maximum duration before timing out writes of the response.
func ServerWriteTimeout() time.Duration {
	return MustParseDuration("SERVER_WRITE_TIMEOUT", "15s")
}

// ServerIdleTimeout returns the maximum amount of time to wait for the next request when keep-alives are enabled.
func ServerIdleTimeout() time.Duration {
	return MustParseDuration("SERVER_IDLE_TIMEOUT", "60s")
}

// MaxRequestBodyBytes returns the maximum allowed size of incoming request bodies.
// Supports raw integers (bytes) or human-friendly values like "2MB", "512KB".
func MaxRequestBodyBytes() int64 {
	val := GetEnv("MAX_REQUEST_BODY_BYTES", "64KB")
	n, err := parseBytes(val)
	if err != nil || n <= 0 {
		return 64 << 10
	}
	return n
}

// DBWorkerCount controls the number of DB workers.
func DBWorkerCount() int {
	return parseIntEnv("DB_WORKER_COUNT", 4)
}

// CryptoWorkerCount controls the number of password hashing workers.
func CryptoWorkerCount() int {
	return parseIntEnv("CRYPTO_WORKER_COUNT", 4)
}

// SMTPWorkerCount controls the number of notification mail workers.
func SMTPWorkerCount() int {
	return parseIntEnv("SMTP_WORKER_COUNT", 2)
}

// WorkerQueueSize controls the queue size for each worker pool.
func WorkerQueueSize() int {
	return parseIntEnv("WORKER_QUEUE_SIZE", 1024)
}

// LoginMaxAttempts is the number of failed logins tolerated per email
// before further attempts are refused for LoginLockout.
func LoginMaxAttempts() int {
	return parseIntEnv("LOGIN_MAX_ATTEMPTS", 5)
}

// LoginLockout is the window failed logins are counted over.
func LoginLockout() time.Duration {
	return MustParseDuration("LOGIN_LOCKOUT", "15m")
}

// JWTIssuer is the issuer claim on session tokens.
func JWTIssuer() string {
	return GetEnv("JWT_ISSUER", "portald")
}

// JWTKeySeed is the hex encoded 32-byte Ed25519 seed that signs session
// tokens. Empty means a fresh key per process.
func JWTKeySeed() string {
	return GetEnv("JWT_KEY_SEED", "")
}

// JWTExpiresIn is the lifetime of a session token.
func JWTExpiresIn() time.Duration {
	return MustParseDuration("JWT_EXPIRES_IN", "15m")
}

func parseBytes(s string) (int64, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	// If plain number, treat as bytes
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	mult := int64(1)
	switch {
	case strings.HasSuffix(s, "KB"):
		mult = 1 << 10
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "MB"):
		mult = 1 << 20
		s = strings.TrimSuffix(s, "MB")
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return int64(n * float64(mult)), nil
}
