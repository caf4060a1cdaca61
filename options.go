package feedrank

import "time"

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	addrs    []string
	password string

	keyPrefix         string
	sessionTTL        time.Duration
	recomputeInterval time.Duration
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	}
}

// WithKeyPrefix sets the namespace prefix for every storage key.
// Default: "feedrank:".
func WithKeyPrefix(prefix string) Option {
	return func(c *clientConfig) {
		c.keyPrefix = prefix
	}
}

// WithSessionTTL sets how long a session's delivered-post record survives
// without activity. Default: 12h.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *clientConfig) {
		c.sessionTTL = ttl
	}
}

// WithRecomputeInterval sets the minimum interval between automatic affinity
// recomputes per user. Default: 24h.
func WithRecomputeInterval(interval time.Duration) Option {
	return func(c *clientConfig) {
		c.recomputeInterval = interval
	}
}
