package config

import (
	"io"
	"time"
)

// Config is the read-only view of the service configuration. Missing keys
// and unconvertible values yield the zero value; callers apply their own
// defaults.
type Config interface {
	io.Closer

	// IsSet reports whether key has a value in the file or the environment.
	IsSet(key string) bool

	GetString(key string) string
	GetBool(key string) bool
	GetInt(key string) int
	GetUint64(key string) uint64
	GetFloat64(key string) float64

	// GetSecond reads an integer number of seconds.
	GetSecond(key string) time.Duration
	// GetMinute reads an integer number of minutes.
	GetMinute(key string) time.Duration

	// GetBinary decodes a base64 value, nil when it is not valid base64.
	GetBinary(key string) []byte

	// GetArray accepts a YAML sequence or a comma separated string. Blank
	// elements are dropped.
	GetArray(key string) []string
}
