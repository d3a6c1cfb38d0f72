// Package env reads process environment variables with fallbacks. Config
// proper goes through envconfig; this covers the bootstrap knobs read
// before config is loaded.
package env

import "os"

// Get returns the value of the given environment variable or a fallback.
func Get(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
