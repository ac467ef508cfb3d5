package cache

import "strings"

// Keyer builds cache keys for the different kinds of cached data.
type Keyer interface {
	// HTTPKey returns the key for a raw HTTP response body.
	HTTPKey(namespace, key string) string

	// PackumentKey returns the key for a decoded registry document.
	PackumentKey(registry, name string) string
}

// DefaultKeyer produces unprefixed keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// HTTPKey returns "http:<namespace>:<key>".
func (DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// PackumentKey returns "packument:<digest>:<name>", where digest is the first
// 16 hex characters of the registry URL's hash. The package name stays
// readable in key listings.
func (DefaultKeyer) PackumentKey(registry, name string) string {
	digest := Hash([]byte(strings.TrimRight(registry, "/")))
	return "packument:" + digest[:16] + ":" + name
}
