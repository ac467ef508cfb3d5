package cache

// ScopedKeyer wraps a Keyer with a prefix. The npm client scopes keys by a
// digest of its auth token, so documents fetched with one credential are
// never served to a client holding another.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "auth:"+Hash([]byte(token))[:12]+":")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// Prefix returns the scope prefix.
func (k *ScopedKeyer) Prefix() string { return k.prefix }

// HTTPKey generates a prefixed key for HTTP response caching.
func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

// PackumentKey generates a prefixed key for registry document caching.
func (k *ScopedKeyer) PackumentKey(registry, name string) string {
	return k.prefix + k.inner.PackumentKey(registry, name)
}
