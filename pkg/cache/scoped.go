package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, for
// example one namespace per server deployment sharing a Redis instance.
//
// Example usage:
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "linkboard:v1:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys. A nil inner keyer selects
// the [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// DecomposeKey generates a prefixed decomposition key.
func (k *ScopedKeyer) DecomposeKey(graphHash string, opts DecomposeKeyOpts) string {
	return k.prefix + k.inner.DecomposeKey(graphHash, opts)
}

// LayoutKey generates a prefixed layout key.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}

// AnalysisKey generates a prefixed analysis key.
func (k *ScopedKeyer) AnalysisKey(graphHash string) string {
	return k.prefix + k.inner.AnalysisKey(graphHash)
}
