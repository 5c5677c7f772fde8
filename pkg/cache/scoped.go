package cache

import "strings"

// ScopedKeyer prefixes every key of an inner [Keyer]. Entries written under
// one prefix are invisible under another.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer returns a keyer that prepends prefix to inner's keys. A nil
// inner means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// tokenScopePrefix starts every scope made by [NewTokenKeyer].
const tokenScopePrefix = "token:"

// NewTokenKeyer scopes keys to a GitHub token, so that private issues
// fetched with one token are never served from cache to a run with another
// token or none. The token itself is not stored, only a prefix of its hash.
// An empty token leaves inner unscoped.
func NewTokenKeyer(inner Keyer, token string) Keyer {
	if token == "" {
		if inner == nil {
			return NewDefaultKeyer()
		}
		return inner
	}
	return NewScopedKeyer(inner, tokenScopePrefix+Hash([]byte(token))[:16]+":")
}

// unscope strips a token scope from key.
func unscope(key string) string {
	rest, ok := strings.CutPrefix(key, tokenScopePrefix)
	if !ok {
		return key
	}
	if _, after, ok := strings.Cut(rest, ":"); ok {
		return after
	}
	return key
}

func (k *ScopedKeyer) HTTPKey(namespace, key string) string {
	return k.prefix + k.inner.HTTPKey(namespace, key)
}

func (k *ScopedKeyer) EpicKey(source string, ref EpicRef) string {
	return k.prefix + k.inner.EpicKey(source, ref)
}

func (k *ScopedKeyer) LayoutKey(epicHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(epicHash, opts)
}

func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}

var _ Keyer = (*ScopedKeyer)(nil)
