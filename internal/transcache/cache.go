// Package transcache is the translation cache collaborator: an append-only
// key/value store consulted at the read boundary when a client asks for a
// language code the stored bilingual value does not carry. A miss is never
// an error; callers fall back to i18n resolution.
package transcache

import "context"

// Cache is an append-only key->value contract. There is no delete and no
// eviction API; the Redis backend may expire entries via TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Key builds the canonical cache key for a translation lookup.
func Key(lang, source string) string {
	return "tr:" + lang + ":" + source
}
