package crypto

import (
	"encoding/hex"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/LeJamon/goRippled/internal/metrics"
)

// CachingVerifier remembers verification outcomes so that a transaction seen
// twice (for instance once when pre-checked and once when applied) is only
// verified once.
type CachingVerifier struct {
	next  Verifier
	cache *cache.Cache

	// Metrics, when set, counts lookups and hits.
	Metrics *metrics.Metrics
}

// NewCachingVerifier wraps next with a cache whose entries expire after ttl.
func NewCachingVerifier(next Verifier, ttl time.Duration) *CachingVerifier {
	return &CachingVerifier{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CachingVerifier) Verify(msg, pubKey, sig []byte) bool {
	digest := Sha512Half(pubKey, []byte{byte(len(sig))}, sig, msg)
	key := hex.EncodeToString(digest[:])

	v, hit := c.cache.Get(key)
	c.Metrics.SignatureLookup(hit)
	if hit {
		return v.(bool)
	}

	ok := c.next.Verify(msg, pubKey, sig)
	c.cache.Set(key, ok, cache.DefaultExpiration)
	return ok
}

// Flush drops every cached outcome.
func (c *CachingVerifier) Flush() {
	c.cache.Flush()
}
