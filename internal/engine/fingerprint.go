package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/piwi3910/SlabQuote/internal/model"
)

// Fingerprint returns a stable key for a spec, suitable for caching
// calculated quotes. Identical specs always produce the same key;
// non-finite numbers are hashed as 0, matching how Calculate reads them.
func Fingerprint(spec model.QuoteSpec) string {
	data, err := json.Marshal(spec.Sanitized())
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
