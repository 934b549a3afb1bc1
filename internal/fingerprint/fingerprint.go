// Package fingerprint computes the content digest used for change detection.
//
// The digest is a pure function of the measure values: two identical tuples
// always hash the same across runs and restarts, and any single value
// difference changes the result. It is an equality check within one dataset,
// not a security primitive.
package fingerprint

import (
	"crypto/md5"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Length is the fixed width of a computed fingerprint in hex characters.
const Length = 16

// Compute digests an ordered tuple of measure values. Values are joined in
// their canonical decimal string form, so 10, 10.0 and 10.00 all hash
// identically. The zero Decimal renders as "0", which is how missing source
// values are represented after normalization.
func Compute(values ...decimal.Decimal) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = v.String()
	}
	sum := md5.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:Length]
}
