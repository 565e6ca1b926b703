package store

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/text/unicode/norm"
)

// DomainEstimate prefixes estimate cache keys. The version suffix changes
// whenever the analyzer's rules change, invalidating older entries.
const DomainEstimate = "motion/estimate/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// SourceHash returns the estimate cache key for scene source of the given
// kind. The source is NFC-normalised first so that equivalent Unicode
// spellings of a text literal share a key.
func SourceHash(kind string, src []byte) string {
	data := make([]byte, 0, len(kind)+1+len(src))
	data = append(data, kind...)
	data = append(data, 0x00)
	data = append(data, norm.NFC.Bytes(src)...)
	return hashWithDomain(DomainEstimate, data)
}
