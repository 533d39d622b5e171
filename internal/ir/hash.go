package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints.
// The version suffix leaves room for algorithm migration.
const (
	DomainConfigure = "pubtest/configure/v1"
	DomainRead      = "pubtest/read/v1"
	DomainResult    = "pubtest/result/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint returns the content-addressed identity of obj under domain.
// Equal objects always produce equal fingerprints, regardless of map order.
func Fingerprint(domain string, obj Object) (string, error) {
	if obj == nil {
		obj = Object{}
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", domain, err)
	}
	return hashWithDomain(domain, canonical), nil
}

// MustFingerprint is like Fingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustFingerprint(domain string, obj Object) string {
	fp, err := Fingerprint(domain, obj)
	if err != nil {
		panic(err)
	}
	return fp
}
