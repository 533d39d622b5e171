// Package ir defines the constrained value model carried by publisher
// requests and results.
//
// Configuration options, read parameters and read results are all expressed
// as ir values so that snapshots can be cloned, compared and serialized
// deterministically. ir imports nothing internal.
//
// Key design constraints:
//   - NO float types. Numbers are int64.
//   - Null exists only as a decoded placeholder; canonical JSON rejects it.
//   - Object keys serialize in RFC 8785 order (UTF-16 code units).
//   - Strings are NFC normalized at the canonical serialization boundary.
package ir
