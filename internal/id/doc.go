// Package id provides identifier generation utilities.
//
//   - UUID: random RFC 4122 v4 identifiers
//   - Short: 16-character hex ids for uploads and tokens
//   - Digits: fixed-width numeric ids such as the 6-digit patient ids
//   - Sequence: monotonic decimal ids ("1", "2", ...) for in-memory
//     collections
//
// Random ids use crypto/rand.
package id
