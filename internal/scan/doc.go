// Package scan enumerates a source tree into an immutable, sorted snapshot.
//
// The snapshot is complete before Scan returns, so its count can be
// reported before any entry is processed. Files matching an exclude
// pattern are omitted entirely.
package scan
