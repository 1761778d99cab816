// Package stateful provides the in-memory record collections behind the
// catalog endpoints.
//
// A Collection stores JSON objects keyed by string id. Created records get
// monotonic numeric ids ("1", "2", ...) that are never reused, even after a
// delete. Replace is an upsert and Patch creates an empty record before
// merging, matching the lenient behavior test clients expect.
//
// StateStore is the registry of named collections, one per catalog.
//
// All operations are safe for concurrent use. Records handed in and out are
// shallow copies, so callers cannot mutate stored state by accident.
package stateful
