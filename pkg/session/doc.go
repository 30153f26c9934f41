// Package session holds per-request session data and the stores that persist it.
//
// A client only ever sees a sealed client id ("s_" + uuid + ":" + unix millis).
// The server hashes that id with a salt ([StorageKey]) and uses the hash as the
// storage key, so a leaked store does not leak usable cookies.
//
// Stores implement two calls:
//
//	Load(ctx, key) (map[string]any, error)
//	Save(ctx, key, data, ttl) error
//
// Three implementations ship with the package:
//
//   - [MemoryStore]: process-wide map with TTL and LRU eviction, for local development
//   - [RedisStore]: JSON values with native expiry
//   - [PostgresStore]: a sessions table created by [Migrations]
//
// [Funcs] adapts plain functions when a deployment needs another backend.
//
// A malformed client id surfaces as [*BadSessionError], which matches
// [ErrBadSession] with errors.Is and maps to HTTP 400.
package session
