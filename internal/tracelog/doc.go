// Package tracelog records delivery routing decisions for diagnostics.
//
// A DeliveryTraceRecord is written once at observation time and never
// mutated. The Recorder keeps the newest 250 records in an injected Store;
// hosts swap the store implementation without touching callers:
//
//   - MemoryStore for tests and ephemeral contexts
//   - FileStore for origin-scoped browser-style persistence
//   - SQLiteStore for the server-side diagnostics tool
//
// Trace data is diagnostic, not authoritative. Storage failures are
// swallowed at every boundary: reads degrade to empty, writes silently
// drop, malformed persisted data is treated as empty. Concurrent writers
// are last-write-wins; occasional lost entries under race are tolerated.
package tracelog
