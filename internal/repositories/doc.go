// Package repositories implements SQLite persistence for saved listening snapshots.
//
// Key Implementations:
//   - [SnapshotRepository] : top-tracks and top-artists results with their ranked items
//
// A snapshot and its items are written in one transaction; deleting a snapshot cascades to its items.
// IDs are UUIDs generated with [shared.GenerateID].
package repositories
