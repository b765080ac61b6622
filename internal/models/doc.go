// Package models defines the listening-stats entities shared by the Spotify client, the formatter and the
// snapshot history.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): flattened views of Spotify API objects
//   - [Track] : a ranked top track with its artists and album
//   - [Artist] : a ranked top artist with genres and follower count
//
// 2. Persistent Entities: rows of the local history database
//   - [Snapshot] : one saved top-items query (kind, time range, limit)
//   - [SnapshotItem] : a ranked entry within a snapshot
//
// [Snapshot] implements the [Model] interface; [Repository] defines the storage operations for it.
package models
