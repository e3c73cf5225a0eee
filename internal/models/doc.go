// Package models defines the core domain models for the lunch picker.
//
// # Models
//
//   - User: Registered account; the rest of the system only reads its ID and display name
//   - Group: Lunch session aggregate owning Members, Announcements and Candidates
//   - Exclusion: Per-user "never suggest this venue again" marker
//   - Venue: Normalized nearby restaurant returned by venue discovery
//
// # Design Principles
//
//  1. **Aggregate owns its children**: Members, Announcements and Candidates have no
//     identity outside their Group and are persisted as part of the Group document
//  2. **Mutations report change**: aggregate methods return whether anything changed so
//     callers can skip the write entirely
//  3. **IDs as strings**: relationships use ID strings instead of pointers
//  4. **Optimistic concurrency**: Group.Version is checked and bumped by the store on
//     every write, so concurrent read-modify-write cycles never lose updates
package models
