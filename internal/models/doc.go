// Package models defines domain entities for the ScienceHub archive client.
//
// The package contains two categories of types:
//
// 1. Backend entities, read from the REST API and never mutated locally:
//   - [Book] : Archive record with category, difficulty and asset paths
//   - [Category] : Book category
//   - [User] : Authenticated identity with a [Role]
//   - [Favorite] : A user's saved book
//
// 2. Client state:
//   - [Session] : The current identity and bearer credential. Session.Validate
//     enforces the invariant that a token is held iff a user is set.
//
// [FilterBooks] implements the client-side narrowing of an already-fetched
// book list (query, category, difficulty, language) shared by the CLI and TUI.
package models
