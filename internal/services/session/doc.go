// Package session authenticates users and owns the resulting Session.
//
// A Session holds the identity, the bearer token and two derived views of the
// catalog: the user's favorites and the stories they own. It mediates every
// authenticated mutation:
//   - Favorites are server-owned. Adding or removing one replaces the local
//     list with the authoritative list in the response.
//   - Deletes and edits are applied locally by the caller through a
//     domain.Change, without refetching.
//
// Every mutation fails with domain.ErrUnauthenticated, without touching the
// network, when the session holds no token.
package session
