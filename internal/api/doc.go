// Package api provides the HTTP implementation of domain.StoryService and
// domain.AuthService against the Hack or Snooze v3 API.
//
// Supported operations include:
//   - Listing, creating, editing and deleting stories.
//   - Signing up, logging in and fetching or updating a user profile.
//   - Adding and removing favorites, which return the authoritative list.
//
// All requests are JSON over HTTP and accept a context for cancellation.
// Transport failures and 5xx statuses surface as domain.ErrRemoteUnavailable,
// undecodable success bodies as domain.ErrMalformedRecord, and every other
// non-2xx status is mapped per operation onto the domain error taxonomy.
// Nothing is retried.
package api
