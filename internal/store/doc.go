// Package store persists the credentials (token and username) a session is
// restored from between runs.
//
// All stores implement domain.CredentialStore and are scoped to one API base
// URL, so switching deployments never reuses a token issued by another.
//
//   - FileStore keeps a JSON map under the home directory, sealed with a
//     passphrase (scrypt + ChaCha20-Poly1305) when one is configured.
//   - RedisStore keeps a hash per base URL with an optional TTL.
//   - MemoryStore keeps nothing beyond the process.
package store
