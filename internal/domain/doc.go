// Package domain defines the story and user models shared across the client
// and the contracts (interfaces) for the remote API and credential storage.
// It contains plain types, sentinel errors and pure collection helpers only;
// nothing in this package performs I/O.
package domain
