// Package app wires configuration, stores, the API client and services into
// a State: the explicit owner of the catalog and the current session.
//
// Every operation that touches more than one collection goes through
// State.Reconcile with a single domain.Change, so catalog, own stories and
// favorites never disagree about a story after a call returns.
package app
