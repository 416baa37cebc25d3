// Command storyd runs an in-memory Hack or Snooze API for local development
// and tests. Point the CLI at it with `snooze --api http://localhost:3000`.
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - The listen address comes from --listen, SNOOZE_SERVER_LISTEN or the
//     config file, defaulting to :3000.
//   - Prometheus metrics are served on /metrics and a liveness probe on
//     /healthz.
//   - SIGINT or SIGTERM triggers a graceful shutdown bounded by
//     server.shutdown_timeout.
//
// See package backend for the HTTP API.
package main
