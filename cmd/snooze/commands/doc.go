// Package commands defines the snooze CLI and wires dependencies for subcommands.
//
// Commands
//
//   - stories     List the newest stories, marking favorites and your own
//   - signup      Create an account and log in
//   - login       Log in and remember the session
//   - logout      Forget the stored session
//   - whoami      Show the current user
//   - profile     Change your display name or password
//   - submit      Post a new story
//   - edit        Change the author, title or url of one of your stories
//   - delete      Delete one of your stories
//   - favorite    Add a story to your favorites
//   - unfavorite  Remove a story from your favorites
//   - star        Toggle a story in your favorites
//   - favorites   List your favorites
//   - mine        List your own stories
//
// # Implementation
//
// The root command loads configuration and builds the dependency graph
// (credential store, API client, services and app state) before any
// subcommand runs. Each invocation performs one user action, so mutations are
// serialized by construction. The session is restored from stored
// credentials at the start of every command that needs it.
package commands
