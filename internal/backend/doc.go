// Package backend is an in-memory implementation of the Hack or Snooze v3 HTTP
// API, used for local development and end-to-end tests.
//
// HTTP API
//
//	GET    /stories[?skip=N&limit=N]        list stories, newest first
//	POST   /stories                         {token, story} create a story
//	PATCH  /stories/{storyId}               {token, story} edit own story
//	DELETE /stories/{storyId}               {token} delete own story
//	POST   /signup                          {user:{username,password,name}}
//	POST   /login                           {user:{username,password}}
//	GET    /users/{username}?token=T        profile with favorites and stories
//	PATCH  /users/{username}                {token, user:{name?,password?}}
//	POST   /users/{username}/favorites/{id} {token} add favorite
//	DELETE /users/{username}/favorites/{id} {token} remove favorite
//
// Behaviour
//
//   - All state is held in memory and lost on process exit.
//   - Passwords are stored as bcrypt hashes. Tokens and story ids are UUIDs.
//   - Errors are JSON {"error":{"status","title","message"}}.
//   - Deleting a story removes it from every user's favorites.
//   - Only the owner of a story may edit or delete it (403 otherwise).
package backend
