// Package auth handles account credentials and request authentication.
//
// Passwords are hashed with bcrypt before storage. Sessions are HS256 JWTs
// carrying the user ID in the "sub" claim, issued at login and verified by
// the HTTP middleware, which resolves the user from the store and attaches
// it to the request context.
package auth
