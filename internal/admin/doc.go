// Package admin implements the administrative surface: listing accounts,
// promoting accounts to the admin role, and curating FAQ entries. Callers
// are expected to enforce the admin role before reaching this package.
package admin
