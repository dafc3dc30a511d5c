// Package auth implements cookie-session authentication: registration,
// login, session management backed by the database, and the Gin
// middleware that gates authenticated and admin-only routes.
package auth
