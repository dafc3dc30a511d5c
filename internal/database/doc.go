// Package database owns the relational storage connection and the domain
// error taxonomy shared by the per-entity repositories.
//
// The same repository code runs against two interchangeable relational
// backends: sqlite (default) and postgres, selected by configuration. All
// referential invariants (slug uniqueness, deletion guards, counter and
// rating aggregates) are enforced here, not left to the storage engine.
//
// Per-entity repositories live in subpackages:
//
//	users, categories, authors, series, books, favorites, history,
//	comments, settings
package database
