// Package migrations contains all database migration files.
// Each migration file uses init() to call migration.Register(), and the
// package is imported by cmd/autorevenda so every migration is known at
// CLI startup.
package migrations
