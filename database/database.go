// Package database holds the versioned SQL migrations of the question database.
package database

import "embed"

// Migrations contains migrations/NNNNNN_name.{up,down}.sql in golang-migrate layout.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory inside Migrations holding the files.
const MigrationsDir = "migrations"
