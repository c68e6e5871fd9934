package db

import "embed"

// Migrations holds the goose migrations, one directory per driver.
//
//go:embed migrations
var Migrations embed.FS
