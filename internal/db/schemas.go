package db

import "embed"

// sqlSchemas holds the journal migrations.
//
//go:embed migrations/*.sql
var sqlSchemas embed.FS
