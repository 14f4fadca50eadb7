// Package migrations embeds the resource service schema for goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
