// Package migrations embebe las migraciones SQL de goose del esquema de credenciales.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
