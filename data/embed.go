package data

import (
	"embed"
)

//go:embed initdb/mariadb/001-ddl-tables.sql
var InitdbMariaDBTables string

//go:embed initdb/mariadb/002-ddl-drop.sql
var InitdbMariaDBDrop string

//go:embed static/img/placeholder.svg
var PlaceholderSVG []byte

// Templates holds the server rendered views
//
//go:embed templates/*.html
var Templates embed.FS
