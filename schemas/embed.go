// Package schemas holds the JSON Schema documents used to validate provider
// responses, keyword catalogs and fixture files.
package schemas

import "embed"

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
