// Package schemas holds the JSON Schema documents shipped with the binary.
package schemas

import _ "embed"

// CVExport is the schema of the JSON envelope written by the export and
// accepted by the import.
//
//go:embed cv_export.schema.json
var CVExport string
