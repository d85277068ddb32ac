// Package scaffold provides embedded template files for the folio CLI
// project scaffolding tool.
package scaffold

import "embed"

// Templates contains all scaffold template files.
// Files use Go text/template syntax with [[ ]] delimiters so Markdown and
// MDX braces pass through; the .tmpl suffix is stripped on output.
//
//go:embed all:templates
var Templates embed.FS
