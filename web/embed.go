// Package web holds the embedded HTML templates so both binaries and
// the tests render pages without a working-directory dependency.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
