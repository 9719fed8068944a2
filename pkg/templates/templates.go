// Package templates provides embedded YAML configuration templates.
package templates

import _ "embed"

// ConfigYAML contains the default pxtract.yaml template for application
// configuration.
//
//go:embed config.yaml
var ConfigYAML string

// MappingYAML contains a commented starter mapping file declaring data
// sources and their table contexts.
//
//go:embed mapping.yaml
var MappingYAML string
