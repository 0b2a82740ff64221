// Package config provides centralized configuration management for the panel
// preparation pipeline. It handles loading configuration from multiple
// sources, validation, and the fixed survey layout the pipeline operates on.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml / configs/config.yaml
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern PANEL_* for namespacing:
//
//	PANEL_LOGGING_LEVEL=debug
//	PANEL_LOGGING_FORMAT=text
//	PANEL_PIPELINE_EXPECTED_PARTICIPANTS=1200
//	PANEL_PIPELINE_RESHAPE_WAVE=1
//	PANEL_PIPELINE_TRACE_ENABLED=true
//
// # Path Management
//
// The package provides centralized path management through the Paths type,
// which resolves all file system paths relative to the executable location:
//
//	paths, err := config.GetPaths()
//	input := paths.RawExportCSV
//	output := paths.PanelCSV
//
// # Survey Layout
//
// The fixed layout (baseline variables, the emotion battery, the vote-choice
// recode table, and the variable catalog with valid ranges and sentinel
// codes) lives in layout.go. All configuration is validated at load time.
package config
