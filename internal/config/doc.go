// Package config loads gprfilter configuration.
//
// Values are layered, later sources winning:
//
//	1. Default()
//	2. a YAML file named by GPR_CONFIG, or gprfilter.yaml in the working directory
//	3. GPR_* environment variables
//
// Environment variables follow the struct nesting:
//
//	GPR_LOGGING_LEVEL=debug
//	GPR_PROCESSING_WORKERS=8
//	GPR_PROCESSING_DEFAULT_RECIPES=gc,mult 3.5,engc
//	GPR_TELEMETRY_ENABLED=true
//
// The merged configuration is validated with struct tags before it is returned.
package config
