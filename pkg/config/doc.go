// Package config defines the service configuration and its loading
// pipeline.
//
// Configuration comes from a YAML file. Loading applies defaults,
// optionally overlays CERES_SECTION_FIELD environment variables, and
// validates the result; an invalid configuration is rejected at
// startup rather than discovered mid-request.
package config
