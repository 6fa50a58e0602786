// Package config loads the inlay.json project configuration.
//
// Configuration is optional: a missing file yields the defaults. An invalid
// file is an error so a typo never silently disables analysis.
package config
