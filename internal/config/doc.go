// Package config defines the application configuration structure and loads it
// from environment variables and optional config files at startup. The loaded
// Config is immutable and passed by reference to the components that need it.
package config
