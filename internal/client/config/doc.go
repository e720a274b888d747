// Package config loads settings for the CryptoPass client binaries.
//
// Values come from defaults, then an optional JSON or TOML file selected
// with -c / -config, then command-line flags. Later sources win.
package config
