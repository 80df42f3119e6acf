// Package config provides configuration utilities for the application.
package config

import "github.com/spf13/viper"

// defaultDatabasePath is used when no database path is configured.
const defaultDatabasePath = "$HOME/.local/share/fieldpaper/fieldpaper.db"

// DatabasePath resolves the configured SQLite database path, falling back to
// the default location, with ~ and environment variables expanded.
func DatabasePath() string {
	path := viper.GetString("database.path")
	if path == "" {
		path = defaultDatabasePath
	}
	return ExpandPath(path)
}
