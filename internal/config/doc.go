// Package config provides configuration management for cover-embedder.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Environment overrides (optionally from a .env file)
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Scans ~/Music
//	// Saves an example copy of each embedded cover
//	// Resizes covers to 240x240
//
// # Loading from File
//
//	settings, err := config.Load(config.DefaultPath())
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.ShowCorruptWarning = false
//	err := settings.Save(config.DefaultPath())
//
// # Environment
//
// ApplyEnv overrides the folders and the side-save switch from
// COVER_EMBEDDER_MP3_FOLDER, COVER_EMBEDDER_EMBED_FOLDER and
// COVER_EMBEDDER_AUTO_SAVE.
package config
