package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/handiism/cover-embedder/internal/model"
	"github.com/joho/godotenv"
)

// AppName names the per-user configuration directory.
const AppName = "cover-embedder"

// Environment variables that override values from the settings file.
const (
	EnvMP3Folder   = "COVER_EMBEDDER_MP3_FOLDER"
	EnvEmbedFolder = "COVER_EMBEDDER_EMBED_FOLDER"
	EnvAutoSave    = "COVER_EMBEDDER_AUTO_SAVE"
)

// Settings holds all configuration options.
type Settings struct {
	// Folder settings
	MP3Folder   string `json:"mp3_folder"`
	EmbedFolder string `json:"embed_folder"`

	// Embed settings
	AutoSaveEmbed       bool `json:"auto_save_embed"`
	ResizeCover         bool `json:"resize_cover"`
	NamingOption        int  `json:"naming_option"` // 1: image name, 2: album name
	MaxConcurrentWrites int  `json:"max_concurrent_writes"`

	// Warnings
	ShowCorruptWarning bool `json:"show_corrupt_warning"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		MP3Folder:   filepath.Join(homeDir, "Music"),
		EmbedFolder: filepath.Join(configDir(), "MP3AlbumCoverEmbedderEmbeds"),

		AutoSaveEmbed:       true,
		ResizeCover:         true,
		NamingOption:        int(model.NamingAlbum),
		MaxConcurrentWrites: 1,

		ShowCorruptWarning: true,
	}
}

// DefaultPath returns the settings file location,
// <user config dir>/cover-embedder/settings.json.
func DefaultPath() string {
	return filepath.Join(configDir(), "settings.json")
}

func configDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, AppName)
}

// Load reads settings from a JSON file.
//
// A missing file is not an error: defaults are returned instead.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Validate checks option ranges.
func (s *Settings) Validate() error {
	if _, err := model.ParseNamingOption(s.NamingOption); err != nil {
		return err
	}
	if s.MaxConcurrentWrites < 1 {
		return fmt.Errorf("max_concurrent_writes must be at least 1, got %d", s.MaxConcurrentWrites)
	}
	return nil
}

// ApplyEnv loads a .env file from the working directory, if there is one,
// and overrides folder and side-save settings from the environment.
func (s *Settings) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}

	if v := os.Getenv(EnvMP3Folder); v != "" {
		s.MP3Folder = v
	}
	if v := os.Getenv(EnvEmbedFolder); v != "" {
		s.EmbedFolder = v
	}
	if v := os.Getenv(EnvAutoSave); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAutoSave, err)
		}
		s.AutoSaveEmbed = b
	}
	return nil
}

// Naming returns NamingOption as a model.NamingOption.
func (s *Settings) Naming() model.NamingOption {
	opt, err := model.ParseNamingOption(s.NamingOption)
	if err != nil {
		return model.NamingAlbum
	}
	return opt
}

// Keys lists the JSON keys accepted by Set, in display order.
func Keys() []string {
	return []string{
		"mp3_folder",
		"embed_folder",
		"auto_save_embed",
		"resize_cover",
		"naming_option",
		"max_concurrent_writes",
		"show_corrupt_warning",
	}
}

// Get returns the value of key formatted for display.
func (s *Settings) Get(key string) (string, error) {
	switch key {
	case "mp3_folder":
		return s.MP3Folder, nil
	case "embed_folder":
		return s.EmbedFolder, nil
	case "auto_save_embed":
		return strconv.FormatBool(s.AutoSaveEmbed), nil
	case "resize_cover":
		return strconv.FormatBool(s.ResizeCover), nil
	case "naming_option":
		return strconv.Itoa(s.NamingOption), nil
	case "max_concurrent_writes":
		return strconv.Itoa(s.MaxConcurrentWrites), nil
	case "show_corrupt_warning":
		return strconv.FormatBool(s.ShowCorruptWarning), nil
	}
	return "", fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
}

// Set parses value and assigns it to key.
func (s *Settings) Set(key, value string) error {
	var err error
	switch key {
	case "mp3_folder":
		s.MP3Folder = value
	case "embed_folder":
		s.EmbedFolder = value
	case "auto_save_embed":
		s.AutoSaveEmbed, err = strconv.ParseBool(value)
	case "resize_cover":
		s.ResizeCover, err = strconv.ParseBool(value)
	case "naming_option":
		s.NamingOption, err = strconv.Atoi(value)
	case "max_concurrent_writes":
		s.MaxConcurrentWrites, err = strconv.Atoi(value)
	case "show_corrupt_warning":
		s.ShowCorruptWarning, err = strconv.ParseBool(value)
	default:
		return fmt.Errorf("unknown setting %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return s.Validate()
}
