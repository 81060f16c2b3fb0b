// Package config holds the TOML settings file and its mapping onto download
// options. Settings are what the user writes down; download.Options is what
// the pipeline consumes. The translation validates the enumerated fields
// (format, folder structure) so a bad settings file fails before any track
// starts.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/rosenkrans/trackrip/internal/download"
	"github.com/rosenkrans/trackrip/internal/encoder"
	"github.com/rosenkrans/trackrip/internal/model"
)

// Settings are the persistent configuration options.
type Settings struct {
	// Destination is the root of the download tree.
	Destination string `toml:"destination"`

	// Parallel bounds concurrent track downloads.
	Parallel int `toml:"parallel"`

	// Format is the target audio format: wav, mp3 or flac.
	Format string `toml:"format"`

	// FolderStructure is "flat" or "album", case-insensitive.
	FolderStructure string `toml:"folder_structure"`

	// Compression is the FLAC compression level; -1 uses the encoder
	// default.
	Compression int `toml:"compression"`

	// Playlist writes an M3U playlist of each completed batch.
	Playlist bool `toml:"playlist"`

	// RateLimit bounds remote requests per second. Zero disables it.
	RateLimit float64 `toml:"rate_limit"`
}

// Default returns the settings used when no file exists.
func Default() *Settings {
	return &Settings{
		Destination:     ".",
		Parallel:        5,
		Format:          "flac",
		FolderStructure: "album",
		Compression:     encoder.DefaultCompression,
		Playlist:        false,
		RateLimit:       0,
	}
}

// Load reads settings from a TOML file. A missing file yields defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	settings := Default()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings: %w", err)
	}
	return settings, nil
}

// Save writes settings as TOML.
func (s *Settings) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(s); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// ToOptions validates the enumerated fields and converts the settings to
// download options.
func (s *Settings) ToOptions() (download.Options, error) {
	format, err := encoder.ParseFormat(s.Format)
	if err != nil {
		return download.Options{}, err
	}
	structure, err := model.ParseFolderStructure(s.FolderStructure)
	if err != nil {
		return download.Options{}, err
	}
	return download.Options{
		Destination: s.Destination,
		Compression: s.Compression,
		Parallel:    s.Parallel,
		Format:      format,
		Structure:   structure,
		Playlist:    s.Playlist,
	}, nil
}
