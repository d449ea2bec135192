package ioutils

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	invalidChars   = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	trailingDots   = regexp.MustCompile(`\.+$`)
	repeatedSpaces = regexp.MustCompile(`\s+`)
)

// ExampleSuffix is appended to the stem of every side-saved example image.
const ExampleSuffix = "_embed_example.jpg"

// WriteFile writes data to a file, creating it if necessary.
//
// The file is created with mode 0644. If the file already exists,
// it is truncated before writing.
//
// Example:
//
//	err := WriteFile(ctx, "/embeds/abbey road_image/cover_embed_example.jpg", jpegBytes)
func WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// SanitizeFileName removes or replaces characters that are invalid in file/folder names.
//
// The following transformations are applied:
//   - Invalid characters (<>:"/\|?* and control chars 0x00-0x1f) → underscore
//   - Trailing dots → removed (Windows limitation)
//   - Multiple whitespace → single space
//   - Leading and trailing whitespace → removed
//
// Example:
//
//	SanitizeFileName("Song: Part 1/2")     // Returns "Song_ Part 1_2"
//	SanitizeFileName("Track...")           // Returns "Track"
//	SanitizeFileName("Name   with  spaces") // Returns "Name with spaces"
func SanitizeFileName(name string) string {
	name = invalidChars.ReplaceAllString(name, "_")
	name = trailingDots.ReplaceAllString(name, "")
	name = repeatedSpaces.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// EnsureDir creates a directory and all parent directories if they don't exist.
//
// Directories are created with mode 0755 (rwxr-xr-x).
// If the directory already exists, no error is returned.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// ImageStem returns the base name of path up to its first dot.
//
//	ImageStem("/covers/front.cover.png") // Returns "front"
func ImageStem(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "."); i >= 0 {
		return base[:i]
	}
	return base
}

// ExampleDir returns the folder that holds side-saved images for an album:
// <embedFolder>/<lowercased album>_image.
func ExampleDir(embedFolder, album string) string {
	return filepath.Join(embedFolder, SanitizeFileName(strings.ToLower(album))+"_image")
}

// ExamplePath returns <ExampleDir>/<stem>_embed_example.jpg.
//
// The stem is sanitized. Paths that would exceed the Windows MAX_PATH limit
// have their stem shortened.
func ExamplePath(embedFolder, album, stem string) string {
	dir := ExampleDir(embedFolder, album)
	stem = SanitizeFileName(stem)
	path := filepath.Join(dir, stem+ExampleSuffix)

	if len(path) >= 260 {
		maxLen := 259 - len(filepath.Join(dir, ExampleSuffix))
		if maxLen > 0 && maxLen < len(stem) {
			path = filepath.Join(dir, strings.ToValidUTF8(stem[:maxLen], "")+ExampleSuffix)
		}
	}

	return path
}
