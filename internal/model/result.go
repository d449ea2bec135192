package model

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableTag marks a file whose metadata container or audio
	// stream could not be parsed.
	ErrUnreadableTag = errors.New("unreadable tag")

	// ErrWriteFailure marks a file whose tag could not be saved.
	ErrWriteFailure = errors.New("write failure")

	// ErrNoSelection is returned by front ends when the user picks nothing.
	ErrNoSelection = errors.New("no selection made")
)

// NamingOption selects how the side-saved example image is named.
type NamingOption int

const (
	// NamingImage names the example after the cover image's filename.
	NamingImage NamingOption = 1

	// NamingAlbum names the example after the album.
	NamingAlbum NamingOption = 2
)

// ParseNamingOption converts the numeric option shown to users.
func ParseNamingOption(n int) (NamingOption, error) {
	switch NamingOption(n) {
	case NamingImage, NamingAlbum:
		return NamingOption(n), nil
	default:
		return 0, fmt.Errorf("invalid naming option %d (want 1 or 2)", n)
	}
}

// String returns the user-facing label.
func (o NamingOption) String() string {
	switch o {
	case NamingImage:
		return "image name"
	case NamingAlbum:
		return "album name"
	default:
		return fmt.Sprintf("NamingOption(%d)", int(o))
	}
}

// FileResult is the outcome for one file in a batch.
type FileResult struct {
	Name string
	Err  error
}

// OK reports whether the file was processed successfully.
func (r FileResult) OK() bool {
	return r.Err == nil
}

// Report collects the per-file outcomes of embedding one album.
type Report struct {
	// Album is the album name the batch was run for.
	Album string

	// Results holds one entry per requested file, in request order.
	Results []FileResult

	// ExamplePath is the side-saved copy of the embedded image.
	// Empty when side-saving was disabled.
	ExamplePath string
}

// Add records the outcome for one file.
func (r *Report) Add(name string, err error) {
	r.Results = append(r.Results, FileResult{Name: name, Err: err})
}

// Updated returns the names of files that were saved, in request order.
func (r *Report) Updated() []string {
	var names []string
	for _, res := range r.Results {
		if res.OK() {
			names = append(names, res.Name)
		}
	}
	return names
}

// Failed returns the results that carry an error, in request order.
func (r *Report) Failed() []FileResult {
	var failed []FileResult
	for _, res := range r.Results {
		if !res.OK() {
			failed = append(failed, res)
		}
	}
	return failed
}
