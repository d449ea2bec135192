package embed

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/handiism/cover-embedder/internal/audio"
	"github.com/handiism/cover-embedder/internal/config"
	ioutils "github.com/handiism/cover-embedder/internal/io"
	"github.com/handiism/cover-embedder/internal/model"
	"golang.org/x/sync/errgroup"
)

const (
	// lockRetryDelay is how often a busy file lock is retried.
	lockRetryDelay = 50 * time.Millisecond

	// lockSuffix names the sidecar lock file next to each audio file.
	lockSuffix = ".lock"
)

// CoverWriter writes one encoded cover into one audio file.
type CoverWriter interface {
	EmbedCover(path string, artwork []byte) error
}

// Request describes one album's embedding run.
type Request struct {
	// Folder holds the album's files.
	Folder string

	// ImagePath is the cover image to embed.
	ImagePath string

	// Album is the album name, used for the side-save folder and for
	// NamingAlbum.
	Album string

	// Files are filenames relative to Folder, in the order to process them.
	Files []string

	// Naming selects the side-saved example's filename.
	Naming model.NamingOption

	// Resize fits the cover to 240x240 before encoding.
	Resize bool

	// SaveExample writes a copy of the encoded cover under ExampleFolder.
	SaveExample   bool
	ExampleFolder string
}

// NewRequest fills a Request from settings for the selected album.
func NewRequest(settings *config.Settings, imagePath string, group model.AlbumGroup) Request {
	return Request{
		Folder:        settings.MP3Folder,
		ImagePath:     imagePath,
		Album:         group.Name,
		Files:         group.Files,
		Naming:        settings.Naming(),
		Resize:        settings.ResizeCover,
		SaveExample:   settings.AutoSaveEmbed,
		ExampleFolder: settings.EmbedFolder,
	}
}

// Embedder writes a cover image into every file of an album.
type Embedder struct {
	writer        CoverWriter
	imageService  *ioutils.ImageService
	maxConcurrent int

	onProgress model.ProgressFunc
}

// Option configures an Embedder.
type Option func(*Embedder)

// WithWriter replaces the audio.Tagger used to write files.
func WithWriter(w CoverWriter) Option {
	return func(e *Embedder) { e.writer = w }
}

// WithMaxConcurrent sets how many files may be written at once.
// Values below 1 are treated as 1.
func WithMaxConcurrent(n int) Option {
	return func(e *Embedder) { e.maxConcurrent = n }
}

// NewEmbedder creates an Embedder that reports through onProgress.
func NewEmbedder(onProgress model.ProgressFunc, opts ...Option) *Embedder {
	e := &Embedder{
		writer:        audio.NewTagger(),
		imageService:  ioutils.NewImageService(),
		maxConcurrent: 1,
		onProgress:    onProgress,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxConcurrent < 1 {
		e.maxConcurrent = 1
	}
	return e
}

// Embed writes req's cover into every file in req.Files.
//
// The cover is decoded, optionally fitted and encoded as JPEG exactly once
// before any file is touched; the same bytes go into every file. A file
// that fails is recorded in the report and the batch moves on. The
// returned error is non-nil only when the cover itself cannot be prepared
// or the example copy cannot be saved, in which case no file was modified.
func (e *Embedder) Embed(ctx context.Context, req Request) (*model.Report, error) {
	cover, err := e.imageService.PrepareCover(ctx, req.ImagePath, req.Resize)
	if err != nil {
		return nil, fmt.Errorf("prepare cover %s: %w", req.ImagePath, err)
	}

	report := &model.Report{Album: req.Album}

	if req.SaveExample {
		path, err := e.saveExample(ctx, req, cover)
		if err != nil {
			return nil, fmt.Errorf("save example image: %w", err)
		}
		report.ExamplePath = path
		e.progress(model.ProgressEvent{Message: fmt.Sprintf("Saved example image: %s", path), Level: model.LevelVerbose})
	}

	results := make([]error, len(req.Files))

	g := new(errgroup.Group)
	g.SetLimit(e.maxConcurrent)

	for i, name := range req.Files {
		if err := ctx.Err(); err != nil {
			results[i] = fmt.Errorf("%w: %v", model.ErrWriteFailure, err)
			continue
		}

		i, name := i, name
		g.Go(func() error {
			results[i] = e.embedFile(ctx, filepath.Join(req.Folder, name), cover)
			if results[i] != nil {
				e.progress(model.ProgressEvent{Message: fmt.Sprintf("Error updating %s: %v", name, results[i]), Level: model.LevelError, File: name})
			} else {
				e.progress(model.ProgressEvent{Message: fmt.Sprintf("Updated: %s", name), Level: model.LevelVerbose, File: name})
			}
			return nil // Continue with other files
		})
	}

	_ = g.Wait()

	for i, name := range req.Files {
		report.Add(name, results[i])
	}

	updated := len(report.Updated())
	if updated == len(req.Files) {
		e.progress(model.ProgressEvent{Message: fmt.Sprintf("Embedded cover into %d file(s) of %s", updated, req.Album), Level: model.LevelSuccess})
	} else {
		e.progress(model.ProgressEvent{Message: fmt.Sprintf("Finished %s, %d of %d file(s) failed", req.Album, len(req.Files)-updated, len(req.Files)), Level: model.LevelWarning})
	}

	return report, nil
}

// LockPath returns the sidecar lock file guarding writes to path.
//
// The audio file itself is not locked since the tag writer replaces it.
func LockPath(path string) string {
	return path + lockSuffix
}

// embedFile writes cover into one file while holding its sidecar lock.
func (e *Embedder) embedFile(ctx context.Context, path string, cover []byte) error {
	lockPath := LockPath(path)
	lock := flock.New(lockPath)
	locked, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("%w: lock %s: %v", model.ErrWriteFailure, lockPath, err)
	}
	if !locked {
		return fmt.Errorf("%w: %s is locked", model.ErrWriteFailure, path)
	}
	defer func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}()

	if err := e.writer.EmbedCover(path, cover); err != nil {
		return fmt.Errorf("%w: %v", model.ErrWriteFailure, err)
	}
	return nil
}

// saveExample writes the encoded cover to the album's side-save folder.
func (e *Embedder) saveExample(ctx context.Context, req Request, cover []byte) (string, error) {
	stem := ioutils.ImageStem(req.ImagePath)
	if req.Naming == model.NamingAlbum {
		stem = req.Album
	}

	path := ioutils.ExamplePath(req.ExampleFolder, req.Album, stem)
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return "", err
	}
	if err := ioutils.WriteFile(ctx, path, cover); err != nil {
		return "", err
	}
	return path, nil
}

func (e *Embedder) progress(event model.ProgressEvent) {
	e.onProgress.Emit(event)
}
