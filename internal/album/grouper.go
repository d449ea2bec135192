package album

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/handiism/cover-embedder/internal/audio"
	"github.com/handiism/cover-embedder/internal/model"
)

// AudioExtension is the file extension scanned for, compared case-insensitively.
const AudioExtension = ".mp3"

// TagReader looks up the album title stored in an audio file.
//
// It returns "" with a nil error when the file is readable but untagged.
type TagReader interface {
	ReadAlbum(path string) (string, error)
}

// Grouper scans a folder and groups its audio files by album.
type Grouper struct {
	reader     TagReader
	onProgress model.ProgressFunc
}

// NewGrouper creates a Grouper. A nil reader falls back to audio.NewReader.
func NewGrouper(reader TagReader, onProgress model.ProgressFunc) *Grouper {
	if reader == nil {
		reader = audio.NewReader()
	}
	return &Grouper{reader: reader, onProgress: onProgress}
}

// Scan groups every readable audio file in dir by album name.
//
// Files with a non-empty album tag are grouped under that tag verbatim;
// untagged files are grouped under DefaultName of their filename. Files
// that cannot be read are listed in ScanResult.Corrupted and skipped, they
// never abort the scan. Album and file order follow the directory listing.
//
// An empty folder is not an error: the returned Albums is simply empty.
func (g *Grouper) Scan(ctx context.Context, dir string) (*model.ScanResult, error) {
	files, err := ListAudioFiles(dir)
	if err != nil {
		return nil, err
	}

	result := &model.ScanResult{
		Folder:     dir,
		Albums:     model.NewAlbums(),
		AudioFiles: len(files),
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		album, err := g.reader.ReadAlbum(filepath.Join(dir, name))
		if err != nil {
			result.Corrupted = append(result.Corrupted, model.FileResult{
				Name: name,
				Err:  fmt.Errorf("%w: %s: %v", model.ErrUnreadableTag, name, err),
			})
			g.onProgress.Emit(model.ProgressEvent{Message: fmt.Sprintf("Unreadable: %s (%v)", name, err), Level: model.LevelWarning})
			continue
		}

		if album == "" {
			album = DefaultName(name)
			g.onProgress.Emit(model.ProgressEvent{Message: fmt.Sprintf("%s: no album tag, using %q", name, album), Level: model.LevelVerbose})
		}

		result.Albums.Add(album, name)
	}

	g.onProgress.Emit(model.ProgressEvent{
		Message: fmt.Sprintf("Found %d album(s) in %d file(s), %d unreadable", result.Albums.Len(), len(files), len(result.Corrupted)),
		Level:   model.LevelInfo,
	})

	return result, nil
}

// ListAudioFiles returns the names of regular files in dir whose extension
// is AudioExtension, in directory order.
func ListAudioFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), AudioExtension) {
			files = append(files, e.Name())
		}
	}
	return files, nil
}

// Fallback builds one single-file album per file, named with FallbackName.
//
// Callers use it when a folder holds audio files but Scan produced no
// albums, so there is still something to choose from.
func Fallback(files []string) *model.Albums {
	albums := model.NewAlbums()
	for _, f := range files {
		albums.Add(FallbackName(f), f)
	}
	return albums
}
