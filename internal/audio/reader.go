package audio

import (
	"errors"
	"io"
	"os"

	"github.com/bogem/id3v2"
	"github.com/dhowden/tag"
)

// Reader reads existing metadata from MP3 files.
//
// Album titles are read with dhowden/tag, which understands both ID3v2
// (TALB) and ID3v1 trailers. Every read first checks that the file holds
// an MPEG audio stream so truncated or mislabeled files are reported as
// unreadable instead of being grouped.
type Reader struct{}

// NewReader creates a new Reader.
func NewReader() *Reader {
	return &Reader{}
}

// ReadAlbum returns the file's album title, or "" when no tag is present.
func (r *Reader) ReadAlbum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := probeAudio(f); err != nil {
		return "", err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	m, err := tag.ReadFrom(f)
	if err != nil {
		if errors.Is(err, tag.ErrNoTagsFound) {
			return "", nil
		}
		// dhowden/tag rejects some UTF-16 text frames that id3v2 writes.
		if album, idErr := readID3Album(path); idErr == nil && album != "" {
			return album, nil
		}
		return "", err
	}

	return m.Album(), nil
}

func readID3Album(path string) (string, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Album/Movie/Show title"}})
	if err != nil {
		return "", err
	}
	defer t.Close()

	return t.Album(), nil
}

// Pictures returns every attached picture frame in the file's ID3v2 tag.
func (r *Reader) Pictures(path string) ([]id3v2.PictureFrame, error) {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true, ParseFrames: []string{"Attached picture"}})
	if err != nil {
		return nil, err
	}
	defer t.Close()

	var pics []id3v2.PictureFrame
	for _, f := range t.GetFrames(t.CommonID("Attached picture")) {
		if pic, ok := f.(id3v2.PictureFrame); ok {
			pics = append(pics, pic)
		}
	}
	return pics, nil
}
