// Package testsupport builds MP3 and image fixtures for tests.
package testsupport

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
)

// frameHeader is an MPEG-1 Layer III, 128 kbit/s, 44.1 kHz frame header.
var frameHeader = []byte{0xFF, 0xFB, 0x90, 0x64}

// frameSize is the length of one such frame including its header.
const frameSize = 417

// MP3Option customizes a generated MP3 file.
type MP3Option func(*id3v2.Tag)

// WithAlbum sets the TALB frame.
func WithAlbum(album string) MP3Option {
	return func(t *id3v2.Tag) { t.SetAlbum(album) }
}

// WithTitle sets the TIT2 frame.
func WithTitle(title string) MP3Option {
	return func(t *id3v2.Tag) { t.SetTitle(title) }
}

// WithUTF16Album sets the TALB frame in UTF-16 with a BOM under the given
// ID3v2 major version.
func WithUTF16Album(album string, version byte) MP3Option {
	return func(t *id3v2.Tag) {
		t.SetVersion(version)
		t.AddTextFrame(t.CommonID("Album/Movie/Show title"), id3v2.EncodingUTF16, album)
	}
}

// WithPicture adds an attached picture frame.
func WithPicture(description string, data []byte) MP3Option {
	return func(t *id3v2.Tag) {
		t.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    "image/png",
			PictureType: id3v2.PTOther,
			Description: description,
			Picture:     data,
		})
	}
}

// AudioFrames returns n silent MPEG frames.
func AudioFrames(n int) []byte {
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		buf.Write(frameHeader)
		buf.Write(make([]byte, frameSize-len(frameHeader)))
	}
	return buf.Bytes()
}

// WriteMP3 creates dir/name holding a few audio frames and, when options
// are given, an ID3v2 tag built from them. It returns the full path.
func WriteMP3(t testing.TB, dir, name string, opts ...MP3Option) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, AudioFrames(4), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}

	if len(opts) == 0 {
		return path
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		t.Fatalf("open tag %s: %v", path, err)
	}
	defer tag.Close()

	for _, opt := range opts {
		opt(tag)
	}
	if err := tag.Save(); err != nil {
		t.Fatalf("save tag %s: %v", path, err)
	}
	return path
}

// WriteGarbage creates dir/name with content that is not an MP3 stream.
func WriteGarbage(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	data := bytes.Repeat([]byte("definitely not audio "), 64)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WritePNG creates dir/name as a width×height PNG. The left half is red,
// the right half blue, and the top row is fully transparent.
func WritePNG(t testing.TB, dir, name string, width, height int) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.NRGBA{R: 0xff, A: 0xff}
			if x >= width/2 {
				c = color.NRGBA{B: 0xff, A: 0xff}
			}
			if y == 0 {
				c.A = 0
			}
			img.SetNRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
