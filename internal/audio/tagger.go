package audio

import (
	"fmt"

	"github.com/bogem/id3v2"
)

// CoverMIMEType is the MIME type written to every embedded picture.
const CoverMIMEType = "image/jpeg"

// Tagger writes cover art into the ID3v2 tag of MP3 files.
//
// Each call replaces the whole set of attached pictures with exactly one
// front cover, so a file never carries more than one embedded image.
// All other frames are preserved as they were.
//
// Example:
//
//	tagger := NewTagger()
//
//	// jpegBytes is encoded once and shared by every file in the album
//	if err := tagger.EmbedCover("/music/01 Intro.mp3", jpegBytes); err != nil {
//	    log.Printf("Failed to embed cover: %v", err)
//	}
type Tagger struct{}

// NewTagger creates a new Tagger.
func NewTagger() *Tagger {
	return &Tagger{}
}

// EmbedCover replaces all attached pictures in the file at path with one
// front cover holding artwork.
//
// This method:
//  1. Checks that the file holds an MPEG audio stream
//  2. Opens the existing tag (an empty tag is used if none exists)
//  3. Deletes every APIC frame
//  4. Adds a single APIC frame with MIME type image/jpeg and an empty description
//  5. Saves the tag back to the file
//
// artwork is only read, so the same slice may be passed for many files.
func (t *Tagger) EmbedCover(path string, artwork []byte) error {
	if err := probeFile(path); err != nil {
		return err
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return fmt.Errorf("open tag: %w", err)
	}
	defer tag.Close()

	tag.DeleteFrames(tag.CommonID("Attached picture"))
	tag.AddAttachedPicture(id3v2.PictureFrame{
		Encoding:    id3v2.EncodingISO,
		MimeType:    CoverMIMEType,
		PictureType: id3v2.PTFrontCover,
		Description: "",
		Picture:     artwork,
	})

	return tag.Save()
}
