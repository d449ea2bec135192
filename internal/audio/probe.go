package audio

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// probeWindow is how far past the ID3v2 tag we look for the first frame.
const probeWindow = 64 * 1024

var (
	// ErrNoAudioFrames is returned when no MPEG audio frame header can be
	// found where the audio stream should start.
	ErrNoAudioFrames = errors.New("no MPEG audio frame found")

	// ErrMalformedID3 is returned when an ID3v2 header has an invalid size.
	ErrMalformedID3 = errors.New("malformed ID3v2 header")
)

// probeFile opens path and checks that it looks like an MP3 stream.
func probeFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return probeAudio(f)
}

// probeAudio skips a leading ID3v2 tag, if any, and searches the following
// bytes for a valid MPEG audio frame header. The reader position is left
// undefined.
func probeAudio(r io.ReadSeeker) error {
	offset, err := audioOffset(r)
	if err != nil {
		return err
	}

	if _, err := r.Seek(offset, io.SeekStart); err != nil {
		return err
	}

	buf := make([]byte, probeWindow)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	buf = buf[:n]

	for i := 0; i+3 < len(buf); i++ {
		if isFrameHeader(buf[i], buf[i+1], buf[i+2]) {
			return nil
		}
	}

	return ErrNoAudioFrames
}

// audioOffset returns where the audio stream starts: right after the
// ID3v2 tag (and its footer) or at 0 when there is no tag.
func audioOffset(r io.ReadSeeker) (int64, error) {
	header := make([]byte, 10)
	n, err := io.ReadFull(r, header)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			if n >= 3 && string(header[:3]) == "ID3" {
				return 0, ErrMalformedID3
			}
			return 0, nil
		}
		return 0, err
	}

	if string(header[:3]) != "ID3" {
		return 0, nil
	}

	size := int64(0)
	for _, b := range header[6:10] {
		if b&0x80 != 0 {
			return 0, fmt.Errorf("%w: size byte %#x is not syncsafe", ErrMalformedID3, b)
		}
		size = size<<7 | int64(b)
	}

	offset := 10 + size
	if header[5]&0x10 != 0 {
		offset += 10 // footer
	}
	return offset, nil
}

// isFrameHeader reports whether the three bytes start an MPEG audio frame:
// an 11-bit sync word followed by a non-reserved version, layer, bitrate
// and sample rate.
func isFrameHeader(b0, b1, b2 byte) bool {
	if b0 != 0xFF || b1&0xE0 != 0xE0 {
		return false
	}
	version := (b1 >> 3) & 0x03
	layer := (b1 >> 1) & 0x03
	bitrate := b2 >> 4
	sampleRate := (b2 >> 2) & 0x03

	return version != 0x01 && layer != 0x00 && bitrate != 0x00 && bitrate != 0x0F && sampleRate != 0x03
}
