package audio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/handiism/cover-embedder/internal/testsupport"
)

func TestProbeAudio(t *testing.T) {
	frames := testsupport.AudioFrames(2)

	// ID3v2.4 header, no flags, 5 bytes of (zero) frame data.
	tagged := append([]byte{'I', 'D', '3', 4, 0, 0, 0, 0, 0, 5, 0, 0, 0, 0, 0}, frames...)

	// Footer flag set: 10 extra bytes follow the frame data.
	footer := append([]byte{'I', 'D', '3', 4, 0, 0x10, 0, 0, 0, 0}, []byte("3DI\x04\x00\x10\x00\x00\x00\x00")...)
	footer = append(footer, frames...)

	tests := []struct {
		name    string
		data    []byte
		wantErr error
	}{
		{name: "bare frames", data: frames},
		{name: "leading junk", data: append([]byte("junk"), frames...)},
		{name: "after id3v2 tag", data: tagged},
		{name: "after id3v2 footer", data: footer},
		{name: "text", data: []byte("hello world, this is not audio"), wantErr: ErrNoAudioFrames},
		{name: "empty", data: nil, wantErr: ErrNoAudioFrames},
		{name: "reserved version", data: []byte{0xFF, 0xEB, 0x90, 0x64, 0, 0}, wantErr: ErrNoAudioFrames},
		{name: "bad bitrate", data: []byte{0xFF, 0xFB, 0xF0, 0x64, 0, 0}, wantErr: ErrNoAudioFrames},
		{name: "bad sample rate", data: []byte{0xFF, 0xFB, 0x9C, 0x64, 0, 0}, wantErr: ErrNoAudioFrames},
		{name: "truncated id3 header", data: []byte("ID3\x04"), wantErr: ErrMalformedID3},
		{name: "non-syncsafe size", data: append([]byte{'I', 'D', '3', 4, 0, 0, 0x80, 0, 0, 0}, frames...), wantErr: ErrMalformedID3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := probeAudio(bytes.NewReader(tt.data))
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("probeAudio() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("probeAudio() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsFrameHeader(t *testing.T) {
	if !isFrameHeader(0xFF, 0xFB, 0x90) {
		t.Error("MPEG-1 Layer III header not recognized")
	}
	if isFrameHeader(0xFF, 0xF9, 0x90) {
		t.Error("reserved layer accepted")
	}
	if isFrameHeader(0xFE, 0xFB, 0x90) {
		t.Error("missing sync accepted")
	}
}
