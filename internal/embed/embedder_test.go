package embed

import (
	"bytes"
	"context"
	"errors"
	"image/jpeg"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/handiism/cover-embedder/internal/audio"
	"github.com/handiism/cover-embedder/internal/config"
	ioutils "github.com/handiism/cover-embedder/internal/io"
	"github.com/handiism/cover-embedder/internal/model"
	"github.com/handiism/cover-embedder/internal/testsupport"
)

func newTestRequest(t *testing.T, files ...string) Request {
	t.Helper()

	dir := t.TempDir()
	for _, f := range files {
		testsupport.WriteMP3(t, dir, f, testsupport.WithAlbum("Abbey Road"))
	}

	return Request{
		Folder:        dir,
		ImagePath:     testsupport.WritePNG(t, t.TempDir(), "front.cover.png", 600, 400),
		Album:         "Abbey Road",
		Files:         files,
		Naming:        model.NamingImage,
		Resize:        true,
		SaveExample:   true,
		ExampleFolder: filepath.Join(t.TempDir(), "embeds"),
	}
}

func TestEmbedder_Embed(t *testing.T) {
	req := newTestRequest(t, "01.mp3", "02.mp3", "03.mp3")

	report, err := NewEmbedder(nil).Embed(context.Background(), req)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if got := report.Updated(); !reflect.DeepEqual(got, req.Files) {
		t.Errorf("Updated() = %q, want %q", got, req.Files)
	}

	wantExample := filepath.Join(req.ExampleFolder, "abbey road_image", "front_embed_example.jpg")
	if report.ExamplePath != wantExample {
		t.Errorf("ExamplePath = %q, want %q", report.ExamplePath, wantExample)
	}
	example, err := os.ReadFile(report.ExamplePath)
	if err != nil {
		t.Fatalf("example image not written: %v", err)
	}

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(example))
	if err != nil {
		t.Fatalf("example is not JPEG: %v", err)
	}
	if cfg.Width != ioutils.CoverSize || cfg.Height != ioutils.CoverSize {
		t.Errorf("example size = %dx%d", cfg.Width, cfg.Height)
	}

	reader := audio.NewReader()
	for _, f := range req.Files {
		pics, err := reader.Pictures(filepath.Join(req.Folder, f))
		if err != nil {
			t.Fatalf("Pictures(%s) error = %v", f, err)
		}
		if len(pics) != 1 {
			t.Fatalf("%s has %d pictures, want 1", f, len(pics))
		}
		if !bytes.Equal(pics[0].Picture, example) {
			t.Errorf("%s picture differs from the shared encoded cover", f)
		}
	}
}

func TestEmbedder_EmbedContinuesAfterFailure(t *testing.T) {
	req := newTestRequest(t, "01.mp3", "03.mp3", "04.mp3")
	testsupport.WriteGarbage(t, req.Folder, "02.mp3")
	req.Files = []string{"01.mp3", "02.mp3", "03.mp3", "missing.mp3", "04.mp3"}

	var errorsSeen int
	embedder := NewEmbedder(func(event model.ProgressEvent) {
		if event.Level == model.LevelError {
			errorsSeen++
		}
	})

	report, err := embedder.Embed(context.Background(), req)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if got, want := report.Updated(), []string{"01.mp3", "03.mp3", "04.mp3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Updated() = %q, want %q", got, want)
	}

	failed := report.Failed()
	if len(failed) != 2 || failed[0].Name != "02.mp3" || failed[1].Name != "missing.mp3" {
		t.Fatalf("Failed() = %v", failed)
	}
	for _, f := range failed {
		if !errors.Is(f.Err, model.ErrWriteFailure) {
			t.Errorf("%s error = %v, want ErrWriteFailure", f.Name, f.Err)
		}
	}
	if errorsSeen != 2 {
		t.Errorf("error events = %d, want 2", errorsSeen)
	}

	if _, err := os.Stat(filepath.Join(req.Folder, "missing.mp3")); !os.IsNotExist(err) {
		t.Error("embedding must not create missing files")
	}
}

type recordingWriter struct {
	mu      sync.Mutex
	failOn  string
	written []string
	covers  [][]byte
}

func (w *recordingWriter) EmbedCover(path string, artwork []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if filepath.Base(path) == w.failOn {
		return errors.New("disk full")
	}
	w.written = append(w.written, filepath.Base(path))
	w.covers = append(w.covers, artwork)
	return nil
}

func TestEmbedder_EmbedFailingFileK(t *testing.T) {
	files := []string{"a.mp3", "b.mp3", "c.mp3", "d.mp3", "e.mp3"}

	for _, limit := range []int{1, 3} {
		req := newTestRequest(t, files...)
		req.SaveExample = false
		w := &recordingWriter{failOn: "c.mp3"}

		report, err := NewEmbedder(nil, WithWriter(w), WithMaxConcurrent(limit)).Embed(context.Background(), req)
		if err != nil {
			t.Fatalf("limit %d: Embed() error = %v", limit, err)
		}

		want := []string{"a.mp3", "b.mp3", "d.mp3", "e.mp3"}
		if got := report.Updated(); !reflect.DeepEqual(got, want) {
			t.Errorf("limit %d: Updated() = %q, want %q", limit, got, want)
		}
		if len(w.written) != 4 {
			t.Errorf("limit %d: written = %q", limit, w.written)
		}
		for _, c := range w.covers[1:] {
			if &c[0] != &w.covers[0][0] {
				t.Errorf("limit %d: cover buffer was re-encoded per file", limit)
			}
		}
		if report.ExamplePath != "" {
			t.Errorf("limit %d: ExamplePath = %q, want empty", limit, report.ExamplePath)
		}
	}
}

func TestEmbedder_EmbedNamingAlbum(t *testing.T) {
	req := newTestRequest(t, "01.mp3")
	req.Naming = model.NamingAlbum

	report, err := NewEmbedder(nil).Embed(context.Background(), req)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	want := filepath.Join(req.ExampleFolder, "abbey road_image", "Abbey Road_embed_example.jpg")
	if report.ExamplePath != want {
		t.Errorf("ExamplePath = %q, want %q", report.ExamplePath, want)
	}
}

func TestEmbedder_EmbedKeepsOriginalSize(t *testing.T) {
	req := newTestRequest(t, "01.mp3")
	req.Resize = false

	report, err := NewEmbedder(nil).Embed(context.Background(), req)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	data, err := os.ReadFile(report.ExamplePath)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 600 || cfg.Height != 400 {
		t.Errorf("size = %dx%d, want 600x400", cfg.Width, cfg.Height)
	}
}

func TestEmbedder_EmbedBadImage(t *testing.T) {
	req := newTestRequest(t, "01.mp3")
	before, _ := os.ReadFile(filepath.Join(req.Folder, "01.mp3"))
	req.ImagePath = testsupport.WriteGarbage(t, t.TempDir(), "cover.png")

	if _, err := NewEmbedder(nil).Embed(context.Background(), req); err == nil {
		t.Fatal("Embed() with undecodable image should fail")
	}

	after, _ := os.ReadFile(filepath.Join(req.Folder, "01.mp3"))
	if !bytes.Equal(before, after) {
		t.Error("file modified although the cover could not be prepared")
	}
}

func TestEmbedder_EmbedCancelled(t *testing.T) {
	req := newTestRequest(t, "01.mp3", "02.mp3")
	req.SaveExample = false

	ctx, cancel := context.WithCancel(context.Background())
	w := &recordingWriter{}
	embedder := NewEmbedder(func(event model.ProgressEvent) {
		cancel()
	}, WithWriter(w))

	report, err := embedder.Embed(ctx, req)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if got := report.Updated(); !reflect.DeepEqual(got, []string{"01.mp3"}) {
		t.Errorf("Updated() = %q, want only the file written before cancel", got)
	}
	if failed := report.Failed(); len(failed) != 1 || !errors.Is(failed[0].Err, model.ErrWriteFailure) {
		t.Errorf("Failed() = %v", failed)
	}
}

func TestEmbedder_EmbedWaitsForSidecarLock(t *testing.T) {
	req := newTestRequest(t, "01.mp3")
	req.SaveExample = false
	path := filepath.Join(req.Folder, "01.mp3")

	held := flock.New(LockPath(path))
	locked, err := held.TryLock()
	if err != nil || !locked {
		t.Fatalf("TryLock() = %v, %v", locked, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	report, err := NewEmbedder(nil).Embed(ctx, req)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if failed := report.Failed(); len(failed) != 1 || !errors.Is(failed[0].Err, model.ErrWriteFailure) {
		t.Fatalf("Failed() = %v, want the locked file", failed)
	}
	pics, err := audio.NewReader().Pictures(path)
	if err != nil {
		t.Fatalf("Pictures() error = %v", err)
	}
	if len(pics) != 0 {
		t.Errorf("locked file has %d pictures, want 0", len(pics))
	}

	if err := held.Unlock(); err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}

	report, err = NewEmbedder(nil).Embed(context.Background(), req)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if got := report.Updated(); !reflect.DeepEqual(got, []string{"01.mp3"}) {
		t.Errorf("Updated() = %q after unlock", got)
	}
	if _, err := os.Stat(LockPath(path)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("lock file left behind: %v", err)
	}
}

func TestNewRequest(t *testing.T) {
	settings := config.DefaultSettings()
	settings.MP3Folder = "/music"
	settings.EmbedFolder = "/embeds"
	settings.NamingOption = 1
	settings.ResizeCover = false

	group := model.AlbumGroup{Name: "Help!", Files: []string{"a.mp3"}}
	req := NewRequest(settings, "/covers/help.jpg", group)

	want := Request{
		Folder:        "/music",
		ImagePath:     "/covers/help.jpg",
		Album:         "Help!",
		Files:         []string{"a.mp3"},
		Naming:        model.NamingImage,
		Resize:        false,
		SaveExample:   true,
		ExampleFolder: "/embeds",
	}
	if !reflect.DeepEqual(req, want) {
		t.Errorf("NewRequest() = %+v, want %+v", req, want)
	}
}
