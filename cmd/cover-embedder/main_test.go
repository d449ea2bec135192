package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/handiism/cover-embedder/internal/audio"
	"github.com/handiism/cover-embedder/internal/config"
	"github.com/handiism/cover-embedder/internal/model"
	"github.com/handiism/cover-embedder/internal/testsupport"
)

type cliTestEnv struct {
	configPath  string
	musicDir    string
	embedFolder string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	t.Setenv(config.EnvMP3Folder, "")
	t.Setenv(config.EnvEmbedFolder, "")
	t.Setenv(config.EnvAutoSave, "")

	base := t.TempDir()
	env := &cliTestEnv{
		configPath:  filepath.Join(base, "settings.json"),
		musicDir:    filepath.Join(base, "music"),
		embedFolder: filepath.Join(base, "embeds"),
	}

	if err := os.MkdirAll(env.musicDir, 0o755); err != nil {
		t.Fatalf("mkdir music: %v", err)
	}

	settings := config.DefaultSettings()
	settings.MP3Folder = env.musicDir
	settings.EmbedFolder = env.embedFolder
	if err := settings.Save(env.configPath); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n%s", needle, haystack)
	}
}

func TestCLIAlbums(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteMP3(t, env.musicDir, "01.mp3", testsupport.WithAlbum("Abbey Road"))
	testsupport.WriteMP3(t, env.musicDir, "02.mp3", testsupport.WithAlbum("Abbey Road"))
	testsupport.WriteMP3(t, env.musicDir, "03.mp3", testsupport.WithAlbum("Help"))
	testsupport.WriteGarbage(t, env.musicDir, "broken.mp3")

	out, _, err := runCLI(t, []string{"albums", "--files"}, env.configPath)
	if err != nil {
		t.Fatalf("albums: %v", err)
	}
	requireContains(t, out, "Abbey Road")
	requireContains(t, out, "Help")
	requireContains(t, out, "02.mp3")
	requireContains(t, out, "broken.mp3")
}

func TestCLIAlbumsFallback(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteGarbage(t, env.musicDir, "my_song-01.mp3")

	out, _, err := runCLI(t, []string{"albums"}, env.configPath)
	if err != nil {
		t.Fatalf("albums: %v", err)
	}
	requireContains(t, out, "Default albums were created")
	requireContains(t, out, "My Song 01")
}

func TestCLIAlbumsEmptyFolder(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"albums", t.TempDir()}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no music files") {
		t.Fatalf("err = %v, want no music files", err)
	}
}

func TestCLIEmbed(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteMP3(t, env.musicDir, "01.mp3", testsupport.WithAlbum("Abbey Road"))
	testsupport.WriteMP3(t, env.musicDir, "02.mp3", testsupport.WithAlbum("Abbey Road"))
	testsupport.WriteMP3(t, env.musicDir, "03.mp3", testsupport.WithAlbum("Help"))
	img := testsupport.WritePNG(t, t.TempDir(), "cover.png", 300, 200)

	out, _, err := runCLI(t, []string{"embed", "--album", "1", "--image", img}, env.configPath)
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	requireContains(t, out, "Updated files:")
	requireContains(t, out, filepath.Join(env.musicDir, "02.mp3"))
	requireContains(t, out, filepath.Join(env.embedFolder, "abbey road_image", "Abbey Road_embed_example.jpg"))

	reader := audio.NewReader()
	for name, want := range map[string]int{"01.mp3": 1, "02.mp3": 1, "03.mp3": 0} {
		pics, err := reader.Pictures(filepath.Join(env.musicDir, name))
		if err != nil {
			t.Fatalf("Pictures(%s): %v", name, err)
		}
		if len(pics) != want {
			t.Errorf("%s: %d pictures, want %d", name, len(pics), want)
		}
	}

	out, _, err = runCLI(t, []string{"inspect", filepath.Join(env.musicDir, "01.mp3")}, env.configPath)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	requireContains(t, out, "image/jpeg, 240x240")
}

func TestCLIEmbedNoSelection(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"embed", "--image", "cover.png"}, env.configPath)
	if !errors.Is(err, model.ErrNoSelection) {
		t.Fatalf("err = %v, want ErrNoSelection", err)
	}
}

func TestCLIEmbedUnknownAlbum(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteMP3(t, env.musicDir, "01.mp3", testsupport.WithAlbum("Abbey Road"))
	img := testsupport.WritePNG(t, t.TempDir(), "cover.png", 10, 10)

	tests := []struct {
		album string
		want  string
	}{
		{"Let It Be", "not found"},
		{"7", "out of range"},
	}

	for _, tt := range tests {
		_, _, err := runCLI(t, []string{"embed", "--album", tt.album, "--image", img}, env.configPath)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("album %q: err = %v, want %q", tt.album, err, tt.want)
		}
	}
}

func TestCLIConfigSetAndShow(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "set", "naming_option", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("config set: %v", err)
	}
	requireContains(t, out, "Set naming_option = 1")

	if _, _, err := runCLI(t, []string{"config", "set", "naming_option", "3"}, env.configPath); err == nil {
		t.Error("expected error for naming_option 3")
	}

	settings, err := config.Load(env.configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if settings.NamingOption != 1 {
		t.Errorf("NamingOption = %d, want 1", settings.NamingOption)
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "naming_option")
	requireContains(t, out, env.musicDir)

	out, _, err = runCLI(t, []string{"config", "path"}, env.configPath)
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	requireContains(t, out, env.configPath)
}
