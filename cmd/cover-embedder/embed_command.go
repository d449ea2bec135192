package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/cover-embedder/internal/embed"
	"github.com/handiism/cover-embedder/internal/model"
)

func newEmbedCommand(ctx *commandContext) *cobra.Command {
	var (
		albumFlag   string
		imageFlag   string
		namingFlag  int
		resizeFlag  bool
		saveFlag    bool
		workersFlag int
	)

	cmd := &cobra.Command{
		Use:   "embed [folder]",
		Short: "Embed a cover image into every file of an album",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			if strings.TrimSpace(albumFlag) == "" || strings.TrimSpace(imageFlag) == "" {
				return model.ErrNoSelection
			}

			overrides := *settings
			overrides.MP3Folder = folderArg(settings, args)
			flags := cmd.Flags()
			if flags.Changed("naming") {
				overrides.NamingOption = namingFlag
			}
			if flags.Changed("resize") {
				overrides.ResizeCover = resizeFlag
			}
			if flags.Changed("save-example") {
				overrides.AutoSaveEmbed = saveFlag
			}
			if flags.Changed("workers") {
				overrides.MaxConcurrentWrites = workersFlag
			}
			if err := overrides.Validate(); err != nil {
				return err
			}

			s, err := scanFolder(cmd, ctx, overrides.MP3Folder)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printScanNotices(out, &overrides, s)

			group, err := resolveAlbum(s.albums, albumFlag)
			if err != nil {
				return err
			}

			logger := ctx.logger(cmd)
			embedder := embed.NewEmbedder(progressLogger(logger), embed.WithMaxConcurrent(overrides.MaxConcurrentWrites))
			report, err := embedder.Embed(cmd.Context(), embed.NewRequest(&overrides, imageFlag, group))
			if err != nil {
				return err
			}

			updated := report.Updated()
			if len(updated) > 0 {
				fmt.Fprintln(out, "Updated files:")
				for _, name := range updated {
					fmt.Fprintf(out, "  %s\n", filepath.Join(overrides.MP3Folder, name))
				}
			}
			failed := report.Failed()
			if len(failed) > 0 {
				fmt.Fprintln(out, "Failed files:")
				for _, f := range failed {
					fmt.Fprintf(out, "  %s: %v\n", f.Name, f.Err)
				}
			}
			if report.ExamplePath != "" {
				fmt.Fprintf(out, "Embed example image path: %s\n", report.ExamplePath)
			}

			if len(failed) > 0 {
				return fmt.Errorf("%w: %d of %d file(s) in %s", model.ErrWriteFailure, len(failed), len(report.Results), report.Album)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&albumFlag, "album", "a", "", "Album name or 1-based index from `albums`")
	flags.StringVarP(&imageFlag, "image", "i", "", "Cover image path (JPEG or PNG)")
	flags.IntVar(&namingFlag, "naming", int(model.NamingAlbum), "Example image name: 1 = image name, 2 = album name")
	flags.BoolVar(&resizeFlag, "resize", true, "Fit the cover to 240x240")
	flags.BoolVar(&saveFlag, "save-example", true, "Save an example copy of the embedded image")
	flags.IntVar(&workersFlag, "workers", 1, "Files written concurrently")

	return cmd
}

// resolveAlbum picks an album by exact name, falling back to a 1-based
// position.
func resolveAlbum(albums *model.Albums, selector string) (model.AlbumGroup, error) {
	selector = strings.TrimSpace(selector)
	if group, ok := albums.Get(selector); ok {
		return group, nil
	}
	if n, err := strconv.Atoi(selector); err == nil {
		if group, ok := albums.At(n); ok {
			return group, nil
		}
		return model.AlbumGroup{}, fmt.Errorf("album index %d out of range (1-%d)", n, albums.Len())
	}
	return model.AlbumGroup{}, fmt.Errorf("album %q not found (available: %s)", selector, strings.Join(albums.Names(), ", "))
}
