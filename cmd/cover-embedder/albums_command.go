package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/handiism/cover-embedder/internal/album"
	"github.com/handiism/cover-embedder/internal/config"
	"github.com/handiism/cover-embedder/internal/model"
)

// scanned is a folder scan with the album set to present.
type scanned struct {
	result   *model.ScanResult
	albums   *model.Albums
	fallback bool
}

func newAlbumsCommand(ctx *commandContext) *cobra.Command {
	var showFiles bool

	cmd := &cobra.Command{
		Use:   "albums [folder]",
		Short: "List the albums found in a folder",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := ctx.ensureSettings()
			if err != nil {
				return err
			}
			folder := folderArg(settings, args)

			s, err := scanFolder(cmd, ctx, folder)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printScanNotices(out, settings, s)

			headers := []string{"#", "Album", "Files"}
			aligns := []columnAlignment{alignRight, alignLeft, alignRight}
			if showFiles {
				headers = append(headers, "Filenames")
				aligns = append(aligns, alignLeft)
			}

			rows := make([][]string, 0, s.albums.Len())
			for i, group := range s.albums.Groups() {
				row := []string{strconv.Itoa(i + 1), group.Name, strconv.Itoa(len(group.Files))}
				if showFiles {
					row = append(row, strings.Join(group.Files, "\n"))
				}
				rows = append(rows, row)
			}
			fmt.Fprintln(out, renderTable(headers, rows, aligns))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showFiles, "files", false, "List the files of each album")

	return cmd
}

func folderArg(settings *config.Settings, args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return settings.MP3Folder
}

// scanFolder groups folder and falls back to per-file albums when no
// readable file yields an album.
func scanFolder(cmd *cobra.Command, ctx *commandContext, folder string) (*scanned, error) {
	logger := ctx.logger(cmd)
	grouper := album.NewGrouper(nil, progressLogger(logger))

	result, err := grouper.Scan(cmd.Context(), folder)
	if err != nil {
		return nil, err
	}
	if result.AudioFiles == 0 {
		return nil, fmt.Errorf("no music files found in %s", folder)
	}

	s := &scanned{result: result, albums: result.Albums}
	if result.Albums.Len() == 0 {
		files, err := album.ListAudioFiles(folder)
		if err != nil {
			return nil, err
		}
		s.albums = album.Fallback(files)
		s.fallback = true
	}
	return s, nil
}

func printScanNotices(out io.Writer, settings *config.Settings, s *scanned) {
	if len(s.result.Corrupted) > 0 && settings.ShowCorruptWarning {
		fmt.Fprintf(out, "Warning: %d file(s) could not be read and were skipped:\n", len(s.result.Corrupted))
		for _, name := range s.result.CorruptedNames() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		fmt.Fprintln(out)
	}
	if s.fallback {
		fmt.Fprintln(out, "No albums found. Default albums were created from filenames.")
		fmt.Fprintln(out)
	}
}
