package main

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/handiism/cover-embedder/internal/audio"
)

func newInspectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Show the album tag and embedded covers of MP3 files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := audio.NewReader()
			logger := ctx.logger(cmd)

			rows := make([][]string, 0, len(args))
			for _, path := range args {
				name := filepath.Base(path)

				albumName, err := reader.ReadAlbum(path)
				if err != nil {
					logger.Warn("unreadable file", "file", name, "error", err)
					rows = append(rows, []string{name, "(unreadable)", "", ""})
					continue
				}

				pics, err := reader.Pictures(path)
				if err != nil {
					return fmt.Errorf("read pictures from %s: %w", name, err)
				}
				cover := ""
				if len(pics) > 0 {
					cover = describePicture(pics[0].MimeType, pics[0].Picture)
				}
				rows = append(rows, []string{name, albumName, strconv.Itoa(len(pics)), cover})
			}

			headers := []string{"File", "Album", "Covers", "First cover"}
			aligns := []columnAlignment{alignLeft, alignLeft, alignRight, alignLeft}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
			return nil
		},
	}
}

func describePicture(mimeType string, data []byte) string {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Sprintf("%s, %d bytes", mimeType, len(data))
	}
	return fmt.Sprintf("%s, %dx%d, %d bytes", mimeType, cfg.Width, cfg.Height, len(data))
}
