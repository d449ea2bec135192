// Package embed writes a cover image into every MP3 file of an album.
//
// # Embedder
//
// The Embedder runs one album at a time:
//
//  1. Load the cover and flatten it to RGB
//  2. Fit it to 240x240 (optional)
//  3. Encode it as JPEG once
//  4. Save an example copy to the side-save folder (optional)
//  5. Replace the embedded picture of each file
//
// # Basic Usage
//
//	embedder := embed.NewEmbedder(func(event model.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	req := embed.NewRequest(settings, "/covers/front.jpg", group)
//	report, err := embedder.Embed(ctx, req)
//	if err != nil {
//	    log.Fatal(err) // the cover could not be prepared, nothing was written
//	}
//	fmt.Println(report.Updated())
//
// # Failures
//
// Per-file failures wrap model.ErrWriteFailure, are recorded in the report
// and never stop the remaining files.
//
// # Concurrency
//
// Files are written one at a time by default. WithMaxConcurrent raises the
// limit; the encoded cover is shared read-only and every write holds an
// exclusive lock on its own file. Report order always equals request order.
package embed
