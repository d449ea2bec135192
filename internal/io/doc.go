// Package ioutils provides file system and image processing utilities.
//
// This package contains functions for:
//   - File writing and directory creation
//   - Filename sanitization for cross-platform compatibility
//   - Building the side-save path for embed example images
//   - Cover image loading, fitting and JPEG encoding
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/file.jpg", data)
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
// # Example Image Paths
//
//	path := ioutils.ExamplePath("/embeds", "Abbey Road", "cover")
//	// "/embeds/abbey road_image/cover_embed_example.jpg"
//
// # Image Processing
//
// The ImageService handles cover art manipulation:
//
//	svc := ioutils.NewImageService()
//
//	// Load, crop to 240x240 and encode once for a whole album
//	jpegBytes, err := svc.PrepareCover(ctx, "/covers/front.png", true)
package ioutils
