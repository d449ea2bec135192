// Command cover-embedder groups MP3 files into albums and embeds a cover
// image into every file of a chosen album.
//
// Usage:
//
//	cover-embedder albums [folder]
//	cover-embedder embed --album <name|index> --image <path> [folder]
//	cover-embedder inspect <file>...
//	cover-embedder config show|set|path
//	cover-embedder tui
//
// Run without arguments on a terminal to start the interactive interface.
package main
