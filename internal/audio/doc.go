// Package audio provides MP3 metadata services: reading album titles,
// listing embedded pictures and replacing cover art.
//
// # Reading
//
// Use the Reader to look up the album a file already belongs to:
//
//	reader := audio.NewReader()
//	album, err := reader.ReadAlbum("/music/01 Intro.mp3")
//	// album == "" when the file carries no album tag
//
// ReadAlbum fails for files that do not contain an MPEG audio stream or
// whose ID3v2 header is malformed.
//
// # Embedding
//
// Use the Tagger to write a cover into a file:
//
//	tagger := audio.NewTagger()
//	err := tagger.EmbedCover("/music/01 Intro.mp3", jpegBytes)
//
// Embedding removes every existing attached picture first, so a file
// holds at most one embedded image afterwards.
package audio
