// Package album groups the MP3 files of a folder by album.
//
// # Scanning
//
//	grouper := album.NewGrouper(nil, nil)
//	result, err := grouper.Scan(ctx, "/music/inbox")
//	for _, g := range result.Albums.Groups() {
//	    fmt.Println(g.Name, len(g.Files))
//	}
//	for _, c := range result.Corrupted {
//	    fmt.Println("unreadable:", c.Name)
//	}
//
// # Default Names
//
// Files without an album tag are grouped under a name derived from the
// filename:
//
//	album.DefaultName("My_Song_01.mp3")  // "my Song 01"
//	album.DefaultName("track-intro.mp3") // "Track-Intro"
//
// Words of three characters or fewer are lowercased, including the first
// word of a name.
package album
