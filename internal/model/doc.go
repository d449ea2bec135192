// Package model defines the core data structures used throughout
// the cover-embedder application.
//
// # Albums
//
// Albums is an insertion-ordered mapping from album name to the files that
// belong to it. It is built by a single folder scan and then presented to the
// user for selection:
//
//	albums := model.NewAlbums()
//	albums.Add("Abbey Road", "01 Come Together.mp3")
//	albums.Add("Abbey Road", "02 Something.mp3")
//	group, ok := albums.At(1) // 1-based, as shown to users
//
// # Results
//
// Per-file outcomes are collected as FileResult values instead of aborting a
// batch on the first failure:
//
//	report := &model.Report{Album: "Abbey Road"}
//	report.Add("01 Come Together.mp3", nil)
//	report.Add("02 Something.mp3", err)
//	fmt.Println(report.Updated()) // [01 Come Together.mp3]
//
// # Errors
//
// ErrUnreadableTag, ErrWriteFailure and ErrNoSelection classify failures so
// callers can use errors.Is without parsing messages.
package model
