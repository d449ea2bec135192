package model

// AlbumGroup is the set of files that share one album name within a scan.
//
// Files are kept in the order they were first seen.
type AlbumGroup struct {
	// Name is the album name, read from the tag or derived from a filename.
	Name string

	// Files contains bare filenames relative to the scanned folder.
	Files []string
}

// Albums is an ordered mapping from album name to AlbumGroup.
//
// Keys are unique. Iteration order (Names, Groups, At) is first-insertion
// order, so the same folder always lists its albums the same way.
//
// The zero value is not usable; create one with NewAlbums.
type Albums struct {
	order  []string
	groups map[string]*AlbumGroup
}

// NewAlbums creates an empty Albums mapping.
func NewAlbums() *Albums {
	return &Albums{groups: make(map[string]*AlbumGroup)}
}

// Add appends file to the group named name, creating the group if it is new.
func (a *Albums) Add(name, file string) {
	g, ok := a.groups[name]
	if !ok {
		g = &AlbumGroup{Name: name}
		a.groups[name] = g
		a.order = append(a.order, name)
	}
	g.Files = append(g.Files, file)
}

// Get returns the group named name.
func (a *Albums) Get(name string) (AlbumGroup, bool) {
	g, ok := a.groups[name]
	if !ok {
		return AlbumGroup{}, false
	}
	return g.clone(), true
}

// At returns the group at the given 1-based position.
//
// Positions match the numbered lists shown to users, so 0 and values past
// Len report ok == false.
func (a *Albums) At(position int) (AlbumGroup, bool) {
	if position < 1 || position > len(a.order) {
		return AlbumGroup{}, false
	}
	return a.groups[a.order[position-1]].clone(), true
}

// Names returns album names in first-insertion order.
func (a *Albums) Names() []string {
	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Groups returns copies of all groups in first-insertion order.
func (a *Albums) Groups() []AlbumGroup {
	groups := make([]AlbumGroup, len(a.order))
	for i, name := range a.order {
		groups[i] = a.groups[name].clone()
	}
	return groups
}

// Len returns the number of albums.
func (a *Albums) Len() int {
	return len(a.order)
}

// FileCount returns the number of files across all albums.
func (a *Albums) FileCount() int {
	n := 0
	for _, g := range a.groups {
		n += len(g.Files)
	}
	return n
}

func (g *AlbumGroup) clone() AlbumGroup {
	files := make([]string, len(g.Files))
	copy(files, g.Files)
	return AlbumGroup{Name: g.Name, Files: files}
}

// ScanResult is the outcome of scanning one folder.
type ScanResult struct {
	// Folder is the directory that was scanned.
	Folder string

	// Albums maps album names to their files. Never nil.
	Albums *Albums

	// Corrupted lists files that could not be read. Each Err wraps
	// ErrUnreadableTag.
	Corrupted []FileResult

	// AudioFiles counts every file with an audio extension, readable or not.
	AudioFiles int
}

// CorruptedNames returns the filenames of unreadable files in scan order.
func (r *ScanResult) CorruptedNames() []string {
	names := make([]string, len(r.Corrupted))
	for i, c := range r.Corrupted {
		names[i] = c.Name
	}
	return names
}
