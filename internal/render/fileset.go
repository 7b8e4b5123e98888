package render

// FileSet is an ordered mapping of relative output path to file content.
// Insertion order is preserved for deterministic writes; setting an existing
// path replaces its content in place, so the final entry for any path is
// the one from the last bundle that defined it.
type FileSet struct {
	order []string
	files map[string][]byte
}

// NewFileSet creates an empty file set.
func NewFileSet() *FileSet {
	return &FileSet{files: make(map[string][]byte)}
}

// Set stores content for a relative path, overriding any earlier entry.
func (fs *FileSet) Set(path string, content []byte) {
	if _, exists := fs.files[path]; !exists {
		fs.order = append(fs.order, path)
	}
	fs.files[path] = content
}

// Get returns the content stored for a path.
func (fs *FileSet) Get(path string) ([]byte, bool) {
	content, ok := fs.files[path]
	return content, ok
}

// Has reports whether the set contains a path.
func (fs *FileSet) Has(path string) bool {
	_, ok := fs.files[path]
	return ok
}

// Len returns the number of files in the set.
func (fs *FileSet) Len() int {
	return len(fs.order)
}

// Paths returns the relative paths in insertion order.
func (fs *FileSet) Paths() []string {
	out := make([]string, len(fs.order))
	copy(out, fs.order)
	return out
}

// Merge applies every entry of other, in other's order, on top of this set.
// Colliding paths take other's content.
func (fs *FileSet) Merge(other *FileSet) {
	for _, path := range other.order {
		fs.Set(path, other.files[path])
	}
}

// TotalSize returns the summed content size in bytes.
func (fs *FileSet) TotalSize() int64 {
	var total int64
	for _, content := range fs.files {
		total += int64(len(content))
	}
	return total
}
