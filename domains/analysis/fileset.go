package analysis

// FileSet is an ordered mapping from file path to content. Iteration order is
// insertion order, which is the only order the batcher relies on.
type FileSet struct {
	paths    []string
	contents map[string]string
}

func NewFileSet() *FileSet {
	return &FileSet{contents: make(map[string]string)}
}

// Add appends a file. A path that is already present is ignored, keeping paths
// unique and the original position stable.
func (fs *FileSet) Add(path, content string) {
	if _, ok := fs.contents[path]; ok {
		return
	}
	fs.paths = append(fs.paths, path)
	fs.contents[path] = content
}

// Paths returns the file paths in insertion order.
func (fs *FileSet) Paths() []string {
	return fs.paths
}

// Get returns the content for path.
func (fs *FileSet) Get(path string) (string, bool) {
	content, ok := fs.contents[path]
	return content, ok
}

func (fs *FileSet) Len() int {
	return len(fs.paths)
}

// Filter returns a new FileSet with the files keep accepts, preserving order.
func (fs *FileSet) Filter(keep func(path, content string) bool) *FileSet {
	out := NewFileSet()
	for _, path := range fs.paths {
		if content := fs.contents[path]; keep(path, content) {
			out.Add(path, content)
		}
	}
	return out
}
