package diag

import (
	"os"
	"strings"
	"sync"
)

// Source supplies source lines for diagnostic excerpts.
type Source interface {
	// Line returns the 1-based line of filename, or false if unavailable.
	Line(filename string, line int) (string, bool)
}

// FileSource reads files from disk on first use and caches their lines.
// Read failures are remembered and reported as missing lines.
type FileSource struct {
	mu    sync.Mutex
	files map[string][]string
}

// NewFileSource returns an empty FileSource.
func NewFileSource() *FileSource {
	return &FileSource{files: make(map[string][]string)}
}

func (s *FileSource) Line(filename string, line int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, ok := s.files[filename]
	if !ok {
		data, err := os.ReadFile(filename)
		if err == nil {
			lines = splitLines(string(data))
		}
		s.files[filename] = lines
	}
	return lineAt(lines, line)
}

// StringSource serves excerpts from in-memory sources, keyed by filename.
type StringSource map[string]string

func (s StringSource) Line(filename string, line int) (string, bool) {
	text, ok := s[filename]
	if !ok {
		return "", false
	}
	return lineAt(splitLines(text), line)
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func lineAt(lines []string, line int) (string, bool) {
	if line < 1 || line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}
