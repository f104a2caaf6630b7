package mocks

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/felixgeelhaar/groundwork/internal/ports"
)

// FileSystem is a thread-safe in-memory test double for ports.FileSystem.
type FileSystem struct {
	mu       sync.RWMutex
	files    map[string][]byte
	modes    map[string]os.FileMode
	dirs     map[string]bool
	modTimes map[string]time.Time
}

// NewFileSystem creates a new FileSystem mock.
func NewFileSystem() *FileSystem {
	return &FileSystem{
		files:    make(map[string][]byte),
		modes:    make(map[string]os.FileMode),
		dirs:     make(map[string]bool),
		modTimes: make(map[string]time.Time),
	}
}

// SetModTime sets an explicit modification time for a path. Paths without
// one report the current time from GetFileInfo.
func (fs *FileSystem) SetModTime(path string, t time.Time) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.modTimes[path] = t
}

// AddFile adds a file with default mode 0644.
func (fs *FileSystem) AddFile(path, content string) {
	fs.AddFileWithMode(path, content, 0o644)
}

// AddFileWithMode adds a file with an explicit mode.
func (fs *FileSystem) AddFileWithMode(path, content string, mode os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
	fs.modes[path] = mode
}

// AddDir adds a directory with mode 0755.
func (fs *FileSystem) AddDir(path string) {
	fs.AddDirWithMode(path, 0o755)
}

// AddDirWithMode adds a directory with an explicit mode.
func (fs *FileSystem) AddDirWithMode(path string, mode os.FileMode) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	fs.modes[path] = mode
}

// ReadFile reads a file.
func (fs *FileSystem) ReadFile(path string) ([]byte, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	if content, ok := fs.files[path]; ok {
		return content, nil
	}
	return nil, fmt.Errorf("file not found: %s", path)
}

// WriteFile writes a file.
func (fs *FileSystem) WriteFile(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = data
	fs.modes[path] = perm
	return nil
}

// Exists checks if a path exists.
func (fs *FileSystem) Exists(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	_, fileExists := fs.files[path]
	return fileExists || fs.dirs[path]
}

// Remove removes a path.
func (fs *FileSystem) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	delete(fs.files, path)
	delete(fs.dirs, path)
	delete(fs.modes, path)
	return nil
}

// MkdirAll creates a directory and its parents.
func (fs *FileSystem) MkdirAll(path string, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.dirs[path] = true
	fs.modes[path] = perm
	return nil
}

// Chmod changes the recorded mode of a path.
func (fs *FileSystem) Chmod(path string, mode os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, ok := fs.files[path]; !ok && !fs.dirs[path] {
		return fmt.Errorf("file not found: %s", path)
	}
	fs.modes[path] = mode
	return nil
}

// FileHash returns a SHA256 hash of a file's contents.
func (fs *FileSystem) FileHash(path string) (string, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	content, ok := fs.files[path]
	if !ok {
		return "", fmt.Errorf("file not found: %s", path)
	}
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:]), nil
}

// IsDir checks if a path is a directory.
func (fs *FileSystem) IsDir(path string) bool {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.dirs[path]
}

// CopyFile copies a file within the mock filesystem.
func (fs *FileSystem) CopyFile(src, dest string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	content, ok := fs.files[src]
	if !ok {
		return fmt.Errorf("file not found: %s", src)
	}
	data := make([]byte, len(content))
	copy(data, content)
	fs.files[dest] = data
	fs.modes[dest] = fs.modes[src]
	return nil
}

// GetFileInfo returns metadata for a path.
func (fs *FileSystem) GetFileInfo(path string) (ports.FileInfo, error) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	if content, ok := fs.files[path]; ok {
		return ports.FileInfo{
			Size:    int64(len(content)),
			Mode:    fs.modes[path],
			ModTime: fs.modTimeFor(path),
		}, nil
	}
	if fs.dirs[path] {
		return ports.FileInfo{
			Mode:    os.ModeDir | fs.modes[path],
			ModTime: fs.modTimeFor(path),
			IsDir:   true,
		}, nil
	}
	return ports.FileInfo{}, fmt.Errorf("file not found: %s", path)
}

func (fs *FileSystem) modTimeFor(path string) time.Time {
	if t, ok := fs.modTimes[path]; ok {
		return t
	}
	return time.Now()
}

// Files returns the paths of all files, for assertions.
func (fs *FileSystem) Files() []string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	paths := make([]string, 0, len(fs.files))
	for path := range fs.files {
		paths = append(paths, path)
	}
	return paths
}

// Content returns a file's content as a string, or "" when absent.
func (fs *FileSystem) Content(path string) string {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return string(fs.files[path])
}

// LineCount returns how many lines of a file equal the given line exactly.
func (fs *FileSystem) LineCount(path, line string) int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	count := 0
	for _, l := range strings.Split(string(fs.files[path]), "\n") {
		if l == line {
			count++
		}
	}
	return count
}

// Ensure FileSystem implements ports.FileSystem.
var _ ports.FileSystem = (*FileSystem)(nil)
