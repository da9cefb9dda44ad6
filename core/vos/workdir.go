package vos

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoSuchDirectory is returned by Chdir when the target is missing or is
// not a directory.
var ErrNoSuchDirectory = errors.New("directory does not exist")

// WorkDir is the working directory of a shell session. The home directory
// is fixed at construction, the current directory only moves through Chdir
// and Home.
type WorkDir struct {
	fs   VFS
	dir  string
	home string
}

// NewWorkDir starts a session in dir. Both dir and home are made absolute;
// dir must be an existing directory on fs.
func NewWorkDir(fs VFS, dir, home string) (*WorkDir, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	home, err = filepath.Abs(home)
	if err != nil {
		return nil, err
	}

	stat, err := fs.Stat(dir)
	switch {
	case err != nil:
		return nil, fmt.Errorf("%s: %w", dir, err)
	case !stat.IsDir():
		return nil, fmt.Errorf("%s: %w", dir, ErrNoSuchDirectory)
	}

	return &WorkDir{fs: fs, dir: dir, home: home}, nil
}

// FS returns the filesystem the directory lives on.
func (w *WorkDir) FS() VFS {
	return w.fs
}

// Getwd returns the absolute current directory.
func (w *WorkDir) Getwd() string {
	return w.dir
}

// HomeDir returns the fixed home directory.
func (w *WorkDir) HomeDir() string {
	return w.home
}

// Resolve returns the path of name under the current directory. Absolute
// names are treated as relative too.
func (w *WorkDir) Resolve(name string) string {
	return filepath.Join(w.dir, name)
}

// Encloses reports whether path is the current directory or one of its
// parents.
func (w *WorkDir) Encloses(path string) bool {
	rel, err := filepath.Rel(filepath.Clean(path), w.dir)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// Home moves to the home directory without checking that it exists.
func (w *WorkDir) Home() {
	w.dir = w.home
}

// Chdir moves into target:
//
//	".."  the parent, or nowhere when already at a root
//	"."   nowhere
//	name  a directory under the current one
func (w *WorkDir) Chdir(target string) error {
	switch target {
	case ".":
		return nil

	case "..":
		if parent := filepath.Dir(w.dir); parent != w.dir {
			w.dir = parent
		}
		return nil
	}

	next := w.Resolve(target)
	stat, err := w.fs.Stat(next)
	if err != nil || !stat.IsDir() {
		return fmt.Errorf("%s: %w", target, ErrNoSuchDirectory)
	}

	w.dir = next
	return nil
}
