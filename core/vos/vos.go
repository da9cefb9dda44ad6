// Package vos holds the operating system facing state of a shell session:
// the filesystem it lists and edits, the standard streams it talks to and
// the directory it works in.
package vos

import (
	"github.com/spf13/afero"
)

// VFS is the filesystem the shell's built-ins operate on.
type VFS = afero.Fs

// NewOsFs returns the host filesystem.
func NewOsFs() VFS {
	return afero.NewOsFs()
}
