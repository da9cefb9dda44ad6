package vos

import (
	"io/fs"

	"github.com/spf13/afero"
)

// Access holds what the current user may do with a file.
type Access struct {
	Read    bool
	Write   bool
	Execute bool
}

// CheckAccess reports the current user's access to name. On the host
// filesystem this asks the kernel; on any other VFS the owner permission
// bits of info are used.
func CheckAccess(vfs VFS, name string, info fs.FileInfo) Access {
	if _, ok := vfs.(*afero.OsFs); ok {
		if access, ok := hostAccess(name); ok {
			return access
		}
	}

	perm := info.Mode().Perm()
	return Access{
		Read:    perm&0400 != 0,
		Write:   perm&0200 != 0,
		Execute: perm&0100 != 0,
	}
}
