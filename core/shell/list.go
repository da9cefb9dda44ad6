package shell

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/josephlewis42/tinysh/core/vos"
	"github.com/spf13/afero"
)

// ListTimeFormat is the modification time layout used by list.
const ListTimeFormat = "Jan 02, 2006 15:04"

// FormatListing describes every entry of dir, sorted by name, one per line:
//
//	drwx       4096 Jan 02, 2006 15:04 name
//
// The flags are directory, then read, write and execute access for the
// current user. Times are shown in loc.
func FormatListing(fs vos.VFS, dir string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(entries))
	for _, info := range entries {
		access := vos.CheckAccess(fs, filepath.Join(dir, info.Name()), info)

		var flags strings.Builder
		flags.WriteByte(flag(info.IsDir(), 'd'))
		flags.WriteByte(flag(access.Read, 'r'))
		flags.WriteByte(flag(access.Write, 'w'))
		flags.WriteByte(flag(access.Execute, 'x'))

		lines = append(lines, fmt.Sprintf("%s %10d %s %s",
			flags.String(),
			info.Size(),
			info.ModTime().In(loc).Format(ListTimeFormat),
			info.Name()))
	}

	return strings.Join(lines, "\n"), nil
}

func flag(set bool, c byte) byte {
	if set {
		return c
	}
	return '-'
}
