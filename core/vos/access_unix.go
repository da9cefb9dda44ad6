//go:build unix

package vos

import "golang.org/x/sys/unix"

func hostAccess(name string) (Access, bool) {
	return Access{
		Read:    unix.Access(name, unix.R_OK) == nil,
		Write:   unix.Access(name, unix.W_OK) == nil,
		Execute: unix.Access(name, unix.X_OK) == nil,
	}, true
}
