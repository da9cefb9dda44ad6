//go:build !unix

package vos

func hostAccess(string) (Access, bool) {
	return Access{}, false
}
