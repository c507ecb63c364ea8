//go:build !linux && !aix && !solaris && !zos && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly && !windows

package errors

func isTerminal(fd uintptr) bool {
	return false
}
