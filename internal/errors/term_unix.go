//go:build linux || aix || solaris || zos

package errors

import "golang.org/x/sys/unix"

// isTerminal 能读到 termios 的文件描述符就是终端
func isTerminal(fd uintptr) bool {
	_, err := unix.IoctlGetTermios(int(fd), unix.TCGETS)
	return err == nil
}
