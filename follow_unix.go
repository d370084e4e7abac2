//go:build unix

package goless

import (
	"os"
	"syscall"
)

// statIdentity extracts the (inode, device) pair used to detect file
// rotation under follow-by-name mode (§4.1, §9 open question #3).
func statIdentity(st os.FileInfo) (ino, dev uint64) {
	sys, ok := st.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, 0
	}
	return uint64(sys.Ino), uint64(sys.Dev)
}
