//go:build !unix

package goless

import "os"

// statIdentity has no portable inode/device pair outside unix; rotation
// detection there falls back to size-shrink alone.
func statIdentity(st os.FileInfo) (ino, dev uint64) {
	return 0, 0
}
