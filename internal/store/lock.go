package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultLockTTL is the age after which a leftover lock file is broken.
const DefaultLockTTL = 10 * time.Minute

// acquireLock creates the lock file exclusively. A lock older than ttl is
// assumed abandoned and removed.
func acquireLock(lockPath string, ttl time.Duration) error {
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return err
	}
	for attempt := 0; attempt < 3; attempt++ {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, _ = fmt.Fprintf(f, `{"pid":%d,"time":%d}`+"\n", os.Getpid(), time.Now().Unix())
			return f.Close()
		}
		if !os.IsExist(err) {
			return err
		}
		fi, err := os.Stat(lockPath)
		if err != nil {
			continue
		}
		if time.Since(fi.ModTime()) >= ttl {
			_ = os.Remove(lockPath)
			continue
		}
		return ErrLocked
	}
	return ErrLocked
}

func releaseLock(lockPath string) {
	_ = os.Remove(lockPath)
}
