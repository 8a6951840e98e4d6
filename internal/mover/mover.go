// Package mover relocates finished files into the library, sidestepping
// name collisions with a timestamped version suffix.
package mover

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// MoveFile moves src into dstDir under filename, creating the directory as
// needed. If the target name is taken, a "_vYYYYMMDD_HHMM" suffix is added
// before the extension, then "_vN" counters on top of that until a free
// name is found. Returns the final path.
func MoveFile(src, dstDir, filename string) (string, error) {
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return "", fmt.Errorf("mover: %w", err)
	}

	dst := filepath.Join(dstDir, filename)
	if _, err := os.Stat(dst); err == nil {
		dst = versioned(dstDir, filename)
	}

	if err := os.Rename(src, dst); err != nil {
		return "", fmt.Errorf("mover: %w", err)
	}
	return dst, nil
}

func versioned(dstDir, filename string) string {
	ext := filepath.Ext(filename)
	stem := strings.TrimSuffix(filename, ext)
	stamp := time.Now().Format("20060102_1504")

	candidate := filepath.Join(dstDir, fmt.Sprintf("%s_v%s%s", stem, stamp, ext))
	for n := 1; ; n++ {
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
		candidate = filepath.Join(dstDir, fmt.Sprintf("%s_v%s_v%d%s", stem, stamp, n, ext))
	}
}
