// Package stacktrace trims runtime stacks down to this module's frames.
package stacktrace

import (
	"bufio"
	"bytes"
	"strings"
)

// InternalPaths returns "internal/<pkg>/<file>.go:<line>" for every frame
// of debug.Stack output that lives under an internal/ directory.
func InternalPaths(stack []byte) []string {
	var paths []string

	sc := bufio.NewScanner(bytes.NewReader(stack))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		file, _, _ := strings.Cut(line, " +0x")
		if !strings.Contains(file, ".go:") {
			continue
		}

		idx := strings.Index(file, "/internal/")
		if idx == -1 {
			continue
		}
		paths = append(paths, file[idx+1:])
	}

	return paths
}
