// Package util provides path and file helpers used by the commands.
package util

import (
	"os"
	"path/filepath"
)

// FullPath resolves a (possibly relative) path against the working
// directory.
func FullPath(path string) string {
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			panic(err)
		}
		path = filepath.Join(cwd, path)
	}
	return path
}

// Exists reports whether a file or directory exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
