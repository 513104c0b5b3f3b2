package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// GetPathInfo resolves relPath to an absolute path and its directory.
func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", errors.Wrapf(err, "resolve %s", relPath)
	}
	return fullPath, filepath.Dir(fullPath), nil
}

// OutputPath replaces the extension of inPath with ext, or appends ext
// when inPath has none.
func OutputPath(inPath, ext string) string {
	cur := filepath.Ext(inPath)
	if cur == "" {
		return inPath + ext
	}
	return strings.TrimSuffix(inPath, cur) + ext
}

// ReadSource reads a program from path, resolved to an absolute path.
func ReadSource(path string) (src string, fullPath string, err error) {
	fullPath, _, err = GetPathInfo(path)
	if err != nil {
		return "", "", err
	}
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return "", fullPath, errors.Wrap(err, "read source")
	}
	return string(data), fullPath, nil
}
