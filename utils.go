package mm2coco

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

// filesByExtInDir returns all regular files directly in dirPath whose file
// extension matches one of exts (case-insensitive, with the leading dot). All
// regular files are returned if exts is empty.
//
// The result is sorted by file name so that processing order does not depend on
// the platform's directory iteration order.
func filesByExtInDir(dirPath string, exts ...string) ([]string, error) {
	dirInfo, err := os.Stat(dirPath)
	if err != nil || !dirInfo.IsDir() {
		return nil, &DirectoryNotFoundError{Path: dirPath}
	}

	entries, err := ioutil.ReadDir(dirPath)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !entry.Mode().IsRegular() && (entry.Mode()&os.ModeSymlink == 0) {
			continue
		}
		if len(exts) > 0 && !hasAnyExt(entry.Name(), exts) {
			continue
		}
		files = append(files, filepath.Join(dirPath, entry.Name()))
	}

	return files, nil
}

// hasAnyExt reports whether name has one of the given file extensions,
// compared case-insensitively.
func hasAnyExt(name string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// stem returns the base name of path with the file extension stripped.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// copyFile copies the file at src to dst, replacing dst if it exists.
func copyFile(dst, src string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(in, &err)

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// closeWithErrCheck calls c.Close(). If it returns an error, and (*e == nil), e is
// set to that error.
func closeWithErrCheck(c io.Closer, e *error) {
	err := c.Close()
	if err != nil && *e == nil {
		*e = err
	}
}
