package mm2coco

// Output archive packaging.

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ZipDirectory packages the directory at dirPath into a zip archive at zipPath.
//
// Entries are stored under the base name of dirPath, so unpacking the archive
// recreates the directory itself rather than spilling its contents.
func ZipDirectory(zipPath, dirPath string) (err error) {
	out, err := os.Create(zipPath)
	if err != nil {
		return err
	}
	defer closeWithErrCheck(out, &err)

	w := zip.NewWriter(out)
	base := filepath.Base(dirPath)

	err = filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dirPath, path)
		if err != nil {
			return err
		}

		entry, err := w.Create(base + "/" + filepath.ToSlash(rel))
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(entry, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to archive %q: %v", dirPath, err)
	}

	return w.Close()
}
