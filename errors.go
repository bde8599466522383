package mm2coco

// Typed errors for the input validation failures that abort a conversion.

import "fmt"

// DirectoryNotFoundError indicates that a required input directory does not exist.
type DirectoryNotFoundError struct {
	Path string
}

func (e *DirectoryNotFoundError) Error() string {
	return fmt.Sprintf("directory not found: %q", e.Path)
}

// FileNotFoundError indicates that a required input file does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file not found: %q", e.Path)
}

// MissingFieldError indicates that a required key is absent from the ROI config.
type MissingFieldError struct {
	Field string
	Path  string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing field %q in %q", e.Field, e.Path)
}

// EmptyDatasetError indicates that no image or no annotation files were found.
type EmptyDatasetError struct {
	Path string
	Kind string // "image" or "annotation"
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("no %s files found in %q", e.Kind, e.Path)
}
