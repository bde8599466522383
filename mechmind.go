package mm2coco

// Mech-Mind DLK source layout specific functionality.

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
)

// The fixed sub-paths of the Mech-Mind DLK layout. Only module "0" is read.
const (
	mmImageSubdir      = "modules/0/dataset"
	mmROIConfigSubpath = "modules/0/model/color_roi.json"
	mmAnnotationSubdir = "modules/0/model/data"
)

// mmImageExts are the image file extensions accepted in the dataset directory.
var mmImageExts = []string{".jpg", ".jpeg", ".png"}

// MMObject is a single labelled object within a Mech-Mind annotation file.
//
// BndBox is [x, y, width, height] in pixels relative to the ROI crop. Contours
// follow the OpenCV nesting, where each point is a one-element list holding
// [x, y], and the coordinates are offsets from the bounding box origin, not from
// the ROI origin.
type MMObject struct {
	Label    string          `json:"label"`
	BndBox   []float64       `json:"bndbox"`
	Contours [][][][]float64 `json:"contours"`
}

// MMAnnotationFile is the parsed content of one Mech-Mind annotation file.
type MMAnnotationFile struct {
	Objects []MMObject `json:"objects"`
	// FilePath is the annotation file this was read from. Not part of the JSON.
	FilePath string `json:"-"`
}

// MatchedRecord pairs an annotation file with the image it describes.
type MatchedRecord struct {
	Annotation MMAnnotationFile
	ImagePath  string
}

// CheckMechMindDir verifies that inputDir holds the expected Mech-Mind DLK layout:
// the image directory, the ROI config file and the annotation directory.
func CheckMechMindDir(inputDir string) error {
	if info, err := os.Stat(inputDir); err != nil || !info.IsDir() {
		return &DirectoryNotFoundError{Path: inputDir}
	}

	imageDir := filepath.Join(inputDir, mmImageSubdir)
	if info, err := os.Stat(imageDir); err != nil || !info.IsDir() {
		return &DirectoryNotFoundError{Path: imageDir}
	}

	roiPath := filepath.Join(inputDir, mmROIConfigSubpath)
	if _, err := os.Stat(roiPath); err != nil {
		return &FileNotFoundError{Path: roiPath}
	}

	annotationDir := filepath.Join(inputDir, mmAnnotationSubdir)
	if info, err := os.Stat(annotationDir); err != nil || !info.IsDir() {
		return &DirectoryNotFoundError{Path: annotationDir}
	}

	return nil
}

// FromMechMind reads the dataset under inputDir: the ROI config, the image files
// and the annotation files, with images matched to annotation records by file name
// stem.
//
// Both directory listings are sorted, so the matching and the resulting record
// order are stable across platforms. Images without a matching annotation are
// dropped. An image whose stem is shared by several images (e.g. a.jpg and a.png)
// matches the same annotation record more than once.
func FromMechMind(inputDir string) (ROIConfig, []MatchedRecord, error) {
	roi, err := ReadROIConfig(filepath.Join(inputDir, mmROIConfigSubpath))
	if err != nil {
		return ROIConfig{}, nil, err
	}

	imageDir := filepath.Join(inputDir, mmImageSubdir)
	imageFiles, err := filesByExtInDir(imageDir, mmImageExts...)
	if err != nil {
		return ROIConfig{}, nil, err
	}
	if len(imageFiles) == 0 {
		return ROIConfig{}, nil, &EmptyDatasetError{Path: imageDir, Kind: "image"}
	}

	annotationDir := filepath.Join(inputDir, mmAnnotationSubdir)
	annotationFiles, err := filesByExtInDir(annotationDir, ".json")
	if err != nil {
		return ROIConfig{}, nil, err
	}
	if len(annotationFiles) == 0 {
		return ROIConfig{}, nil, &EmptyDatasetError{Path: annotationDir, Kind: "annotation"}
	}

	annotations, err := parseMMAnnotations(annotationFiles)
	if err != nil {
		return ROIConfig{}, nil, err
	}

	// Index the annotation records by file name stem. The listing is sorted, so the
	// lexicographically first file wins if two annotation files share a stem.
	byStem := make(map[string]*MMAnnotationFile, len(annotations))
	for i := range annotations {
		s := stem(annotations[i].FilePath)
		if _, ok := byStem[s]; !ok {
			byStem[s] = &annotations[i]
		}
	}

	records := make([]MatchedRecord, 0, len(imageFiles))
	for _, imagePath := range imageFiles {
		annotation, ok := byStem[stem(imagePath)]
		if !ok {
			log.Printf("No annotation file for %q, dropping it", imagePath)
			continue
		}
		records = append(records, MatchedRecord{Annotation: *annotation, ImagePath: imagePath})
	}
	log.Printf("Matched %d of %d images to annotation records", len(records), len(imageFiles))

	return roi, records, nil
}

// parseMMAnnotations parses each annotation file in paths.
func parseMMAnnotations(paths []string) ([]MMAnnotationFile, error) {
	files := make([]MMAnnotationFile, 0, len(paths))
	for _, path := range paths {
		enc, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, err
		}

		var f MMAnnotationFile
		if err := json.Unmarshal(enc, &f); err != nil {
			return nil, fmt.Errorf("failed to parse the annotation file %q: %v", path, err)
		}
		f.FilePath = path
		files = append(files, f)
	}

	return files, nil
}
