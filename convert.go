package mm2coco

// The conversion pipeline from matched Mech-Mind records to the COCO document.

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// The output dataset layout.
const (
	OutputImageSubdir      = "data"
	OutputAnnotationSubdir = "annotations"
	OutputAnnotationFile   = "instances_train2017.json"
)

// Warning describes a record or object that was skipped during conversion.
type Warning struct {
	Path   string // The affected image or annotation file.
	Reason string
}

// Diagnostics collects the warnings emitted by a single conversion run, in the
// order they occurred.
type Diagnostics []Warning

// warnf logs the warning and appends it to the list.
func (d *Diagnostics) warnf(path, format string, args ...interface{}) {
	reason := fmt.Sprintf(format, args...)
	log.Printf("%s: %s", path, reason)
	*d = append(*d, Warning{Path: path, Reason: reason})
}

// ConvertOptions control the optional image processing applied while converting.
// The zero value copies images byte-for-byte and changes nothing else.
type ConvertOptions struct {
	ResizeLonger  int    // Target length for the longer image side. 0 keeps the size.
	ResizeShorter int    // Target length for the shorter image side. 0 keeps the size.
	Encoding      string // Output encoding for resized images: "jpg" (default) or "png".
	JPEGQuality   int    // Quality for JPEG outputs, [1, 100].
}

func (o ConvertOptions) resize() bool {
	return o.ResizeLonger > 0 || o.ResizeShorter > 0
}

// CreateOutputDir removes any previous output at outputDir and creates a fresh
// layout with the image and annotation subdirectories.
func CreateOutputDir(outputDir string) error {
	if err := os.RemoveAll(outputDir); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Join(outputDir, OutputImageSubdir), 0755); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(outputDir, OutputAnnotationSubdir), 0755)
}

// ToCOCO converts the matched records into a COCO document, writing the image
// files to imageOutDir as it goes. Category IDs are assigned through registry in
// first-seen order over the record traversal.
//
// Unreadable images are skipped together with their annotations; objects without a
// label, bounding box or contours are skipped individually. Neither aborts the
// run. The returned Diagnostics describe everything that was dropped. Two source
// images sharing a base name overwrite each other in imageOutDir.
func ToCOCO(roi ROIConfig, records []MatchedRecord, imageOutDir string,
	registry *CategoryRegistry, opts ConvertOptions) (*COCODocument, Diagnostics, error) {

	builder := NewDocumentBuilder(time.Now())
	var diags Diagnostics

	for _, record := range records {
		cfg, _, err := decodeImageConfig(record.ImagePath)
		if err != nil {
			diags.warnf(record.ImagePath, "cannot decode the image, skipping the record: %v", err)
			continue
		}

		width, height := cfg.Width, cfg.Height
		outName := filepath.Base(record.ImagePath)
		scaleWidth, scaleHeight := 1.0, 1.0

		if opts.resize() {
			img, _, err := loadImage(record.ImagePath)
			if err != nil {
				diags.warnf(record.ImagePath, "cannot decode the image, skipping the record: %v", err)
				continue
			}

			resized, sw, sh := resizeImage(img, opts.ResizeLonger, opts.ResizeShorter)
			outName = stem(record.ImagePath) + outputImageExt(opts.Encoding)
			if err := saveImage(filepath.Join(imageOutDir, outName), resized, opts.JPEGQuality); err != nil {
				return nil, diags, err
			}

			bounds := resized.Bounds()
			width, height = bounds.Dx(), bounds.Dy()
			scaleWidth, scaleHeight = sw, sh
		} else {
			if err := copyFile(filepath.Join(imageOutDir, outName), record.ImagePath); err != nil {
				return nil, diags, err
			}
		}

		imageID := builder.AddImage(outName, width, height)

		for _, obj := range record.Annotation.Objects {
			if obj.Label == "" || len(obj.BndBox) != 4 || len(obj.Contours) == 0 {
				diags.warnf(record.Annotation.FilePath,
					"object missing label, bndbox or contours, skipping it")
				continue
			}

			// Remap against the original dimensions, then scale if the image was resized.
			abs := RemapObject(obj, roi, cfg.Width, cfg.Height)
			if scaleWidth != 1 || scaleHeight != 1 {
				abs.scale(scaleWidth, scaleHeight)
			}

			builder.AddAnnotation(imageID, registry.Resolve(obj.Label), abs)
		}
	}

	return builder.Finish(registry.Categories()), diags, nil
}

// outputImageExt maps an encoding name to the output file extension. Unknown
// encodings fall back to JPEG; the CLI validates the flag value up front.
func outputImageExt(encoding string) string {
	if strings.EqualFold(encoding, "png") {
		return ".png"
	}
	return ".jpg"
}
