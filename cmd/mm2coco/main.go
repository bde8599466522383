// Converts a Mech-Mind DLK object detection dataset into a COCO instances dataset
// packaged for the SuperbAI labeling platform.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"

	"github.com/sensorable/mm2coco"
)

var (
	inputDir  string // The Mech-Mind DLK dataset root.
	outputDir string // The COCO output directory. Also names the zip archive.

	labelMappings string // A comma-separated string of label mappings.

	imageResizeLonger  int    // The target length for the longer side of the image.
	imageResizeShorter int    // The target length for the shorter side of the image.
	imageOutEncoding   string // The file type for resized image outputs.
	imageJPEGQuality   int    // The JPEG quality for JPEG outputs.

	tfRecordFilePath         string // The optional TFRecord output file.
	tfRecordLabelMapFilePath string // The label map file for the TFRecord output.
	numShardFiles            int    // The number of TFRecord shard files to create.
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr,
			"  Reads the Mech-Mind DLK dataset under -input (module 0 only) and writes a"+
				" COCO dataset to -output, then packages it into <output>.zip")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	// Path arguments.
	flag.StringVar(&inputDir, "input", "mm_data",
		"The `path` to the Mech-Mind DLK dataset root")
	flag.StringVar(&inputDir, "i", "mm_data", "Shorthand for -input")
	flag.StringVar(&outputDir, "output", "output",
		"The `path` to the COCO output directory")
	flag.StringVar(&outputDir, "o", "output", "Shorthand for -output")

	// Conversion arguments.
	flag.StringVar(&labelMappings, "map-labels", labelMappings,
		"Comma-separated list of old=new label (sub-)string replacements")

	// Image processing arguments.
	flag.IntVar(&imageResizeLonger, "resize-longer", imageResizeLonger,
		"The target `length` for the longer side of output images (zero keeps the size)")
	flag.IntVar(&imageResizeShorter, "resize-shorter", imageResizeShorter,
		"The target `length` for the shorter side of output images (zero keeps the size)")
	flag.StringVar(&imageOutEncoding, "image-enc", "jpg",
		"The `encoding` for resized output images {jpg, png}")
	flag.IntVar(&imageJPEGQuality, "jpeg-quality", 90,
		"The quality to use when encoding JPEGs [1, 100]")

	// TFRecord export arguments.
	flag.StringVar(&tfRecordFilePath, "tfrecord-out", tfRecordFilePath,
		"The `path` for an additional TFRecord export (empty disables it)")
	flag.StringVar(&tfRecordLabelMapFilePath, "tfrecord-label-map", tfRecordLabelMapFilePath,
		"The label map file `path` for the TFRecord export")
	flag.IntVar(&numShardFiles, "num-shards", 1,
		"The number of TFRecord shard files to create")

	flag.Parse()

	// Validate the arguments.
	if inputDir == "" || outputDir == "" {
		printUsageAndExit("Missing input or output path argument")
	}

	switch strings.ToLower(imageOutEncoding) {
	case "jpg", "jpeg", "png":
	default:
		printUsageAndExit("Unsupported image encoding ", imageOutEncoding)
	}
	if imageJPEGQuality < 1 || imageJPEGQuality > 100 {
		imageJPEGQuality = 92
		log.Print("Invalid JPEG quality, setting it to ", imageJPEGQuality)
	}

	if tfRecordFilePath != "" && tfRecordLabelMapFilePath == "" {
		printUsageAndExit("Missing -tfrecord-label-map argument")
	}

	// Clean path arguments.
	inputDir = filepath.Clean(inputDir)
	outputDir = filepath.Clean(outputDir)
	if inputDir == outputDir {
		printUsageAndExit("The input and output paths cannot be identical")
	}
}

func main() {
	// Validate the source layout before touching the output location.
	if err := mm2coco.CheckMechMindDir(inputDir); err != nil {
		fatal(err)
	}
	if err := mm2coco.CreateOutputDir(outputDir); err != nil {
		fatal(err)
	}

	roi, records, err := mm2coco.FromMechMind(inputDir)
	if err != nil {
		fatal(err)
	}

	// Map labels.
	if labelMappings != "" {
		if err := mm2coco.MapLabels(records, strings.Split(labelMappings, ",")); err != nil {
			fatal(err)
		}
	}

	// Convert to COCO, writing the images as a side effect.
	registry := mm2coco.NewCategoryRegistry()
	opts := mm2coco.ConvertOptions{
		ResizeLonger:  imageResizeLonger,
		ResizeShorter: imageResizeShorter,
		Encoding:      imageOutEncoding,
		JPEGQuality:   imageJPEGQuality,
	}
	imageOutDir := filepath.Join(outputDir, mm2coco.OutputImageSubdir)
	doc, diags, err := mm2coco.ToCOCO(roi, records, imageOutDir, registry, opts)
	if err != nil {
		fatal(err)
	}

	annotationsPath := filepath.Join(outputDir,
		mm2coco.OutputAnnotationSubdir, mm2coco.OutputAnnotationFile)
	if err := mm2coco.WriteCOCO(annotationsPath, doc); err != nil {
		fatal(err)
	}

	// Optional TFRecord export, sharing the category IDs with the COCO output.
	if tfRecordFilePath != "" {
		err := mm2coco.WriteTFRecord(tfRecordFilePath, tfRecordLabelMapFilePath,
			roi, records, registry, numShardFiles)
		if err != nil {
			fatal(err)
		}
		log.Print("Wrote the TFRecord export to ", tfRecordFilePath)
	}

	// Package the output directory.
	zipPath := outputDir + ".zip"
	if err := mm2coco.ZipDirectory(zipPath, outputDir); err != nil {
		fatal(err)
	}

	log.Printf("Wrote %d images, %d annotations and %d categories to %s",
		len(doc.Images), len(doc.Annotations), len(doc.Categories), outputDir)
	if len(diags) > 0 {
		log.Printf("Skipped %d records or objects, see the warnings above", len(diags))
	}
	log.Print("Packaged the dataset into ", zipPath)
}

// fatal logs the error with a stack trace and exits.
func fatal(err error) {
	log.Printf("Conversion failed: %v\n%s", err, debug.Stack())
	os.Exit(1)
}
