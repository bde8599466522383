package mm2coco

// TFRecord object detection export functionality.

import (
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"math"
	"os"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	"github.com/ryszard/tfutils/proto/tensorflow/core/example" // package tensorflow
)

// TFFeatureMap maps feature names to their values. Values must be convertible to
// tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// toTFExample builds the feature map for one matched record: the encoded image
// plus the normalised bounding boxes, class names and class IDs of its objects.
//
// Objects that would be skipped by the COCO conversion are skipped here too, so
// both outputs describe the same annotation set.
func toTFExample(record MatchedRecord, roi ROIConfig, registry *CategoryRegistry) (TFFeatureMap, error) {
	cfg, format, err := decodeImageConfig(record.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %v", err)
	}

	imgData, err := ioutil.ReadFile(record.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %v", err)
	}

	f := make(TFFeatureMap, 16)
	f["image/height"] = cfg.Height
	f["image/width"] = cfg.Width
	f["image/filename"] = record.ImagePath
	f["image/source_id"] = record.ImagePath
	f["image/encoded"] = imgData
	f["image/format"] = format

	objects := record.Annotation.Objects
	xmins := make([]float32, 0, len(objects))
	ymins := make([]float32, 0, len(objects))
	xmaxs := make([]float32, 0, len(objects))
	ymaxs := make([]float32, 0, len(objects))
	classes := make([]string, 0, len(objects))
	classIDs := make([]int64, 0, len(objects))
	for _, obj := range objects {
		if obj.Label == "" || len(obj.BndBox) != 4 || len(obj.Contours) == 0 {
			continue
		}

		abs := RemapObject(obj, roi, cfg.Width, cfg.Height)
		xmins = append(xmins, float32(abs.BBox[0]/float64(cfg.Width)))
		ymins = append(ymins, float32(abs.BBox[1]/float64(cfg.Height)))
		xmaxs = append(xmaxs, float32((abs.BBox[0]+abs.BBox[2])/float64(cfg.Width)))
		ymaxs = append(ymaxs, float32((abs.BBox[1]+abs.BBox[3])/float64(cfg.Height)))
		classes = append(classes, obj.Label)
		classIDs = append(classIDs, int64(registry.Resolve(obj.Label)))
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// WriteTFRecord does a streaming conversion, serialisation and file write for the
// matched records to one or more TFRecord files stored under recordFilePath (with
// shard suffixes added when numShards > 1).
//
// Class IDs are assigned through registry, so they agree with the COCO category
// IDs when the same registry drove both outputs. The label map is written to
// labelMapPath as JSON.
func WriteTFRecord(recordFilePath, labelMapPath string, roi ROIConfig,
	records []MatchedRecord, registry *CategoryRegistry, numShards int) (err error) {

	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if numShards <= 0 {
		numShards = 1
	}

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile *os.File
	shardSize := int(math.Ceil(float64(len(records)) / float64(numShards)))
	shardIdx := -1

	// Convert and serialise one record at a time.
	for i, record := range records {
		// Check if a new shard file needs to be opened for writing.
		if i%shardSize == 0 {
			shardIdx++

			if shardFile != nil {
				_ = shardFile.Close()
				shardFile = nil
			}

			shardPath := recordFilePath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return fmt.Errorf("failed to create shard at %q: %v", shardPath, err)
			}
			shardFile = f
		}

		features, err := toTFExample(record, roi, registry)
		if err != nil {
			log.Printf("Failed to convert %q: %v", record.ImagePath, err)
			continue
		}

		if err := writeTFRecordExample(shardFile, example.New(features)); err != nil {
			log.Print("Failed to write example: ", err)
			break
		}
	}

	if shardFile != nil {
		shardFile.Close()
	}

	return saveTFRecordLabelMap(labelMapPath, registry)
}

// writeTFRecordExample serialises the example and writes it as a TFRecord to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// saveTFRecordLabelMap writes the label to class ID mapping as JSON to path.
func saveTFRecordLabelMap(path string, registry *CategoryRegistry) error {
	categories := registry.Categories()
	labelMap := make(map[string]int, len(categories))
	for _, c := range categories {
		labelMap[c.Name] = c.ID
	}

	enc, err := json.MarshalIndent(labelMap, "", "  ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(path, enc, 0644); err != nil {
		return fmt.Errorf("cannot write the label map %q: %v", path, err)
	}
	return nil
}
