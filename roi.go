package mm2coco

// Mech-Mind DLK ROI configuration specific functionality.

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

// ROIConfig holds the crop rectangle of the annotated region, expressed as ratios
// of the full image width and height.
//
// WidthRatio and HeightRatio are read and carried but are not applied when
// translating bounding boxes; only the origin offset matters there. The tool this
// converter replaces behaves the same way, and changing it would change the output
// coordinates for every existing dataset.
type ROIConfig struct {
	StartXRatio float64
	StartYRatio float64
	WidthRatio  float64
	HeightRatio float64
}

// ReadROIConfig reads the ROI ratios from the JSON file at path.
//
// The file holds a list of config records; only the first record is read. Each of
// the four ratio keys must be present. Values are not range-checked.
func ReadROIConfig(path string) (ROIConfig, error) {
	enc, err := ioutil.ReadFile(path)
	if err != nil {
		return ROIConfig{}, err
	}

	var records []struct {
		StartXRatio *float64 `json:"startXRatio"`
		StartYRatio *float64 `json:"startYRatio"`
		WidthRatio  *float64 `json:"widthRatio"`
		HeightRatio *float64 `json:"heightRatio"`
	}
	if err := json.Unmarshal(enc, &records); err != nil {
		return ROIConfig{}, fmt.Errorf("failed to parse the ROI config from %q: %v", path, err)
	}
	if len(records) == 0 {
		return ROIConfig{}, fmt.Errorf("no records in the ROI config %q", path)
	}

	record := records[0]
	required := []struct {
		key   string
		value *float64
	}{
		{"startXRatio", record.StartXRatio},
		{"startYRatio", record.StartYRatio},
		{"widthRatio", record.WidthRatio},
		{"heightRatio", record.HeightRatio},
	}
	for _, r := range required {
		if r.value == nil {
			return ROIConfig{}, &MissingFieldError{Field: r.key, Path: path}
		}
	}

	return ROIConfig{
		StartXRatio: *record.StartXRatio,
		StartYRatio: *record.StartYRatio,
		WidthRatio:  *record.WidthRatio,
		HeightRatio: *record.HeightRatio,
	}, nil
}
