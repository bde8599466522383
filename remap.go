package mm2coco

// Translation of ROI-relative object geometry to absolute image coordinates.

import "math"

// AbsoluteObject is one labelled object with its geometry in full-image pixel
// coordinates.
type AbsoluteObject struct {
	Label        string
	BBox         [4]float64  // x, y, width, height
	Area         float64     // width * height of the bounding box
	Segmentation [][]float64 // Zero or more flattened x,y polygons.
}

// RemapObject translates obj from the ROI crop of an image with the given pixel
// size into absolute image coordinates.
//
// The ROI origin is the ratio offsets truncated to whole pixels. Only the origin
// offset is applied to the bounding box; see the note on ROIConfig. Contour points
// are offsets from the bounding box origin. Points that do not carry exactly two
// coordinate components are skipped, and contours that end up empty are dropped.
// The bounding box and area are rounded to two decimal places.
func RemapObject(obj MMObject, roi ROIConfig, width, height int) AbsoluteObject {
	roiX := float64(int(float64(width) * roi.StartXRatio))
	roiY := float64(int(float64(height) * roi.StartYRatio))

	x := obj.BndBox[0] + roiX
	y := obj.BndBox[1] + roiY

	segmentation := make([][]float64, 0, len(obj.Contours))
	for _, contour := range obj.Contours {
		flat := make([]float64, 0, 2*len(contour))
		for _, point := range contour {
			if len(point) == 0 || len(point[0]) != 2 {
				continue
			}
			flat = append(flat, point[0][0]+x, point[0][1]+y)
		}
		if len(flat) > 0 {
			segmentation = append(segmentation, flat)
		}
	}

	return AbsoluteObject{
		Label:        obj.Label,
		BBox:         [4]float64{round2(x), round2(y), round2(obj.BndBox[2]), round2(obj.BndBox[3])},
		Area:         round2(obj.BndBox[2] * obj.BndBox[3]),
		Segmentation: segmentation,
	}
}

// scale multiplies all coordinates and the area by the per-axis scale factors.
// Used when the output images are resized.
func (o *AbsoluteObject) scale(scaleWidth, scaleHeight float64) {
	o.BBox[0] = round2(o.BBox[0] * scaleWidth)
	o.BBox[1] = round2(o.BBox[1] * scaleHeight)
	o.BBox[2] = round2(o.BBox[2] * scaleWidth)
	o.BBox[3] = round2(o.BBox[3] * scaleHeight)
	o.Area = round2(o.Area * scaleWidth * scaleHeight)

	for _, polygon := range o.Segmentation {
		for i := range polygon {
			if i&1 == 0 {
				polygon[i] *= scaleWidth
			} else {
				polygon[i] *= scaleHeight
			}
		}
	}
}

// round2 rounds v to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
