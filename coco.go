package mm2coco

// COCO target document specific functionality.

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"time"
)

// COCOInfo is the document metadata block.
type COCOInfo struct {
	Year        int    `json:"year"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Contributor string `json:"contributor"`
	URL         string `json:"url"`
	DateCreated string `json:"date_created"`
}

// COCOLicense is a license entry referenced by image entries.
type COCOLicense struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// COCOImage is a single image entry.
type COCOImage struct {
	ID           int    `json:"id"`
	FileName     string `json:"file_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	License      int    `json:"license"`
	DateCaptured string `json:"date_captured"`
}

// COCOAnnotation is a single object annotation entry.
type COCOAnnotation struct {
	ID           int         `json:"id"`
	ImageID      int         `json:"image_id"`
	CategoryID   int         `json:"category_id"`
	BBox         []float64   `json:"bbox"`
	Area         float64     `json:"area"`
	IsCrowd      int         `json:"iscrowd"`
	Segmentation [][]float64 `json:"segmentation"`
}

// COCOCategory is a single category entry.
type COCOCategory struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Supercategory string `json:"supercategory"`
}

// COCODocument is the full output document structure.
type COCODocument struct {
	Info        COCOInfo         `json:"info"`
	Licenses    []COCOLicense    `json:"licenses"`
	Images      []COCOImage      `json:"images"`
	Annotations []COCOAnnotation `json:"annotations"`
	Categories  []COCOCategory   `json:"categories"`
}

// CategoryRegistry assigns stable 1-based category IDs to labels in first-seen
// order. It only grows; a label keeps its ID for the lifetime of the registry.
type CategoryRegistry struct {
	ids        map[string]int
	categories []COCOCategory
}

// NewCategoryRegistry returns an empty registry.
func NewCategoryRegistry() *CategoryRegistry {
	return &CategoryRegistry{ids: make(map[string]int)}
}

// Resolve returns the category ID for label, assigning the next free ID and
// recording a new category entry on first sight.
func (r *CategoryRegistry) Resolve(label string) int {
	if id, ok := r.ids[label]; ok {
		return id
	}

	id := len(r.categories) + 1
	r.ids[label] = id
	r.categories = append(r.categories, COCOCategory{
		ID:            id,
		Name:          label,
		Supercategory: "object",
	})
	return id
}

// Categories returns the category entries in assignment order.
func (r *CategoryRegistry) Categories() []COCOCategory {
	return r.categories
}

// DocumentBuilder accumulates image and annotation entries into a COCODocument.
// IDs are sequential and 1-based, in the order entries are added.
type DocumentBuilder struct {
	doc COCODocument
}

// NewDocumentBuilder initialises an empty document with its fixed metadata block
// and default license.
func NewDocumentBuilder(now time.Time) *DocumentBuilder {
	return &DocumentBuilder{
		doc: COCODocument{
			Info: COCOInfo{
				Year:        now.Year(),
				Version:     "1.0",
				Description: "Converted dataset to COCO format from Mech-Mind DLK format.",
				Contributor: "SuperbAI",
				DateCreated: now.Format(time.RFC3339),
			},
			Licenses:    []COCOLicense{{ID: 1, Name: "Default License"}},
			Images:      []COCOImage{},
			Annotations: []COCOAnnotation{},
			Categories:  []COCOCategory{},
		},
	}
}

// AddImage appends an image entry and returns its ID.
func (b *DocumentBuilder) AddImage(fileName string, width, height int) int {
	id := len(b.doc.Images) + 1
	b.doc.Images = append(b.doc.Images, COCOImage{
		ID:       id,
		FileName: fileName,
		Width:    width,
		Height:   height,
		License:  1,
	})
	return id
}

// AddAnnotation appends an annotation entry linking obj to the given image and
// category IDs. A missing segmentation serialises as an empty list, not null.
func (b *DocumentBuilder) AddAnnotation(imageID, categoryID int, obj AbsoluteObject) {
	segmentation := obj.Segmentation
	if segmentation == nil {
		segmentation = [][]float64{}
	}

	b.doc.Annotations = append(b.doc.Annotations, COCOAnnotation{
		ID:           len(b.doc.Annotations) + 1,
		ImageID:      imageID,
		CategoryID:   categoryID,
		BBox:         obj.BBox[:],
		Area:         obj.Area,
		Segmentation: segmentation,
	})
}

// Finish attaches the category entries and returns the completed document.
func (b *DocumentBuilder) Finish(categories []COCOCategory) *COCODocument {
	if categories != nil {
		b.doc.Categories = categories
	}
	return &b.doc
}

// WriteCOCO writes the document as indented JSON to outFile.
func WriteCOCO(outFile string, doc *COCODocument) error {
	enc, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	if err := ioutil.WriteFile(outFile, enc, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %v", outFile, err)
	}
	return nil
}
