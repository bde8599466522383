package mm2coco

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestCategoryRegistryFirstSeenOrder(t *testing.T) {
	registry := NewCategoryRegistry()

	ids := []int{
		registry.Resolve("cat"),
		registry.Resolve("dog"),
		registry.Resolve("cat"),
	}
	if ids[0] != 1 || ids[1] != 2 || ids[2] != 1 {
		t.Errorf("ids = %v, want [1 2 1]", ids)
	}

	categories := registry.Categories()
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
	if categories[0].Name != "cat" || categories[0].ID != 1 {
		t.Errorf("categories[0] = %+v, want cat=1", categories[0])
	}
	if categories[1].Name != "dog" || categories[1].ID != 2 {
		t.Errorf("categories[1] = %+v, want dog=2", categories[1])
	}
	for _, c := range categories {
		if c.Supercategory != "object" {
			t.Errorf("supercategory = %q, want object", c.Supercategory)
		}
	}
}

func TestDocumentBuilder(t *testing.T) {
	now := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	builder := NewDocumentBuilder(now)

	id1 := builder.AddImage("a.png", 100, 80)
	id2 := builder.AddImage("b.png", 50, 40)
	if id1 != 1 || id2 != 2 {
		t.Errorf("image ids = %d, %d, want 1, 2", id1, id2)
	}

	builder.AddAnnotation(id1, 1, AbsoluteObject{BBox: [4]float64{1, 2, 3, 4}, Area: 12})
	builder.AddAnnotation(id2, 1, AbsoluteObject{
		BBox:         [4]float64{5, 6, 7, 8},
		Area:         56,
		Segmentation: [][]float64{{1, 1, 2, 2}},
	})

	registry := NewCategoryRegistry()
	registry.Resolve("cat")
	doc := builder.Finish(registry.Categories())

	if doc.Info.Year != 2026 || doc.Info.Version != "1.0" {
		t.Errorf("unexpected info block: %+v", doc.Info)
	}
	if len(doc.Licenses) != 1 || doc.Licenses[0].ID != 1 {
		t.Errorf("unexpected licenses: %+v", doc.Licenses)
	}
	if len(doc.Annotations) != 2 {
		t.Fatalf("got %d annotations, want 2", len(doc.Annotations))
	}
	if doc.Annotations[0].ID != 1 || doc.Annotations[1].ID != 2 {
		t.Errorf("annotation ids = %d, %d, want 1, 2",
			doc.Annotations[0].ID, doc.Annotations[1].ID)
	}
	if doc.Annotations[0].IsCrowd != 0 {
		t.Errorf("iscrowd = %d, want 0", doc.Annotations[0].IsCrowd)
	}

	// Every annotation must reference an existing image and category.
	imageIDs := make(map[int]bool)
	for _, img := range doc.Images {
		imageIDs[img.ID] = true
	}
	categoryIDs := make(map[int]bool)
	for _, c := range doc.Categories {
		categoryIDs[c.ID] = true
	}
	for _, a := range doc.Annotations {
		if !imageIDs[a.ImageID] {
			t.Errorf("annotation %d references unknown image %d", a.ID, a.ImageID)
		}
		if !categoryIDs[a.CategoryID] {
			t.Errorf("annotation %d references unknown category %d", a.ID, a.CategoryID)
		}
	}
}

func TestWriteCOCOEmptySegmentation(t *testing.T) {
	dir, err := ioutil.TempDir("", "coco")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	builder := NewDocumentBuilder(time.Now())
	imageID := builder.AddImage("a.png", 10, 10)
	builder.AddAnnotation(imageID, 1, AbsoluteObject{BBox: [4]float64{1, 2, 3, 4}, Area: 12})

	path := filepath.Join(dir, "instances.json")
	if err := WriteCOCO(path, builder.Finish(nil)); err != nil {
		t.Fatalf("WriteCOCO: %v", err)
	}

	enc, err := ioutil.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(enc), `"segmentation": null`) {
		t.Error("an empty segmentation must serialise as a list, not null")
	}
	if !strings.Contains(string(enc), `"segmentation": []`) {
		t.Error("expected an empty segmentation list in the output")
	}
	if !strings.Contains(string(enc), `"categories": []`) {
		t.Error("expected an empty categories list in the output")
	}
}
