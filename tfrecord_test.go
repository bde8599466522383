package mm2coco

import (
	"encoding/json"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteTFRecord(t *testing.T) {
	root, imageDir, annotationDir := newMechMindLayout(t)
	defer os.RemoveAll(root)

	writeTestPNG(t, filepath.Join(imageDir, "a.png"), 100, 80)
	writeTestFile(t, filepath.Join(annotationDir, "a.json"), testAnnotationJSON("cat"))

	roi, records, err := FromMechMind(root)
	if err != nil {
		t.Fatal(err)
	}

	outDir, err := ioutil.TempDir("", "tfout")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(outDir)

	recordPath := filepath.Join(outDir, "train.tfrecord")
	labelMapPath := filepath.Join(outDir, "label_map.json")
	registry := NewCategoryRegistry()
	if err := WriteTFRecord(recordPath, labelMapPath, roi, records, registry, 1); err != nil {
		t.Fatalf("WriteTFRecord: %v", err)
	}

	info, err := os.Stat(recordPath)
	if err != nil {
		t.Fatalf("the record file was not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("the record file is empty")
	}

	enc, err := ioutil.ReadFile(labelMapPath)
	if err != nil {
		t.Fatalf("the label map was not written: %v", err)
	}
	var labelMap map[string]int
	if err := json.Unmarshal(enc, &labelMap); err != nil {
		t.Fatalf("failed to parse the label map: %v", err)
	}
	if len(labelMap) != 1 || labelMap["cat"] != 1 {
		t.Errorf("label map = %v, want cat=1", labelMap)
	}
}

func TestWriteTFRecordSharded(t *testing.T) {
	root, imageDir, annotationDir := newMechMindLayout(t)
	defer os.RemoveAll(root)

	for _, name := range []string{"a", "b"} {
		writeTestPNG(t, filepath.Join(imageDir, name+".png"), 32, 32)
		writeTestFile(t, filepath.Join(annotationDir, name+".json"), testAnnotationJSON("cat"))
	}

	roi, records, err := FromMechMind(root)
	if err != nil {
		t.Fatal(err)
	}

	outDir, err := ioutil.TempDir("", "tfout")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(outDir)

	recordPath := filepath.Join(outDir, "train.tfrecord")
	labelMapPath := filepath.Join(outDir, "label_map.json")
	if err := WriteTFRecord(recordPath, labelMapPath, roi, records, NewCategoryRegistry(), 2); err != nil {
		t.Fatalf("WriteTFRecord: %v", err)
	}

	for _, suffix := range []string{"-00000-of-00002", "-00001-of-00002"} {
		if _, err := os.Stat(recordPath + suffix); err != nil {
			t.Errorf("missing shard %s: %v", suffix, err)
		}
	}
}
