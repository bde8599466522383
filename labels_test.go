package mm2coco

import "testing"

func TestMapLabels(t *testing.T) {
	records := []MatchedRecord{
		{Annotation: MMAnnotationFile{Objects: []MMObject{
			{Label: "cat_small"},
			{Label: "dog"},
		}}},
		{Annotation: MMAnnotationFile{Objects: []MMObject{
			{Label: "cat_large"},
		}}},
	}

	if err := MapLabels(records, []string{"cat_small=cat", "cat_large=cat"}); err != nil {
		t.Fatalf("MapLabels: %v", err)
	}

	if got := records[0].Annotation.Objects[0].Label; got != "cat" {
		t.Errorf("label = %q, want cat", got)
	}
	if got := records[0].Annotation.Objects[1].Label; got != "dog" {
		t.Errorf("label = %q, want dog", got)
	}
	if got := records[1].Annotation.Objects[0].Label; got != "cat" {
		t.Errorf("label = %q, want cat", got)
	}
}

func TestMapLabelsInvalidMapping(t *testing.T) {
	if err := MapLabels(nil, []string{"missing-separator"}); err == nil {
		t.Error("expected an error for an invalid mapping")
	}
}

func TestMapLabelsNoMappings(t *testing.T) {
	if err := MapLabels(nil, nil); err != nil {
		t.Errorf("no mappings must be a no-op: %v", err)
	}
}
