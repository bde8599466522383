package mm2coco

// Label mapping functionality.

import (
	"fmt"
	"log"
	"strings"
)

// MapLabels replaces label (sub-)strings with substitution values, as specified in
// mappings, across all matched records.
//
// The format of mappings is old=new. Mapping happens before category IDs are
// assigned, so mapped labels share a single category.
func MapLabels(records []MatchedRecord, mappings []string) error {
	if len(mappings) == 0 {
		return nil
	}

	// Extract the individual old and new strings to map between.
	replacements := make([]struct{ old, new string }, len(mappings))
	for i, v := range mappings {
		a := strings.Split(v, "=")
		if len(a) != 2 {
			return fmt.Errorf("invalid mapping: %v", v)
		}

		replacements[i].old = a[0]
		replacements[i].new = a[1]
	}

	// Apply the replacements, in order, to all labels.
	count := 0
	for ri := range records {
		objects := records[ri].Annotation.Objects
		for i := range objects {
			oldLabel := objects[i].Label
			for _, r := range replacements {
				objects[i].Label = strings.Replace(objects[i].Label, r.old, r.new, -1)
			}

			if objects[i].Label != oldLabel {
				count++
			}
		}
	}

	log.Printf("The label mappings changed %d labels", count)
	return nil
}
