package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
)

type faqDataset struct {
	Questions []FAQ `json:"questions"`
}

// LoadFAQs reads the business FAQ dataset, a JSON file with a "questions"
// array of question/answer objects.
func LoadFAQs(path string) ([]FAQ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read FAQ dataset %s: %w", path, err)
	}

	var dataset faqDataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse FAQ dataset %s: %w", path, err)
	}

	return dataset.Questions, nil
}
