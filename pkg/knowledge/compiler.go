package knowledge

import (
	"fmt"
	"os"
	"strings"

	"ai-support-chatbot-be/pkg/datasource"
)

// FAQ is a single question/answer pair from the business FAQ dataset.
type FAQ struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// catalogFields is the fixed field order of a catalog block. Keeping the
// order stable makes the compiled corpus byte-identical across rebuilds, so
// chunk boundaries stay reproducible.
var catalogFields = []string{
	"Product ID",
	"Product Name",
	"Category",
	"Brand",
	"Model",
	"Description",
	"Specifications",
	"Price",
	"Stock",
	"Warranty",
}

// fieldLabels maps a catalog field to the label printed in the corpus.
// "Product Name" renders as "Name" to keep blocks compact.
var fieldLabels = map[string]string{
	"Product Name": "Name",
}

// Compiler merges the about text, FAQ pairs and catalog records into one
// canonical corpus document and maintains the corpus artifact on disk.
type Compiler struct {
	corpusPath string
}

func NewCompiler(corpusPath string) *Compiler {
	return &Compiler{corpusPath: corpusPath}
}

// Compile produces the corpus text. It is a pure transformation: the same
// inputs always produce the same bytes.
func (c *Compiler) Compile(about string, faqs []FAQ, records []datasource.RawRecord) string {
	var b strings.Builder

	b.WriteString("## About the Business\n")
	b.WriteString(about + "\n\n")

	b.WriteString("## Frequently Asked Questions\n")
	for _, faq := range faqs {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", faq.Question, faq.Answer)
	}

	b.WriteString("\n## Product Listings/Phones/Electrical Appliances\n\n")
	for _, record := range records {
		for _, field := range catalogFields {
			label := field
			if l, ok := fieldLabels[field]; ok {
				label = l
			}
			fmt.Fprintf(&b, "%s: %s\n", label, fieldOrNA(record, field))
		}
		b.WriteString("\n---\n\n")
	}

	return b.String()
}

// WriteCorpus fully overwrites the corpus artifact. It never appends.
func (c *Compiler) WriteCorpus(corpus string) error {
	if err := os.WriteFile(c.corpusPath, []byte(corpus), 0644); err != nil {
		return fmt.Errorf("failed to write corpus artifact: %w", err)
	}
	return nil
}

// ReadCorpus loads the corpus artifact. A missing artifact is a
// configuration error: no build can run without it.
func (c *Compiler) ReadCorpus() (string, error) {
	data, err := os.ReadFile(c.corpusPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("corpus artifact %s not found: %w", c.corpusPath, err)
		}
		return "", fmt.Errorf("failed to read corpus artifact: %w", err)
	}
	return string(data), nil
}

func (c *Compiler) CorpusPath() string {
	return c.corpusPath
}

// fieldOrNA renders missing catalog fields as an explicit placeholder so the
// block structure is preserved even for sparse records.
func fieldOrNA(record datasource.RawRecord, field string) string {
	if v, ok := record[field]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return "N/A"
}
