package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ai-support-chatbot-be/pkg/datasource"
)

func TestCompileSectionLayout(t *testing.T) {
	c := NewCompiler("")

	corpus := c.Compile(
		"We sell electronics.",
		[]FAQ{{Question: "Do you deliver?", Answer: "Yes, nationwide."}},
		[]datasource.RawRecord{
			{
				"Product ID":   "P-1",
				"Product Name": "iPhone 15",
				"Category":     "Phones",
				"Brand":        "Apple",
				"Price":        "999",
				"Stock":        "3",
			},
		},
	)

	assert.True(t, strings.HasPrefix(corpus, "## About the Business\nWe sell electronics.\n\n"))
	assert.Contains(t, corpus, "## Frequently Asked Questions\nQ: Do you deliver?\nA: Yes, nationwide.\n\n")
	assert.Contains(t, corpus, "\n## Product Listings/Phones/Electrical Appliances\n\n")

	// Product Name renders under the short label.
	assert.Contains(t, corpus, "Name: iPhone 15\n")
	assert.NotContains(t, corpus, "Product Name:")

	// Every block ends with the separator.
	assert.True(t, strings.HasSuffix(corpus, "\n---\n\n"))
}

func TestCompileMissingFieldsRenderNA(t *testing.T) {
	c := NewCompiler("")

	corpus := c.Compile("about", nil, []datasource.RawRecord{
		{"Product Name": "Bare Bulb"},
	})

	assert.Contains(t, corpus, "Product ID: N/A\n")
	assert.Contains(t, corpus, "Description: N/A\n")
	assert.Contains(t, corpus, "Warranty: N/A\n")

	// Whitespace-only values count as missing too.
	corpus = c.Compile("about", nil, []datasource.RawRecord{
		{"Product Name": "Bulb", "Price": "   "},
	})
	assert.Contains(t, corpus, "Price: N/A\n")
}

func TestCompileIsDeterministic(t *testing.T) {
	c := NewCompiler("")
	records := []datasource.RawRecord{
		{"Product ID": "1", "Product Name": "A", "Stock": "10"},
		{"Product ID": "2", "Product Name": "B", "Stock": "2"},
	}
	faqs := []FAQ{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}}

	first := c.Compile("about text", faqs, records)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.Compile("about text", faqs, records))
	}
}

func TestWriteCorpusOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge.txt")
	c := NewCompiler(path)

	require.NoError(t, c.WriteCorpus("first version with plenty of text"))
	require.NoError(t, c.WriteCorpus("second"))

	got, err := c.ReadCorpus()
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestReadCorpusMissingArtifact(t *testing.T) {
	c := NewCompiler(filepath.Join(t.TempDir(), "missing.txt"))

	_, err := c.ReadCorpus()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLoadFAQs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "faqs.json")
	payload := `{"questions":[{"question":"Do you ship?","answer":"Yes."},{"question":"Warranty?","answer":"One year."}]}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	faqs, err := LoadFAQs(path)
	require.NoError(t, err)
	require.Len(t, faqs, 2)
	assert.Equal(t, "Do you ship?", faqs[0].Question)
	assert.Equal(t, "One year.", faqs[1].Answer)
}
