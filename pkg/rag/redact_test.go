package rag

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactStockCounts(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		threshold int
		want      string
	}{
		{
			name:      "low count preserved",
			input:     "Name: iPhone 15\nStock: 3\nPrice: 999",
			threshold: 5,
			want:      "Name: iPhone 15\nStock: 3\nPrice: 999",
		},
		{
			name:      "high count redacted",
			input:     "Name: iPhone 15\nStock: 50\nPrice: 999",
			threshold: 5,
			want:      "Name: iPhone 15\nStock: plenty in stock\nPrice: 999",
		},
		{
			name:      "threshold itself is redacted",
			input:     "Stock: 5",
			threshold: 5,
			want:      "Stock: plenty in stock",
		},
		{
			name:      "multiple blocks handled independently",
			input:     "Stock: 2\n---\nStock: 120\n---\nStock: 4",
			threshold: 5,
			want:      "Stock: 2\n---\nStock: plenty in stock\n---\nStock: 4",
		},
		{
			name:      "numbers outside stock lines untouched",
			input:     "Price: 999\nWarranty: 12 months\nStock: 999",
			threshold: 5,
			want:      "Price: 999\nWarranty: 12 months\nStock: plenty in stock",
		},
		{
			name:      "non numeric stock untouched",
			input:     "Stock: N/A",
			threshold: 5,
			want:      "Stock: N/A",
		},
		{
			name:      "mid line mention untouched",
			input:     "The Stock: 50 note is part of a sentence",
			threshold: 5,
			want:      "The Stock: 50 note is part of a sentence",
		},
		{
			name:      "zero threshold disables redaction",
			input:     "Stock: 5000",
			threshold: 0,
			want:      "Stock: 5000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactStockCounts(tt.input, tt.threshold))
		})
	}
}
