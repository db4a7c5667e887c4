package rag

import (
	"regexp"
	"strconv"
)

var stockLinePattern = regexp.MustCompile(`(?m)^(Stock:\s*)(\d+)\s*$`)

// RedactStockCounts rewrites "Stock: N" lines in retrieved context so the
// model never sees large exact quantities. Counts at or above threshold
// become "plenty in stock"; smaller counts pass through unchanged. The
// redaction happens before generation, so it holds regardless of how the
// model phrases its answer.
func RedactStockCounts(text string, threshold int) string {
	if threshold <= 0 {
		return text
	}
	return stockLinePattern.ReplaceAllStringFunc(text, func(line string) string {
		groups := stockLinePattern.FindStringSubmatch(line)
		count, err := strconv.Atoi(groups[2])
		if err != nil || count < threshold {
			return line
		}
		return groups[1] + "plenty in stock"
	})
}
