package datasource

import "context"

// RawRecord is one opaque field-value mapping fetched from the business data
// source (a catalog item). Records are fetched fresh on every poll and never
// mutated in place.
type RawRecord map[string]string

// DataSource is the contract against the business catalog backend. One
// implementation exists per source kind (document store, spreadsheet).
type DataSource interface {
	// FetchRawRecords returns the current full record set.
	FetchRawRecords(ctx context.Context) ([]RawRecord, error)

	// AboutText returns the static business description.
	AboutText(ctx context.Context) (string, error)
}
