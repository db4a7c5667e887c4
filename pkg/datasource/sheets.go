package datasource

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads catalog records from a Google Sheets spreadsheet. The
// first row of the range is treated as the field header; every following row
// becomes one RawRecord.
type SheetsSource struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
	aboutPath     string
}

func NewSheetsSource(ctx context.Context, apiKey, spreadsheetID, readRange, aboutPath string) (DataSource, error) {
	service, err := sheets.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	if readRange == "" {
		readRange = "Catalog!A:Z"
	}

	return &SheetsSource{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		aboutPath:     aboutPath,
	}, nil
}

func (s *SheetsSource) FetchRawRecords(ctx context.Context) ([]RawRecord, error) {
	resp, err := s.service.Spreadsheets.Values.
		Get(s.spreadsheetID, s.readRange).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read spreadsheet %s: %w", s.spreadsheetID, err)
	}

	if len(resp.Values) < 2 {
		return []RawRecord{}, nil
	}

	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		header = append(header, strings.TrimSpace(fmt.Sprint(cell)))
	}

	records := make([]RawRecord, 0, len(resp.Values)-1)
	for _, row := range resp.Values[1:] {
		record := make(RawRecord, len(header))
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			record[header[i]] = strings.TrimSpace(fmt.Sprint(cell))
		}
		if len(record) > 0 {
			records = append(records, record)
		}
	}

	return records, nil
}

func (s *SheetsSource) AboutText(ctx context.Context) (string, error) {
	return readAboutFile(s.aboutPath)
}
