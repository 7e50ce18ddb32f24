package roster

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetSource reads one column of a Google Sheets worksheet.
type SheetSource struct {
	svc           *sheets.Service
	spreadsheetID string
	page          string
	column        int // 1-based column index
}

func NewSheetSource(ctx context.Context, credentialsJSON []byte, spreadsheetID, page string, column int) (*SheetSource, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(sheets.SpreadsheetsReadonlyScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetSource{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		page:          page,
		column:        column,
	}, nil
}

// ColumnValues returns the configured column top to bottom. Blank cells
// inside the range come back as empty strings so row offsets stay stable.
func (s *SheetSource) ColumnValues(ctx context.Context) ([]string, error) {
	letter := columnLetter(s.column)
	readRange := fmt.Sprintf("%s!%s:%s", s.page, letter, letter)

	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", readRange, err)
	}

	values := make([]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		if len(row) == 0 {
			values = append(values, "")
			continue
		}
		values = append(values, fmt.Sprint(row[0]))
	}
	return values, nil
}

// columnLetter converts a 1-based column index to its A1-notation letter
// (1 -> A, 5 -> E, 27 -> AA).
func columnLetter(column int) string {
	letter := ""
	for column > 0 {
		column--
		letter = string(rune('A'+column%26)) + letter
		column /= 26
	}
	return letter
}
