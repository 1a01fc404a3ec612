package output

import (
	"context"
	"fmt"
	"regexp"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/padraicbc/dotawatch/pipeline"
)

var spreadsheetIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)

// SheetsClient writes rankings to one tab of a Google Sheet.
type SheetsClient struct {
	service       *sheets.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsClient creates a client from service account credentials.
func NewSheetsClient(ctx context.Context, credentialsJSON []byte, sheetURL, sheetName string) (*SheetsClient, error) {
	spreadsheetID, err := extractSpreadsheetID(sheetURL)
	if err != nil {
		return nil, err
	}
	cfg, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(cfg.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return &SheetsClient{
		service:       srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// extractSpreadsheetID pulls the id out of a .../spreadsheets/d/{id}/... URL.
func extractSpreadsheetID(url string) (string, error) {
	m := spreadsheetIDPattern.FindStringSubmatch(url)
	if len(m) < 2 {
		return "", fmt.Errorf("could not extract spreadsheet ID from URL: %s", url)
	}
	return m[1], nil
}

// WriteScores clears the tab and writes the header plus one row per match.
func (c *SheetsClient) WriteScores(ctx context.Context, scored []pipeline.Scored) error {
	values := make([][]interface{}, 0, len(scored)+1)
	values = append(values, cells(Header))
	for _, sc := range scored {
		values = append(values, cells(record(sc)))
	}

	clearRange := fmt.Sprintf("%s!A:ZZ", c.sheetName)
	if _, err := c.service.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return fmt.Errorf("clearing sheet: %w", err)
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	_, err := c.service.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("writing sheet: %w", err)
	}
	return nil
}

func cells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, v := range row {
		out[i] = v
	}
	return out
}
