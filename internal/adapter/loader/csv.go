package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lotfolio/lotfolio-backend/internal/domain"
)

// Transaction logs are semicolon-separated with a fixed header:
// Date;Type;Asset;Units;Unit Price;Currency
// and dates formatted as day/month/year with a time component.
const (
	separator  = ';'
	dateLayout = "02/01/2006 15:04:05"
)

var expectedHeader = []string{"Date", "Type", "Asset", "Units", "Unit Price", "Currency"}

// ReadFile loads and parses a transaction log from disk
func ReadFile(path string) ([]domain.RawTransaction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open transaction log: %w", err)
	}
	defer f.Close()

	txs, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return txs, nil
}

// Read parses a transaction log and returns the records sorted
// chronologically, ties keeping input order so the event loop's tie-break
// rule holds
func Read(r io.Reader) ([]domain.RawTransaction, error) {
	cr := csv.NewReader(r)
	cr.Comma = separator
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if err := validateHeader(header); err != nil {
		return nil, err
	}

	var txs []domain.RawTransaction
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		line++

		tx, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		txs = append(txs, tx)
	}

	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.Before(txs[j].Date)
	})
	return txs, nil
}

func validateHeader(header []string) error {
	if len(header) != len(expectedHeader) {
		return fmt.Errorf("expected %d columns, got %d", len(expectedHeader), len(header))
	}
	for i, want := range expectedHeader {
		if !strings.EqualFold(strings.TrimSpace(header[i]), want) {
			return fmt.Errorf("expected column %q at position %d, got %q", want, i+1, header[i])
		}
	}
	return nil
}

func parseRow(row []string) (domain.RawTransaction, error) {
	if len(row) != len(expectedHeader) {
		return domain.RawTransaction{}, fmt.Errorf("expected %d fields, got %d", len(expectedHeader), len(row))
	}

	date, err := time.Parse(dateLayout, strings.TrimSpace(row[0]))
	if err != nil {
		return domain.RawTransaction{}, fmt.Errorf("invalid date %q: %w", row[0], err)
	}

	units, err := decimal.NewFromString(strings.TrimSpace(row[3]))
	if err != nil {
		return domain.RawTransaction{}, fmt.Errorf("invalid units %q: %w", row[3], err)
	}

	unitPrice, err := decimal.NewFromString(strings.TrimSpace(row[4]))
	if err != nil {
		return domain.RawTransaction{}, fmt.Errorf("invalid unit price %q: %w", row[4], err)
	}

	return domain.RawTransaction{
		Date:      date,
		Type:      domain.RawType(strings.TrimSpace(row[1])),
		Asset:     strings.TrimSpace(row[2]),
		Units:     units,
		UnitPrice: unitPrice,
		Currency:  strings.TrimSpace(row[5]),
	}, nil
}
