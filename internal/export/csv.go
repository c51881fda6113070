// Package export renders computed reports as CSV, for download and for
// upload to the shared bucket.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jagimahalo/restock-backend/internal/domain"
)

// ReplenishmentCSV renders replenishment rows with the column layout
// the operations team loads into their sheets.
func ReplenishmentCSV(rows []domain.Recommendation) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Region", "Store", "Code", "Brand", "Color", "Sales", "Stock", "Warehouse", "Minimum", "Dispatch", "Label"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, row := range rows {
		record := []string{
			row.Region,
			row.Store,
			row.Code,
			row.Brand,
			row.Color,
			fmt.Sprintf("%d", row.SalesInPeriod),
			fmt.Sprintf("%d", row.CurrentStock),
			fmt.Sprintf("%d", row.WarehouseStock),
			fmt.Sprintf("%d", row.Minimum),
			fmt.Sprintf("%d", row.Dispatch),
			row.Label,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RedistributionCSV renders transfer suggestions.
func RedistributionCSV(suggestions []domain.TransferSuggestion) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"Region", "Code", "Brand", "Origin", "Origin Stock", "Origin Sales", "Destination", "Destination Stock", "Destination Sales", "Destination Minimum", "Quantity"}
	if err := writer.Write(header); err != nil {
		return nil, err
	}
	for _, s := range suggestions {
		record := []string{
			s.Region,
			s.Code,
			s.Brand,
			s.OriginStore,
			fmt.Sprintf("%d", s.OriginStock),
			fmt.Sprintf("%d", s.OriginSales),
			s.DestinationStore,
			fmt.Sprintf("%d", s.DestinationStock),
			fmt.Sprintf("%d", s.DestinationSales),
			fmt.Sprintf("%d", s.DestinationMinimum),
			fmt.Sprintf("%d", s.Quantity),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ObjectKey builds the bucket key for one exported report.
func ObjectKey(report string, now time.Time) string {
	return fmt.Sprintf("reports/%s/%s_%s.csv", report, report, now.Format("20060102_150405"))
}

// WriteUnassignedStores persists the raw store names that resolved to
// no region, one per line, for operator review. Nothing is written when
// the list is empty.
func WriteUnassignedStores(dir string, names []string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("unassigned_stores_%s.csv", time.Now().Format("20060102_150405")))

	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"Raw Store Name"}); err != nil {
		return "", err
	}
	for _, name := range names {
		if err := writer.Write([]string{name}); err != nil {
			return "", err
		}
	}
	return path, nil
}
