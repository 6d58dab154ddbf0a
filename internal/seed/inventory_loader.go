package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

// LoadInventory ingests a product,quantity,last_price CSV into the
// inventory table, ignoring products that already have an entry.
func LoadInventory(db *sqlx.DB, logger *slog.Logger, csvPath string) (int, error) {
	file, err := os.Open(csvPath)
	if err != nil {
		return 0, fmt.Errorf("seed: open %s: %w", csvPath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("seed: read header: %w", err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return 0, fmt.Errorf("seed: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR IGNORE INTO inventory (product, quantity, last_price) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("seed: prepare: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("unable to read inventory row", slog.Any("error", err))
			continue
		}
		if len(record) < 3 {
			continue
		}
		product := strings.TrimSpace(record[0])
		qty, qtyErr := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
		price, priceErr := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if product == "" || qtyErr != nil || priceErr != nil || qty <= 0 || price <= 0 {
			logger.Warn("skipping invalid inventory row", slog.String("product", product))
			continue
		}

		res, err := stmt.Exec(product, qty, price)
		if err != nil {
			logger.Warn("unable to insert inventory row", slog.String("product", product), slog.Any("error", err))
			continue
		}
		if n, _ := res.RowsAffected(); n > 0 {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("seed: commit: %w", err)
	}
	logger.Info("seeded inventory", slog.Int("rows", rows), slog.String("path", csvPath))
	return rows, nil
}
