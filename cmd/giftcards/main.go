package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/ikkim/perfume-storefront/config"
	"github.com/ikkim/perfume-storefront/internal/app/model"
	"github.com/ikkim/perfume-storefront/internal/storage"
	"github.com/xuri/excelize/v2"
)

// giftcards converts the shop's gift card spreadsheet into the catalog JSON
// the storefront reads, and optionally publishes it to S3.
func main() {
	out := flag.String("out", "", "output path (defaults to GIFTCARD_CATALOG_FILE)")
	upload := flag.Bool("upload", false, "also upload the catalog to GIFTCARD_CATALOG_S3_BUCKET")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("Usage: go run ./cmd/giftcards [-out giftcards.json] [-upload] <xlsx_file_path>")
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	if *out == "" {
		*out = cfg.Catalog.FilePath
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	cards, summary, err := readGiftCardsFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	summary.print()

	if !*yes {
		fmt.Printf("Write %d gift cards to %s? (yes/no): ", len(cards), *out)
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Export cancelled.")
			return
		}
	}

	data, err := encodeCatalog(cards)
	if err != nil {
		log.Fatal("Failed to encode catalog:", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal("Failed to write catalog:", err)
	}
	fmt.Printf("Catalog written to %s\n", *out)

	if *upload {
		if cfg.Catalog.S3Bucket == "" {
			log.Fatal("GIFTCARD_CATALOG_S3_BUCKET is not set")
		}
		ctx := context.Background()
		s3 := storage.NewS3Storage(ctx, cfg.S3.Region, cfg.Catalog.S3Bucket, cfg.S3.AccessKeyID, cfg.S3.SecretAccessKey)
		if err := s3.PutObject(ctx, cfg.Catalog.S3Key, data, "application/json"); err != nil {
			log.Fatal("Failed to upload catalog:", err)
		}
		fmt.Printf("Catalog uploaded to s3://%s/%s\n", s3.Bucket(), cfg.Catalog.S3Key)
	}
}

type importSummary struct {
	rows       int
	valid      int
	skipped    int
	duplicates int
	inactive   int
}

func (s importSummary) print() {
	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Total rows: %d\n", s.rows)
	fmt.Printf("  Valid cards: %d\n", s.valid)
	fmt.Printf("  Inactive cards: %d\n", s.inactive)
	fmt.Printf("  Skipped rows: %d\n", s.skipped)
	fmt.Printf("  Duplicate codes: %d\n", s.duplicates)
}

type columns struct {
	code, balance, active int
}

// readGiftCardsFromXLSX reads the first sheet. The header row must name a
// code and a balance column; an active column is optional.
func readGiftCardsFromXLSX(filePath string) ([]model.GiftCardRecord, importSummary, error) {
	var summary importSummary

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, summary, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, summary, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, summary, fmt.Errorf("no data found in XLSX file")
	}

	cols, err := findColumns(rows[0])
	if err != nil {
		return nil, summary, err
	}

	cards := []model.GiftCardRecord{}
	seen := make(map[string]bool)
	for _, row := range rows[1:] {
		summary.rows++

		code := strings.TrimSpace(cell(row, cols.code))
		balance, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(cell(row, cols.balance)), "$"), 64)
		if code == "" || err != nil || balance < 0 {
			summary.skipped++
			continue
		}

		key := strings.ToLower(code)
		if seen[key] {
			summary.duplicates++
			continue
		}
		seen[key] = true

		card := model.GiftCardRecord{Code: code, Balance: balance}
		if cols.active >= 0 {
			if active, ok := parseActive(cell(row, cols.active)); ok && !active {
				card.Active = model.BoolPtr(false)
				summary.inactive++
			}
		}
		cards = append(cards, card)
		summary.valid++
	}

	return cards, summary, nil
}

func findColumns(header []string) (columns, error) {
	cols := columns{code: -1, balance: -1, active: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "code":
			cols.code = i
		case "balance":
			cols.balance = i
		case "active":
			cols.active = i
		}
	}
	if cols.code < 0 || cols.balance < 0 {
		return cols, fmt.Errorf("header must contain code and balance columns, got %v", header)
	}
	return cols, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// parseActive reports ok=false for blank cells, which keep the default.
func parseActive(v string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return false, false
	case "no", "n", "false", "0", "inactive":
		return false, true
	default:
		return true, true
	}
}

func encodeCatalog(cards []model.GiftCardRecord) ([]byte, error) {
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
