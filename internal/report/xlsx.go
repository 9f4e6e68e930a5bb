package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	LinesSheet      = "Lines"
	BusinessesSheet = "Businesses"
	KeywordsSheet   = "Keywords"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var lineHeaders = []string{
	"Business ID", "Business", "Category ID", "Category", "Keyword", "Fallback", "Previous Categories", "Action", "Error",
}

// WriteRecategorization renders r as a two-sheet workbook (summary and one row per business).
func WriteRecategorization(w io.Writer, r *service.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	summary := [][]interface{}{
		{"Dry run", r.DryRun},
		{"Started at", r.StartedAt.Format("2006-01-02 15:04:05")},
		{"Finished at", r.FinishedAt.Format("2006-01-02 15:04:05")},
		{"Processed", r.Processed},
		{"Categorized", r.Categorized},
		{"Fallback", r.Fallback},
		{"Changed", r.Changed},
		{"Failed", r.Failed},
	}
	for i, row := range summary {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(LinesSheet); err != nil {
		return err
	}
	header := make([]interface{}, len(lineHeaders))
	for i, h := range lineHeaders {
		header[i] = h
	}
	if err := setRow(f, LinesSheet, 1, header); err != nil {
		return err
	}

	for i, line := range r.Lines {
		previous := make([]string, len(line.Previous))
		for j, id := range line.Previous {
			previous[j] = strconv.FormatUint(uint64(id), 10)
		}
		row := []interface{}{
			line.BusinessID,
			line.BusinessName,
			line.CategoryID,
			line.CategoryName,
			line.Keyword,
			line.Fallback,
			strings.Join(previous, ","),
			string(line.Action),
			line.Error,
		}
		if err := setRow(f, LinesSheet, i+2, row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// RecategorizationXLSX is WriteRecategorization into memory.
func RecategorizationXLSX(r *service.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRecategorization(&buf, r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// SeedKeyword is one row of the Keywords sheet.
type SeedKeyword struct {
	Category string
	Keyword  string
	Region   string
	Priority int
}

// SeedData is the content of an import workbook.
type SeedData struct {
	Businesses []model.Business
	Keywords   []SeedKeyword
	Skipped    int
}

// ReadSeed parses an import workbook. Businesses come from the "Businesses" sheet (or the first
// sheet when it is missing), keyword rules from the optional "Keywords" sheet. Columns are matched
// by header name; rows without a name or keyword are skipped.
func ReadSeed(r io.Reader) (*SeedData, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	data := &SeedData{}

	sheet := BusinessesSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) > 0 {
		cols := headerIndex(rows[0])
		for _, row := range rows[1:] {
			business, ok := parseBusiness(cols, row)
			if !ok {
				data.Skipped++
				continue
			}
			data.Businesses = append(data.Businesses, business)
		}
	}

	if idx, _ := f.GetSheetIndex(KeywordsSheet); idx >= 0 {
		rows, err := f.GetRows(KeywordsSheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyword rows: %w", err)
		}
		if len(rows) > 0 {
			cols := headerIndex(rows[0])
			for _, row := range rows[1:] {
				kw := SeedKeyword{
					Category: cols.get(row, "category"),
					Keyword:  strings.ToLower(cols.get(row, "keyword")),
					Region:   strings.ToLower(cols.get(row, "region")),
				}
				kw.Priority, _ = strconv.Atoi(cols.get(row, "priority"))
				if kw.Category == "" || kw.Keyword == "" {
					data.Skipped++
					continue
				}
				data.Keywords = append(data.Keywords, kw)
			}
		}
	}

	return data, nil
}

type columns map[string]int

func headerIndex(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		key = strings.ReplaceAll(key, " ", "_")
		cols[key] = i
	}
	return cols
}

func (c columns) get(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func parseBusiness(cols columns, row []string) (model.Business, bool) {
	b := model.Business{
		Name:        cols.get(row, "name"),
		Description: cols.get(row, "description"),
		PhoneNumber: cols.get(row, "phone"),
		Address:     cols.get(row, "address"),
		Status:      model.BusinessStatus(strings.ToLower(cols.get(row, "status"))),
	}
	if b.Name == "" {
		return b, false
	}
	if !b.Status.Valid() {
		b.Status = model.BusinessStatusActive
	}

	if rating, err := strconv.ParseFloat(cols.get(row, "rating"), 64); err == nil && rating >= 0 && rating <= 5 {
		b.Rating = &rating
	}
	if tier, err := strconv.Atoi(cols.get(row, "price_tier")); err == nil && tier >= 1 && tier <= 4 {
		b.PriceTier = &tier
	}
	if reviews, err := strconv.Atoi(cols.get(row, "review_count")); err == nil && reviews >= 0 {
		b.ReviewCount = reviews
	}
	return b, true
}
