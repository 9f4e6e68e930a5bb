package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/internal/report"
	"github.com/spf13/cobra"
)

var (
	seedYes    bool
	seedRegion string
)

var seedCmd = &cobra.Command{
	Use:   "seed <xlsx>",
	Short: "Import businesses and keyword rules from a workbook",
	Long: "Reads the Businesses sheet (or the first sheet) and the optional Keywords sheet. " +
		"Keyword rules are imported first so that every imported business is categorized with them.",
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().BoolVarP(&seedYes, "yes", "y", false, "Skip confirmation prompt")
	seedCmd.Flags().StringVar(&seedRegion, "region", "", "Keyword region used to categorize imported businesses")
}

func runSeed(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := report.ReadSeed(file)
	if err != nil {
		return err
	}
	fmt.Printf("Workbook: %d businesses, %d keywords, %d skipped rows\n", len(data.Businesses), len(data.Keywords), data.Skipped)

	if !seedYes {
		fmt.Print("Proceed with the import? [y/N] ")
		answer, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		answer = strings.TrimSpace(strings.ToLower(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("cancelled")
			return nil
		}
	}

	a, closeDB, err := openApp()
	if err != nil {
		return err
	}
	defer closeDB()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	keywords, err := importKeywords(ctx, a, data.Keywords)
	if err != nil {
		return err
	}

	var created, fallback, failed int
	for _, b := range data.Businesses {
		_, resolution, err := a.businesses.CreateBusiness(ctx, businessInput(b, seedRegion))
		if err != nil {
			if discovery.IsConfigurationError(err) {
				return err
			}
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", b.Name, err)
			continue
		}
		created++
		if resolution.Fallback {
			fallback++
		}
	}

	fmt.Printf("Imported %d keywords and %d businesses (%d fallback, %d failed)\n", keywords, created, fallback, failed)
	return nil
}

func importKeywords(ctx context.Context, a *app, rows []report.SeedKeyword) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	categories, err := a.categories.ListCategories(true)
	if err != nil {
		return 0, err
	}

	imported := 0
	for _, row := range rows {
		category := findCategory(categories, row.Category)
		if category == nil {
			fmt.Fprintf(os.Stderr, "✗ keyword %q: unknown category %q\n", row.Keyword, row.Category)
			continue
		}

		_, err := a.keywords.CreateKeyword(ctx, service.KeywordInput{
			CategoryID: category.ID,
			Keyword:    row.Keyword,
			Region:     row.Region,
			Priority:   row.Priority,
		}, "seed")
		switch {
		case errors.Is(err, service.ErrKeywordAlreadyExists):
			continue
		case err != nil:
			fmt.Fprintf(os.Stderr, "✗ keyword %q: %v\n", row.Keyword, err)
			continue
		}
		imported++
	}
	return imported, nil
}

func findCategory(categories []model.Category, name string) *model.Category {
	for i := range categories {
		if categories[i].Matches(name) {
			return &categories[i]
		}
	}
	return nil
}

func businessInput(b model.Business, region string) service.BusinessInput {
	return service.BusinessInput{
		Name:        b.Name,
		Description: b.Description,
		PhoneNumber: b.PhoneNumber,
		Address:     b.Address,
		Rating:      b.Rating,
		PriceTier:   b.PriceTier,
		ReviewCount: b.ReviewCount,
		Status:      b.Status,
		Region:      region,
	}
}
