package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/report"
	"github.com/ikkim/bizdir-backend/internal/storage"
	"github.com/spf13/cobra"
)

var (
	recatDryRun  bool
	recatWorkers int
	recatRegion  string
	recatExport  string
	recatArchive bool
)

var recategorizeCmd = &cobra.Command{
	Use:   "recategorize",
	Short: "Re-run keyword categorization over every business",
	Long:  "Computes the category of every business, prints one outcome per business and applies the changes unless --dry-run is set.",
	RunE:  runRecategorize,
}

func init() {
	recategorizeCmd.Flags().BoolVar(&recatDryRun, "dry-run", false, "Report the changes without writing them")
	recategorizeCmd.Flags().IntVar(&recatWorkers, "workers", 0, "Parallel writers (default from RECATEGORIZE_WORKERS)")
	recategorizeCmd.Flags().StringVar(&recatRegion, "region", "", "Keyword region (default: every region)")
	recategorizeCmd.Flags().StringVar(&recatExport, "export", "", "Write the report to this .xlsx path")
	recategorizeCmd.Flags().BoolVar(&recatArchive, "archive", false, "Upload the report to the configured S3 bucket")
}

func runRecategorize(cmd *cobra.Command, args []string) error {
	a, closeDB, err := openApp()
	if err != nil {
		return err
	}
	defer closeDB()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	workers := recatWorkers
	if workers <= 0 {
		workers = a.cfg.Discovery.RecategorizeWorkers
	}

	result, err := a.categorizer.RecategorizeAll(ctx, service.RecategorizeOptions{
		DryRun:  recatDryRun,
		Workers: workers,
		Region:  recatRegion,
	})
	if err != nil {
		return err
	}

	for _, outcome := range result.Outcomes() {
		fmt.Println(outcome)
	}
	mode := "applied"
	if result.DryRun {
		mode = "dry run"
	}
	fmt.Printf("\n%s: %d processed, %d categorized (%d fallback), %d changed, %d failed\n",
		mode, result.Processed, result.Categorized, result.Fallback, result.Changed, result.Failed)

	if recatExport != "" {
		if err := exportReport(recatExport, result); err != nil {
			return err
		}
		fmt.Printf("Report written to %s\n", recatExport)
	}

	if recatArchive {
		if a.cfg.S3.Bucket == "" {
			return fmt.Errorf("--archive needs AWS_S3_BUCKET")
		}
		body, err := report.RecategorizationXLSX(result)
		if err != nil {
			return err
		}
		archived, err := storage.NewS3Storage(&a.cfg.S3).UploadReport(ctx, body, report.ContentType)
		if err != nil {
			return err
		}
		fmt.Printf("Report archived: %s\n", archived.DownloadURL)
	}

	if result.Failed > 0 {
		failures := make([]error, 0, result.Failed)
		for _, writeErr := range result.Errors() {
			failures = append(failures, writeErr)
		}
		return fmt.Errorf("%d businesses could not be updated: %w", result.Failed, errors.Join(failures...))
	}
	return nil
}

func exportReport(path string, result *service.Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteRecategorization(file, result); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
