package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	apperrors "github.com/ikkim/bizdir-backend/internal/errors"
	"github.com/ikkim/bizdir-backend/internal/middleware"
	"github.com/ikkim/bizdir-backend/internal/report"
)

type RecategorizeController struct {
	categorizer    service.CategorizationService
	defaultWorkers int
}

func NewRecategorizeController(categorizer service.CategorizationService, defaultWorkers int) *RecategorizeController {
	return &RecategorizeController{
		categorizer:    categorizer,
		defaultWorkers: defaultWorkers,
	}
}

// Recategorize POST /admin/recategorize?dry_run=true&workers=4&region=eg
func (ctrl *RecategorizeController) Recategorize(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := ctrl.options(c)
	result, ok := ctrl.run(c, opts)
	if !ok {
		return
	}

	log.Info("Recategorization finished", map[string]interface{}{
		"processed": result.Processed,
		"changed":   result.Changed,
		"failed":    result.Failed,
		"dry_run":   result.DryRun,
	})

	c.JSON(http.StatusOK, gin.H{
		"processed":   result.Processed,
		"categorized": result.Categorized,
		"fallback":    result.Fallback,
		"changed":     result.Changed,
		"failed":      result.Failed,
		"dry_run":     result.DryRun,
		"report":      result.Outcomes(),
	})
}

// ExportReport GET /admin/recategorize/report.xlsx
// 항상 dry run으로 계산하여 엑셀 파일로 내려준다
func (ctrl *RecategorizeController) ExportReport(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	opts := ctrl.options(c)
	opts.DryRun = true
	result, ok := ctrl.run(c, opts)
	if !ok {
		return
	}

	body, err := report.RecategorizationXLSX(result)
	if err != nil {
		log.Error("Failed to render recategorization report", err, nil)
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.DiscoveryExportFailed, "Failed to build the report")
		return
	}

	filename := fmt.Sprintf("recategorize-%s.xlsx", result.StartedAt.UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, report.ContentType, body)
}

func (ctrl *RecategorizeController) options(c *gin.Context) service.RecategorizeOptions {
	workers := ctrl.defaultWorkers
	if n, err := strconv.Atoi(c.Query("workers")); err == nil && n > 0 {
		workers = n
	}
	return service.RecategorizeOptions{
		DryRun:  queryBool(c, "dry_run"),
		Workers: workers,
		Region:  c.Query("region"),
	}
}

func (ctrl *RecategorizeController) run(c *gin.Context, opts service.RecategorizeOptions) (*service.Report, bool) {
	log := middleware.GetLoggerFromContext(c)

	started := time.Now()
	result, err := ctrl.categorizer.RecategorizeAll(c.Request.Context(), opts)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecategorizeRunning):
			apperrors.Conflict(c, apperrors.DiscoveryJobRunning, "A recategorization run is already in progress")
		case discovery.IsConfigurationError(err):
			log.Error("Categorizer misconfigured", err, nil)
			apperrors.ConfigError(c, err.Error())
		default:
			log.Error("Recategorization failed", err, map[string]interface{}{
				"elapsed": time.Since(started).String(),
			})
			apperrors.Unavailable(c, apperrors.DiscoveryUnavailable, "The business directory is unavailable. Please try again later")
		}
		return nil, false
	}
	return result, true
}
