package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/ikkim/bizdir-backend/internal/app/service"
	"github.com/ikkim/bizdir-backend/internal/report"
	"github.com/ikkim/bizdir-backend/internal/storage"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ReportArchiver uploads rendered reports (S3 in production).
type ReportArchiver interface {
	UploadReport(ctx context.Context, body []byte, contentType string) (*storage.ArchivedObject, error)
}

// RecategorizeScheduler 키워드 사전 기준 전체 업체 재분류 스케줄러
type RecategorizeScheduler struct {
	cron        *cron.Cron
	spec        string
	categorizer service.CategorizationService
	archiver    ReportArchiver // nil이면 리포트 보관 생략
	options     service.RecategorizeOptions
	timeout     time.Duration
}

// NewRecategorizeScheduler 재분류 스케줄러 생성
func NewRecategorizeScheduler(spec string, categorizer service.CategorizationService, archiver ReportArchiver, opts service.RecategorizeOptions) *RecategorizeScheduler {
	return &RecategorizeScheduler{
		cron:        cron.New(),
		spec:        spec,
		categorizer: categorizer,
		archiver:    archiver,
		options:     opts,
		timeout:     time.Hour,
	}
}

// Start 스케줄러 시작
func (s *RecategorizeScheduler) Start() error {
	_, err := s.cron.AddFunc(s.spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		s.Run(ctx)
	})
	if err != nil {
		logger.Error("Failed to add cron job for recategorization", err, map[string]interface{}{
			"spec": s.spec,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Recategorize scheduler started successfully", map[string]interface{}{
		"spec":    s.spec,
		"workers": s.options.Workers,
	})
	return nil
}

// Run 재분류 1회 실행 후 리포트 보관
func (s *RecategorizeScheduler) Run(ctx context.Context) (*service.Report, *storage.ArchivedObject) {
	logger.Info("Starting scheduled recategorization", nil)

	rep, err := s.categorizer.RecategorizeAll(ctx, s.options)
	if err != nil {
		if errors.Is(err, service.ErrRecategorizeRunning) {
			logger.Warn("Skipping scheduled recategorization, a run is in progress", nil)
			return nil, nil
		}
		logger.Error("Scheduled recategorization failed", err)
		return nil, nil
	}

	for _, writeErr := range rep.Errors() {
		logger.Warn("Scheduled recategorization left a business unchanged", map[string]interface{}{
			"business_id": writeErr.BusinessID,
			"category_id": writeErr.CategoryID,
			"error":       writeErr.Err.Error(),
		})
	}

	if s.archiver == nil {
		return rep, nil
	}

	body, err := report.RecategorizationXLSX(rep)
	if err != nil {
		logger.Error("Failed to render recategorization report", err)
		return rep, nil
	}
	archived, err := s.archiver.UploadReport(ctx, body, report.ContentType)
	if err != nil {
		logger.Error("Failed to archive recategorization report", err)
		return rep, nil
	}

	logger.Info("Scheduled recategorization completed", map[string]interface{}{
		"processed": rep.Processed,
		"changed":   rep.Changed,
		"failed":    rep.Failed,
		"report":    archived.Key,
	})
	return rep, archived
}

// Stop 스케줄러 중지
func (s *RecategorizeScheduler) Stop() {
	logger.Info("Stopping recategorize scheduler...", nil)
	<-s.cron.Stop().Done()
	logger.Info("Recategorize scheduler stopped", nil)
}
