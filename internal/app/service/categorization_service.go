package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ikkim/bizdir-backend/internal/app/model"
	"github.com/ikkim/bizdir-backend/internal/app/repository"
	"github.com/ikkim/bizdir-backend/internal/discovery"
	"github.com/ikkim/bizdir-backend/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var ErrRecategorizeRunning = errors.New("recategorization already running")

// LineAction is the outcome recorded for one business in a recategorization report.
type LineAction string

const (
	LineUnchanged  LineAction = "unchanged"  // target link already the only link
	LineAssigned   LineAction = "assigned"   // business had no link
	LineReassigned LineAction = "reassigned" // stale links replaced
	LineFailed     LineAction = "failed"     // write failed, batch continued
)

// RulesProvider hands out the compiled keyword rules for a region.
type RulesProvider interface {
	RuleSet(ctx context.Context, region string) (*discovery.RuleSet, error)
}

type RecategorizeOptions struct {
	DryRun  bool
	Workers int    // <= 1 runs sequentially
	Region  string // "" = every region
}

type ReportLine struct {
	BusinessID   uint       `json:"business_id"`
	BusinessName string     `json:"business_name"`
	CategoryID   uint       `json:"category_id"`
	CategoryName string     `json:"category_name"`
	Keyword      string     `json:"keyword,omitempty"`
	Fallback     bool       `json:"fallback"`
	Previous     []uint     `json:"previous_category_ids"`
	Action       LineAction `json:"action"`
	Error        string     `json:"error,omitempty"`
}

// String renders the line as the operator-facing outcome string.
func (l ReportLine) String() string {
	var reason string
	if l.Fallback {
		reason = "no keyword matched, fallback"
	} else {
		reason = fmt.Sprintf("keyword %q", l.Keyword)
	}

	out := fmt.Sprintf("#%d %s -> %s (%s): %s", l.BusinessID, l.BusinessName, l.CategoryName, reason, l.Action)
	if l.Error != "" {
		out += ": " + l.Error
	}
	return out
}

// Report summarizes a recategorization run. Lines follow the input order (business id asc).
type Report struct {
	Processed   int          `json:"processed"`
	Categorized int          `json:"categorized"`
	Fallback    int          `json:"fallback"`
	Changed     int          `json:"changed"`
	Failed      int          `json:"failed"`
	DryRun      bool         `json:"dry_run"`
	StartedAt   time.Time    `json:"started_at"`
	FinishedAt  time.Time    `json:"finished_at"`
	Lines       []ReportLine `json:"lines"`
}

// Outcomes returns one outcome string per business.
func (r *Report) Outcomes() []string {
	out := make([]string, len(r.Lines))
	for i, line := range r.Lines {
		out[i] = line.String()
	}
	return out
}

// Errors returns the per-business write failures of the run.
func (r *Report) Errors() []*discovery.PartialWriteError {
	var out []*discovery.PartialWriteError
	for _, line := range r.Lines {
		if line.Action == LineFailed {
			out = append(out, &discovery.PartialWriteError{
				BusinessID: line.BusinessID,
				CategoryID: line.CategoryID,
				Err:        errors.New(line.Error),
			})
		}
	}
	return out
}

type CategorizationService interface {
	Preview(ctx context.Context, name, description, region string) (discovery.Resolution, error)
	CategorizeBusiness(ctx context.Context, business *model.Business, region string) (discovery.Resolution, error)
	RecategorizeAll(ctx context.Context, opts RecategorizeOptions) (*Report, error)
}

type categorizationService struct {
	businessRepo repository.BusinessRepository
	categoryRepo repository.CategoryRepository
	rules        RulesProvider
	running      chan struct{}
}

func NewCategorizationService(
	businessRepo repository.BusinessRepository,
	categoryRepo repository.CategoryRepository,
	rules RulesProvider,
) CategorizationService {
	return &categorizationService{
		businessRepo: businessRepo,
		categoryRepo: categoryRepo,
		rules:        rules,
		running:      make(chan struct{}, 1),
	}
}

func (s *categorizationService) Preview(ctx context.Context, name, description, region string) (discovery.Resolution, error) {
	rs, err := s.rules.RuleSet(ctx, region)
	if err != nil {
		return discovery.Resolution{}, err
	}
	business := model.Business{Name: name, Description: description}
	return discovery.Resolve(business.CategorizationText(), rs)
}

// CategorizeBusiness links business to its resolved category. A business without links only gets
// the new link; otherwise the old links are replaced.
func (s *categorizationService) CategorizeBusiness(ctx context.Context, business *model.Business, region string) (discovery.Resolution, error) {
	rs, err := s.rules.RuleSet(ctx, region)
	if err != nil {
		return discovery.Resolution{}, err
	}

	resolution, err := discovery.Resolve(business.CategorizationText(), rs)
	if err != nil {
		logger.Ctx(ctx).Error("Failed to categorize business", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return discovery.Resolution{}, err
	}

	var linkErr error
	if len(business.Categories) == 0 {
		linkErr = s.categoryRepo.UpsertLink(ctx, business.ID, resolution.CategoryID)
	} else {
		_, linkErr = s.categoryRepo.ReplaceLinks(ctx, business.ID, resolution.CategoryID)
	}
	if linkErr != nil {
		return resolution, &discovery.PartialWriteError{
			BusinessID: business.ID,
			CategoryID: resolution.CategoryID,
			Err:        linkErr,
		}
	}

	logger.Ctx(ctx).Info("Business categorized", map[string]interface{}{
		"business_id": business.ID,
		"category":    resolution.CategoryName,
		"keyword":     resolution.Keyword,
		"fallback":    resolution.Fallback,
	})
	return resolution, nil
}

// RecategorizeAll recomputes the category of every business, diffs it against the stored links
// and applies the difference. Only one run may be in flight per service.
func (s *categorizationService) RecategorizeAll(ctx context.Context, opts RecategorizeOptions) (*Report, error) {
	select {
	case s.running <- struct{}{}:
		defer func() { <-s.running }()
	default:
		return nil, ErrRecategorizeRunning
	}

	report := &Report{DryRun: opts.DryRun, StartedAt: time.Now()}
	logger.Ctx(ctx).Info("Recategorization started", map[string]interface{}{
		"dry_run": opts.DryRun,
		"workers": opts.Workers,
		"region":  opts.Region,
	})

	rs, err := s.rules.RuleSet(ctx, opts.Region)
	if err != nil {
		return nil, err
	}
	businesses, err := s.businessRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	// compute + diff
	lines := make([]ReportLine, len(businesses))
	for i := range businesses {
		line, err := plan(&businesses[i], rs)
		if err != nil {
			logger.Error("Recategorization aborted", err, map[string]interface{}{
				"business_id": businesses[i].ID,
			})
			return nil, err
		}
		lines[i] = line
	}

	// apply
	if !opts.DryRun {
		if err := s.apply(ctx, lines, opts.Workers); err != nil {
			return nil, err
		}
	}

	report.Lines = lines
	for _, line := range lines {
		report.Processed++
		if line.Action == LineFailed {
			report.Failed++
			continue
		}
		report.Categorized++
		if line.Fallback {
			report.Fallback++
		}
		if line.Action != LineUnchanged {
			report.Changed++
		}
	}
	report.FinishedAt = time.Now()

	logger.Ctx(ctx).Info("Recategorization finished", map[string]interface{}{
		"dry_run":     report.DryRun,
		"processed":   report.Processed,
		"categorized": report.Categorized,
		"fallback":    report.Fallback,
		"changed":     report.Changed,
		"failed":      report.Failed,
		"duration":    report.FinishedAt.Sub(report.StartedAt).String(),
	})
	return report, nil
}

func plan(business *model.Business, rs *discovery.RuleSet) (ReportLine, error) {
	resolution, err := discovery.Resolve(business.CategorizationText(), rs)
	if err != nil {
		return ReportLine{}, err
	}

	line := ReportLine{
		BusinessID:   business.ID,
		BusinessName: business.Name,
		CategoryID:   resolution.CategoryID,
		CategoryName: resolution.CategoryName,
		Keyword:      resolution.Keyword,
		Fallback:     resolution.Fallback,
		Previous:     make([]uint, 0, len(business.Categories)),
	}

	linked := false
	for _, c := range business.Categories {
		line.Previous = append(line.Previous, c.ID)
		if c.ID == resolution.CategoryID {
			linked = true
		}
	}

	switch {
	case linked && len(business.Categories) == 1:
		line.Action = LineUnchanged
	case len(business.Categories) == 0:
		line.Action = LineAssigned
	default:
		line.Action = LineReassigned
	}
	return line, nil
}

func (s *categorizationService) apply(ctx context.Context, lines []ReportLine, workers int) error {
	g, gctx := errgroup.WithContext(ctx)
	if workers < 1 {
		workers = 1
	}
	g.SetLimit(workers)

	for i := range lines {
		line := &lines[i]
		if line.Action == LineUnchanged {
			continue
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if _, err := s.categoryRepo.ReplaceLinks(gctx, line.BusinessID, line.CategoryID); err != nil {
				writeErr := &discovery.PartialWriteError{
					BusinessID: line.BusinessID,
					CategoryID: line.CategoryID,
					Err:        err,
				}
				logger.Warn("Recategorization write failed, continuing", map[string]interface{}{
					"business_id": line.BusinessID,
					"category_id": line.CategoryID,
					"error":       writeErr.Error(),
				})
				line.Action = LineFailed
				line.Error = strings.TrimSpace(err.Error())
			}
			return nil
		})
	}
	return g.Wait()
}
