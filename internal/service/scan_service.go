package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"levelup/internal/featureflags"
	"levelup/internal/middleware"
	"levelup/internal/models"
	"levelup/internal/moderation"
	"levelup/internal/observability"
	"levelup/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// recentScans is how many records the stats view carries.
const recentScans = 5

type ScanService struct {
	scans       repository.ScanRepository
	users       repository.UserRepository
	progression *ProgressionService
	analyzer    Analyzer
	flags       *featureflags.Manager
	standard    moderation.Classifier
	strict      moderation.Classifier
}

type SubmitScanInput struct {
	UserID   string
	ScanType string
	Data     []byte
}

// ScanResult is the outcome of a submission.
type ScanResult struct {
	Message  string           `json:"message"`
	ScanID   string           `json:"scan_id"`
	Status   string           `json:"status"`
	Analysis map[string]any   `json:"analysis"`
	XPEarned int              `json:"xp_earned"`
	Progress *models.Progress `json:"progress,omitempty"`
}

func NewScanService(
	scans repository.ScanRepository,
	users repository.UserRepository,
	progression *ProgressionService,
	analyzer Analyzer,
	flags *featureflags.Manager,
) *ScanService {
	return &ScanService{
		scans:       scans,
		users:       users,
		progression: progression,
		analyzer:    analyzer,
		flags:       flags,
		standard:    moderation.NoopClassifier{},
		strict:      moderation.NewSkinToneClassifier(moderation.DefaultSkinRatio),
	}
}

// WithClassifiers replaces the default and flag-selected classifiers.
func (s *ScanService) WithClassifiers(standard, strict moderation.Classifier) *ScanService {
	s.standard = standard
	s.strict = strict
	return s
}

func (s *ScanService) SubmitScan(ctx context.Context, in SubmitScanInput) (result *ScanResult, err error) {
	ctx, span := observability.StartSpan(ctx, "scan", "submit", attribute.String("scan.type", in.ScanType))
	defer func() { observability.EndSpan(span, err) }()

	scanType, ok := models.ParseScanType(in.ScanType)
	if !ok {
		return nil, models.NewValidationError("Invalid scan type")
	}
	if len(in.Data) == 0 {
		return nil, models.NewValidationError("Image file is required")
	}

	user, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	record := &models.ScanRecord{
		UserID:   user.ID,
		ScanType: scanType,
		Status:   models.ScanStatusApproved,
		Approved: true,
	}
	if s.classify(ctx, user.ID, in.Data) == moderation.NeedsReview {
		record.Status = models.ScanStatusPendingReview
		record.Approved = false
	} else {
		record.Analysis = s.analyzer.Analyze(scanType, in.Data)
		record.XPEarned = scanXP[scanType]
	}

	if err := s.scans.Create(ctx, record); err != nil {
		return nil, err
	}
	observability.ScansSubmitted.WithLabelValues(string(scanType), record.Status).Inc()

	result = &ScanResult{
		ScanID:   record.ID,
		Status:   record.Status,
		Analysis: record.Analysis,
		XPEarned: record.XPEarned,
	}
	if !record.Approved {
		result.Message = "Scan submitted for review"
		return result, nil
	}

	result.Message = fmt.Sprintf("%s scan completed successfully", titleScanType(scanType))
	result.Progress, err = s.progression.AwardXP(ctx, user.ID, record.XPEarned, XPSourceScan)
	if err != nil {
		return nil, err
	}
	if _, err := s.progression.RecordActivity(ctx, user); err != nil {
		middleware.Logger.WarnContext(ctx, "streak update failed",
			slog.String("user_id", user.ID), slog.String("error", err.Error()))
	}
	return result, nil
}

// classify runs the classifier selected for userID. Failures approve the scan.
func (s *ScanService) classify(ctx context.Context, userID string, data []byte) moderation.Decision {
	classifier := s.standard
	if s.flags.Enabled(featureflags.ScanModeration, userID) && s.strict != nil {
		classifier = s.strict
	}
	if classifier == nil {
		return moderation.Approved
	}

	decision, err := classifier.Classify(ctx, data)
	if err != nil {
		outcome := "error"
		if errors.Is(err, moderation.ErrUndecodable) {
			outcome = "undecodable"
		}
		observability.ModerationDecisions.WithLabelValues(classifier.Name(), outcome).Inc()
		middleware.Logger.WarnContext(ctx, "scan classifier failed, approving",
			slog.String("classifier", classifier.Name()), slog.String("error", err.Error()))
		return moderation.Approved
	}
	observability.ModerationDecisions.WithLabelValues(classifier.Name(), decision.String()).Inc()
	return decision
}

// ListScans returns a user's scans newest first, optionally of one type.
func (s *ScanService) ListScans(ctx context.Context, userID, scanType string, limit int) ([]models.ScanRecord, error) {
	var filter models.ScanType
	if scanType != "" {
		t, ok := models.ParseScanType(scanType)
		if !ok {
			return nil, models.NewValidationError("Invalid scan type")
		}
		filter = t
	}
	return s.scans.ListByUser(ctx, userID, filter, limit)
}

func (s *ScanService) Stats(ctx context.Context, userID string) (*models.ScanStats, error) {
	return s.scans.Stats(ctx, userID, recentScans)
}

func titleScanType(t models.ScanType) string {
	switch t {
	case models.ScanBody:
		return "Body"
	case models.ScanFace:
		return "Face"
	default:
		return "Food"
	}
}
