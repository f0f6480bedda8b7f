package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/mailcal/internal/client/client"
	"github.com/dmitrijs2005/mailcal/internal/client/models"
	"github.com/dmitrijs2005/mailcal/internal/client/resource"
	"github.com/dmitrijs2005/mailcal/internal/logging"
)

// ErrAnalysisFailed wraps the backend's in-band failure report.
var ErrAnalysisFailed = errors.New("analysis failed")

// EmailService runs email analysis, manages the local view of analysis
// history and drives the backend's mailbox poller.
type EmailService interface {
	Analyze(ctx context.Context, emailID models.ID) (*models.AnalyzeSummary, error)
	AnalyzeRecent(ctx context.Context, limit int) (*models.AnalyzeSummary, error)
	// DeleteHistory hides an entry locally; the backend keeps it.
	DeleteHistory(id models.ID)

	StartPolling(ctx context.Context) (*models.PollingStatus, error)
	StopPolling(ctx context.Context) (*models.PollingStatus, error)
	PollingStatus(ctx context.Context) (*models.PollingStatus, error)
}

type emailService struct {
	client          client.Client
	history         *resource.History
	eventCandidates Refetcher
	todoCandidates  Refetcher
	log             logging.Logger
	onChange        ChangeFunc
}

func NewEmailService(c client.Client, history *resource.History, eventCandidates, todoCandidates Refetcher, log logging.Logger, onChange ChangeFunc) EmailService {
	return &emailService{
		client:          c,
		history:         history,
		eventCandidates: eventCandidates,
		todoCandidates:  todoCandidates,
		log:             log.With("service", "email"),
		onChange:        onChange,
	}
}

func (s *emailService) Analyze(ctx context.Context, emailID models.ID) (*models.AnalyzeSummary, error) {
	return s.analyze(ctx, "analyze_email", func(ctx context.Context) (*models.AnalyzeSummary, error) {
		return s.client.AnalyzeEmail(ctx, emailID)
	})
}

func (s *emailService) AnalyzeRecent(ctx context.Context, limit int) (*models.AnalyzeSummary, error) {
	return s.analyze(ctx, "analyze_recent", func(ctx context.Context) (*models.AnalyzeSummary, error) {
		return s.client.AnalyzeRecent(ctx, limit)
	})
}

// analyze treats {"success": false, ...} bodies as failures even though they
// arrive with a 2xx status.
func (s *emailService) analyze(ctx context.Context, op string, call func(context.Context) (*models.AnalyzeSummary, error)) (*models.AnalyzeSummary, error) {
	var sum *models.AnalyzeSummary
	err := roundTrip(ctx, s.log, op, func(ctx context.Context) error {
		var err error
		sum, err = call(ctx)
		if err != nil {
			return err
		}
		if !sum.Success {
			return fmt.Errorf("%w: %s", ErrAnalysisFailed, failureReason(sum))
		}
		return nil
	}, s.onChange, s.history, s.eventCandidates, s.todoCandidates)
	return sum, err
}

// failureReason picks the most specific explanation the backend gave.
func failureReason(sum *models.AnalyzeSummary) string {
	switch {
	case sum.Error != "":
		return sum.Error
	case sum.Message != "":
		return sum.Message
	case len(sum.Errors) > 0:
		return strings.Join(sum.Errors, "; ")
	}
	return "no reason given"
}

func (s *emailService) DeleteHistory(id models.ID) {
	s.history.Hide(id)
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *emailService) StartPolling(ctx context.Context) (*models.PollingStatus, error) {
	return s.client.PollingStart(ctx)
}

func (s *emailService) StopPolling(ctx context.Context) (*models.PollingStatus, error) {
	return s.client.PollingStop(ctx)
}

func (s *emailService) PollingStatus(ctx context.Context) (*models.PollingStatus, error) {
	return s.client.PollingStatus(ctx)
}
