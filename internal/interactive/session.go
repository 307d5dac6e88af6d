package interactive

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Jtofah/pdsnd-github/internal/dataprocessing"
	apperrors "github.com/Jtofah/pdsnd-github/internal/errors"
	"github.com/Jtofah/pdsnd-github/internal/infrastructure"
	"github.com/Jtofah/pdsnd-github/internal/report"
)

// Session runs analyses against a loader and prints them
type Session struct {
	loader    *dataprocessing.Loader
	presenter *report.Presenter
	metrics   *infrastructure.AnalyticsMetrics
	logger    *slog.Logger
}

// NewSession creates a session. metrics may be nil.
func NewSession(loader *dataprocessing.Loader, presenter *report.Presenter, metrics *infrastructure.AnalyticsMetrics, logger *slog.Logger) *Session {
	return &Session{
		loader:    loader,
		presenter: presenter,
		metrics:   metrics,
		logger:    infrastructure.WithComponent(logger, "session"),
	}
}

// Analyze loads one selection, prints the filter summary and all four
// reports. Load failures are printed and returned; the session stays usable.
func (s *Session) Analyze(ctx context.Context, city string, criteria dataprocessing.Criteria) (*dataprocessing.LoadResult, error) {
	result, err := s.loader.Load(ctx, city, criteria)
	if err != nil {
		infrastructure.WithError(s.logger, err).WarnContext(ctx, "Analysis failed",
			slog.String("city", city))
		s.presenter.Error("%s", describe(err))
		return nil, err
	}

	s.presenter.Selection(result)
	s.presenter.Summary(dataprocessing.Summarize(ctx, result.Table, s.metrics))
	return result, nil
}

// ShowRows prints up to windows raw-row windows without asking
func (s *Session) ShowRows(result *dataprocessing.LoadResult, windows int) {
	pager := dataprocessing.NewPaginator(result.Table)
	for i := 0; i < windows; i++ {
		offset := pager.Cursor()
		s.presenter.Rows(result.Table.Schema(), offset, pager.Next())
		if pager.Exhausted() {
			return
		}
	}
}

// Run asks for a selection, analyzes it, offers raw rows and repeats until
// the user declines to restart, the input ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context, prompter *Prompter) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := s.round(infrastructure.WithTraceID(ctx, infrastructure.GenerateTraceID()), prompter)
		if err != nil {
			return s.finish(err)
		}

		again, err := prompter.AskYesNo(promptRestart)
		if err != nil {
			return s.finish(err)
		}
		if !again {
			return s.finish(nil)
		}
	}
}

// round is one select, analyze, browse cycle
func (s *Session) round(ctx context.Context, prompter *Prompter) error {
	city, err := prompter.AskCity(s.loader.Catalog())
	if err != nil {
		return err
	}
	criteria, err := prompter.AskCriteria()
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Analysis requested",
		slog.String("city", city),
		slog.String("criteria", criteria.String()))

	result, err := s.Analyze(ctx, city, criteria)
	if err != nil {
		// already shown to the user; offer a restart
		return nil
	}
	return s.browse(result, prompter)
}

// browse shows 5-row windows for as long as the user answers yes
func (s *Session) browse(result *dataprocessing.LoadResult, prompter *Prompter) error {
	pager := dataprocessing.NewPaginator(result.Table)
	for {
		more, err := prompter.AskYesNo(promptRaw)
		if err != nil || !more {
			return err
		}
		offset := pager.Cursor()
		s.presenter.Rows(result.Table.Schema(), offset, pager.Next())
	}
}

func (s *Session) finish(err error) error {
	if err != nil && !errors.Is(err, ErrInputClosed) {
		return err
	}
	s.presenter.Rule()
	s.presenter.Print("See you later!")
	return nil
}

// describe turns a load error into a message for the terminal
func describe(err error) string {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		return err.Error()
	}
	if errors.Is(err, dataprocessing.ErrSourceNotFound) {
		if path, ok := appErr.Context["path"].(string); ok {
			return "The data file " + path + " was not found."
		}
	}
	return appErr.Message
}
