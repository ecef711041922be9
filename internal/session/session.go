// Package session implements the interactive read-classify-confirm loop as
// an explicit state machine over scripted or live input.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Veraticus/phish-sieve/internal/cli"
	"github.com/Veraticus/phish-sieve/internal/common"
	"github.com/Veraticus/phish-sieve/internal/model"
	"github.com/Veraticus/phish-sieve/internal/service"
)

// State enumerates the session's interactive states.
type State int

// Session states. Prompting → Analyzing → AwaitingFeedback → Prompting is
// the normal cycle; Reporting is a side branch back to Prompting;
// Terminated is final.
const (
	StatePrompting State = iota
	StateAnalyzing
	StateAwaitingFeedback
	StateReporting
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StatePrompting:
		return "prompting"
	case StateAnalyzing:
		return "analyzing"
	case StateAwaitingFeedback:
		return "awaiting-feedback"
	case StateReporting:
		return "reporting"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Command keywords, matched case-insensitively.
const (
	cmdQuit   = "quit"
	cmdReport = "report"
	answerNo  = "n"
)

// Config controls session input validation.
type Config struct {
	MinInputLen int
}

// DefaultConfig returns the standard 10-character minimum message length.
func DefaultConfig() Config {
	return Config{MinInputLen: 10}
}

// Session drives the interactive classification loop. Input and output are
// injected so tests can feed a scripted command sequence.
type Session struct {
	analyzer  service.Analyzer
	store     service.FeedbackStore
	reader    *cli.LineReader
	writer    io.Writer
	pending   string
	cfg       Config
	state     State
	closeOnce sync.Once
}

// New creates a session over the given analyzer, store, and I/O streams.
func New(analyzer service.Analyzer, store service.FeedbackStore, reader io.Reader, writer io.Writer, cfg Config) *Session {
	if cfg.MinInputLen <= 0 {
		cfg.MinInputLen = DefaultConfig().MinInputLen
	}
	return &Session{
		analyzer: analyzer,
		store:    store,
		reader:   cli.NewLineReader(reader),
		writer:   writer,
		cfg:      cfg,
		state:    StatePrompting,
	}
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Run executes the state machine until Terminated. The store connection is
// released exactly once on every exit path; per-message errors are reported
// to the user and never end the loop.
func (s *Session) Run(ctx context.Context) (err error) {
	defer func() {
		s.closeOnce.Do(func() {
			if closeErr := s.store.Close(); closeErr != nil {
				slog.Warn("Failed to close store", "error", closeErr)
				if err == nil {
					err = closeErr
				}
			}
		})
	}()

	s.printf("Type '%s' to exit | '%s' to show metrics\n\n", cmdQuit, cmdReport)

	for s.state != StateTerminated {
		var stepErr error
		switch s.state {
		case StatePrompting:
			stepErr = s.prompting(ctx)
		case StateAnalyzing:
			stepErr = s.analyzing(ctx)
		case StateAwaitingFeedback:
			stepErr = s.awaitingFeedback(ctx)
		case StateReporting:
			stepErr = s.reporting(ctx)
		case StateTerminated:
		}

		if stepErr != nil {
			if errors.Is(stepErr, io.EOF) {
				s.state = StateTerminated
				continue
			}
			return stepErr
		}
	}

	s.printf("\n%s\n", cli.FormatInfo("Session ended. All results saved to the detection log."))
	return nil
}

// prompting reads the next line and routes it: quit, report, reject too
// short, or hand off to analysis.
func (s *Session) prompting(ctx context.Context) error {
	s.printf("%s", cli.FormatPrompt("Enter email text"))

	line, err := s.reader.ReadLine(ctx)
	if err != nil {
		return err
	}

	switch strings.ToLower(line) {
	case cmdQuit:
		s.state = StateTerminated
		return nil
	case cmdReport:
		s.state = StateReporting
		return nil
	}

	if line == "" {
		s.printf("%s\n", cli.FormatError("Empty input"))
		return nil
	}
	if utf8.RuneCountInString(line) < s.cfg.MinInputLen {
		s.printf("%s\n", cli.FormatError(fmt.Sprintf("Email too short (min %d chars)", s.cfg.MinInputLen)))
		return nil
	}

	s.pending = line
	s.state = StateAnalyzing
	return nil
}

// analyzing classifies the pending message. Validation errors are reported
// and loop back to prompting; a successful prediction is logged and moves
// on to feedback.
func (s *Session) analyzing(ctx context.Context) error {
	result, err := s.analyzer.Analyze(s.pending)
	if err != nil {
		s.printf("%s\n", cli.FormatError(err.Error()))
		s.state = StatePrompting
		return nil
	}

	s.printf("Result: %s (%.2f%% confidence)\n", renderLabel(result.Label), result.Confidence)

	if err := s.store.RecordDetection(ctx, s.pending, result.Label, result.Confidence); err != nil {
		// Losing a log row is not worth losing the session.
		s.printf("%s\n", cli.FormatWarning(fmt.Sprintf("Database error: %v", err)))
		slog.Warn("Failed to record detection", "error", err)
	}

	s.state = StateAwaitingFeedback
	return nil
}

// awaitingFeedback asks whether the prediction was correct, and on a
// negative answer records the corrected label.
func (s *Session) awaitingFeedback(ctx context.Context) error {
	s.printf("%s", cli.FormatPrompt("Was this correct? (y/n)"))

	answer, err := s.reader.ReadLine(ctx)
	if err != nil {
		return err
	}

	if strings.ToLower(answer) != answerNo {
		s.state = StatePrompting
		return nil
	}

	s.printf("%s", cli.FormatPrompt(fmt.Sprintf("What should it be? (%s/%s)", model.LabelPhishing, model.LabelLegitimate)))

	raw, err := s.reader.ReadLine(ctx)
	if err != nil {
		return err
	}

	label, parseErr := model.ParseLabel(raw)
	if parseErr != nil {
		s.printf("%s\n", cli.FormatError(fmt.Sprintf("Invalid label (use '%s' or '%s')", model.LabelPhishing, model.LabelLegitimate)))
		s.state = StatePrompting
		return nil
	}

	if err := s.store.RecordFeedback(ctx, s.pending, label); err != nil {
		if errors.Is(err, common.ErrInvalidFeedbackLabel) {
			s.printf("%s\n", cli.FormatError(fmt.Sprintf("Invalid label (use '%s' or '%s')", model.LabelPhishing, model.LabelLegitimate)))
		} else {
			s.printf("%s\n", cli.FormatWarning(fmt.Sprintf("Database error: %v", err)))
			slog.Warn("Failed to record feedback", "error", err)
		}
		s.state = StatePrompting
		return nil
	}

	s.printf("%s\n", cli.FormatSuccess("Feedback saved"))
	s.state = StatePrompting
	return nil
}

// reporting prints aggregate counts and returns to prompting without
// touching prediction state.
func (s *Session) reporting(ctx context.Context) error {
	detections, err := s.store.CountDetections(ctx)
	if err != nil {
		s.printf("%s\n", cli.FormatWarning(fmt.Sprintf("Database error: %v", err)))
		s.state = StatePrompting
		return nil
	}
	feedback, err := s.store.CountFeedback(ctx)
	if err != nil {
		s.printf("%s\n", cli.FormatWarning(fmt.Sprintf("Database error: %v", err)))
		s.state = StatePrompting
		return nil
	}

	s.printf("\n%s\n", cli.FormatTitle("Database Summary"))
	s.printf("Total detections: %d\n", detections)
	s.printf("False positives: %d\n\n", feedback)

	s.state = StatePrompting
	return nil
}

func (s *Session) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(s.writer, format, args...); err != nil {
		slog.Warn("Failed to write session output", "error", err)
	}
}

func renderLabel(label model.Label) string {
	text := strings.ToUpper(label.String())
	if label == model.LabelPhishing {
		return cli.PhishingStyle.Render(text)
	}
	return cli.LegitimateStyle.Render(text)
}
