// Package dashboard owns the live board: it runs refresh cycles and applies
// user actions against one consistent state.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/sharpboard/internal/backend"
	"github.com/yourusername/sharpboard/internal/config"
	"github.com/yourusername/sharpboard/internal/drift"
	"github.com/yourusername/sharpboard/internal/export"
	"github.com/yourusername/sharpboard/internal/filter"
	"github.com/yourusername/sharpboard/internal/logger"
	"github.com/yourusername/sharpboard/internal/metrics"
	"github.com/yourusername/sharpboard/internal/models"
	"github.com/yourusername/sharpboard/internal/normalizer"
	"github.com/yourusername/sharpboard/internal/risk"
	"github.com/yourusername/sharpboard/internal/slip"
	"github.com/yourusername/sharpboard/internal/tracker"
)

// ErrRefreshInFlight is returned when a refresh starts while another is
// still running. The second call does not touch any state.
var ErrRefreshInFlight = errors.New("refresh already in flight")

// Status lines shown in place of the ticker
const (
	StatusBackendDown      = "Backend not reachable • check backend service • try Reload"
	StatusBoardFetchFailed = "Board fetch failed • open backend /api/board to verify"
	StatusDemo             = "DEMO MODE • Demo board loaded • Toggle picks to build a slip"
	StatusNothingToExport  = "Nothing to export • board is empty."
)

// Board sources
const (
	SourceBackend = "backend"
	SourceDemo    = "demo"
)

// BoardSource is the backend a session refreshes from. *backend.Client
// satisfies it.
type BoardSource interface {
	Health(ctx context.Context) (backend.HealthStatus, error)
	Board(ctx context.Context) ([]json.RawMessage, error)
	LogTicket(ctx context.Context, ticket models.TicketRequest) (*models.TicketResponse, error)
}

// Options holds the session's collaborators. Nil fields get defaults.
type Options struct {
	Source     BoardSource
	Normalizer *normalizer.Normalizer
	Tracker    *tracker.Tracker
	Drifter    *drift.Drifter
	Slip       *slip.Slip
	Criteria   *filter.Criteria
	Logger     *logrus.Logger
	Clock      quartz.Clock
}

// Session is the single owner of the board, tracker, slip and criteria.
// Network I/O of a refresh runs outside the mutex; every state change runs
// inside it.
type Session struct {
	source     BoardSource
	normalizer *normalizer.Normalizer
	tracker    *tracker.Tracker
	drifter    *drift.Drifter
	clock      quartz.Clock
	logger     *logrus.Logger
	boardLog   *logger.BoardLogger
	ticketLog  *logger.TicketLogger

	refreshing atomic.Bool

	mu          sync.Mutex
	rows        []models.MarketRow
	filtered    []models.MarketRow
	criteria    filter.Criteria
	slip        *slip.Slip
	health      backend.HealthStatus
	status      string
	boardSource string
	lastUpdated time.Time
	ready       bool

	// steaming holds the keys that were steaming after the last ingest
	steaming map[string]bool
}

// NewSession creates a session with an empty board
func NewSession(opts Options) *Session {
	log := opts.Logger
	if log == nil {
		log = logrus.New()
	}
	if opts.Normalizer == nil {
		opts.Normalizer = normalizer.NewNormalizer(nil, nil, log)
	}
	if opts.Tracker == nil {
		opts.Tracker = tracker.NewTracker(tracker.DefaultConfig(), log)
	}
	if opts.Slip == nil {
		opts.Slip = slip.New()
	}
	if opts.Clock == nil {
		opts.Clock = quartz.NewReal()
	}
	criteria := filter.DefaultCriteria()
	if opts.Criteria != nil {
		criteria = *opts.Criteria
	}

	s := &Session{
		source:     opts.Source,
		normalizer: opts.Normalizer,
		tracker:    opts.Tracker,
		drifter:    opts.Drifter,
		clock:      opts.Clock,
		logger:     log,
		boardLog:   logger.NewBoardLogger(log),
		ticketLog:  logger.NewTicketLogger(log),
		rows:       []models.MarketRow{},
		filtered:   []models.MarketRow{},
		criteria:   criteria,
		slip:       opts.Slip,
	}
	s.status = s.tickerText()
	s.recordSlip()
	return s
}

// NewFromConfig builds a session from application configuration.
func NewFromConfig(cfg *config.Config, source BoardSource, log *logrus.Logger) (*Session, error) {
	adapter, err := normalizer.AdapterFor(cfg.Backend.RowFormat)
	if err != nil {
		return nil, err
	}
	tiers, err := cfg.Signal.TierTable()
	if err != nil {
		return nil, fmt.Errorf("invalid signal tiers: %w", err)
	}

	sl := slip.New()
	if err := sl.SetMode(cfg.Slip.SlipMode()); err != nil {
		return nil, err
	}
	if cfg.Slip.Stake > 0 {
		sl.SetStake(cfg.Slip.Stake)
	}
	sl.SetBankroll(cfg.Slip.Bankroll)

	var drifter *drift.Drifter
	if cfg.Drift.Enabled {
		drifter = drift.NewDrifter(cfg.Drift, nil)
	}

	criteria := cfg.Board.Criteria()
	return NewSession(Options{
		Source:     source,
		Normalizer: normalizer.NewNormalizer(adapter, tiers, log),
		Tracker:    tracker.NewTracker(cfg.Tracker, log),
		Drifter:    drifter,
		Slip:       sl,
		Criteria:   &criteria,
		Logger:     log,
	}), nil
}

// Refresh runs one refresh cycle: health ping, board fetch, then the board
// pipeline. When the backend is down or the board cannot be fetched the
// board is emptied, the status line says so and the returned error wraps
// backend.ErrBackendUnreachable or backend.ErrBoardFetchFailed.
func (s *Session) Refresh(ctx context.Context) error {
	if !s.refreshing.CompareAndSwap(false, true) {
		s.boardLog.LogRefreshSkipped()
		metrics.RecordRefresh(metrics.ResultSkipped, 0)
		return ErrRefreshInFlight
	}
	defer s.refreshing.Store(false)

	start := s.clock.Now()
	if s.source == nil {
		return backend.ErrMissingBaseURL
	}

	health, err := s.source.Health(ctx)
	if err == nil && !health.OK {
		err = backend.ErrBackendUnreachable
	}
	if err != nil {
		if !errors.Is(err, backend.ErrBackendUnreachable) {
			err = fmt.Errorf("%w: %v", backend.ErrBackendUnreachable, err)
		}
		health.OK = false
		s.fail(health, "health", StatusBackendDown, metrics.ResultUnreachable, err, start)
		return err
	}

	payload, err := s.source.Board(ctx)
	if err != nil {
		if !errors.Is(err, backend.ErrBoardFetchFailed) {
			err = fmt.Errorf("%w: %v", backend.ErrBoardFetchFailed, err)
		}
		s.fail(health, "board", StatusBoardFetchFailed, metrics.ResultFetchFailed, err, start)
		return err
	}

	rows, skipped := s.normalizer.NormalizePayload(payload)
	metrics.RecordSkippedRows(skipped)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = health
	s.ingest(rows, SourceBackend, skipped, start)
	s.status = s.tickerText()
	metrics.RecordRefresh(metrics.ResultOK, s.clock.Since(start))
	return nil
}

// fail empties the board after a failed refresh. The slip is kept.
func (s *Session) fail(health backend.HealthStatus, stage, status, result string, err error, start time.Time) {
	s.boardLog.LogBackendDown(stage, err)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.health = health
	s.rows = []models.MarketRow{}
	s.filtered = []models.MarketRow{}
	s.status = status
	s.boardSource = SourceBackend
	s.lastUpdated = s.clock.Now()
	s.ready = true

	metrics.UpdateBoard(0, 0, 0)
	metrics.RecordRefresh(result, s.clock.Since(start))
}

// ingest runs drift, tracking, the default signal sort, filters and slip
// sync. Callers hold s.mu.
func (s *Session) ingest(rows []models.MarketRow, source string, skipped int, start time.Time) {
	if s.drifter.Enabled() {
		rows = s.drifter.Apply(rows)
	}

	res := s.tracker.Update(rows)
	board := res.Rows
	filter.Sort(board, filter.SortSignalDesc)

	s.rows = board
	s.filtered = filter.Apply(s.rows, s.criteria)
	s.boardSource = source
	s.lastUpdated = s.clock.Now()
	s.ready = true

	if dropped := s.slip.Sync(s.rows); dropped > 0 {
		s.logger.WithFields(logrus.Fields{
			"component": "slip",
			"dropped":   dropped,
			"remaining": s.slip.Len(),
		}).Info("Dropped picks no longer on the board")
	}

	for _, m := range res.Moves {
		metrics.RecordLineMove(strings.ToLower(m.Direction.String()))
	}
	steaming := make(map[string]bool)
	for _, r := range s.rows {
		if !r.SteamActive {
			continue
		}
		key := r.Key()
		steaming[key] = true
		if !s.steaming[key] && r.Odds != nil {
			s.boardLog.LogSteam(key, r.Matchup, r.Book, *r.Odds)
		}
	}
	s.steaming = steaming

	metrics.UpdateBoard(len(s.rows), len(s.filtered), res.Steam)
	s.recordSlip()
	s.boardLog.LogRefresh(source, len(s.rows), len(s.filtered), skipped, len(res.Moves), res.Steam, s.clock.Since(start))
}

// LoadDemo loads the built-in demo board through the same pipeline as a
// backend refresh.
func (s *Session) LoadDemo() {
	start := s.clock.Now()
	rows := make([]models.MarketRow, len(demoRows))
	for i, raw := range demoRows {
		rows[i] = s.normalizer.Normalize(raw)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ingest(rows, SourceDemo, 0, start)
	s.status = StatusDemo
}

// Ping checks the backend without touching the board.
func (s *Session) Ping(ctx context.Context) (backend.HealthStatus, error) {
	if s.source == nil {
		return backend.HealthStatus{}, backend.ErrMissingBaseURL
	}
	health, err := s.source.Health(ctx)
	if err != nil {
		health.OK = false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = health
	s.status = s.tickerText()
	return health, err
}

// SetCriteria replaces the filter criteria and re-filters the board.
func (s *Session) SetCriteria(c filter.Criteria) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.criteria = c
	s.filtered = filter.Apply(s.rows, s.criteria)
	metrics.UpdateBoard(len(s.rows), len(s.filtered), countSteam(s.rows))
	s.status = s.tickerText()
}

// Criteria returns the current filter criteria.
func (s *Session) Criteria() filter.Criteria {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.criteria
}

// TogglePick removes the pick with key from the slip, or adds the filtered
// board row with that key. It reports whether the key is on the slip
// afterwards.
func (s *Session) TogglePick(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.slip.Contains(key) {
		for _, p := range s.slip.Picks() {
			if p.Key == key {
				s.slip.Toggle(p.Row)
				break
			}
		}
		s.afterSlipChange()
		return false, nil
	}

	for _, r := range s.filtered {
		if r.Key() == key {
			added := s.slip.Toggle(r)
			s.afterSlipChange()
			return added, nil
		}
	}
	return false, fmt.Errorf("%w: %s", models.ErrPickNotOnBoard, key)
}

// ClearSlip removes every pick.
func (s *Session) ClearSlip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slip.Clear()
	s.afterSlipChange()
}

// SetMode switches between singles and parlay.
func (s *Session) SetMode(m risk.Mode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.slip.SetMode(m); err != nil {
		return err
	}
	s.afterSlipChange()
	return nil
}

// SetStake sets the stake, normalized to at least 1.
func (s *Session) SetStake(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slip.SetStake(v)
	s.afterSlipChange()
}

// SetBankroll sets the simulated bankroll.
func (s *Session) SetBankroll(v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.slip.SetBankroll(v)
	s.afterSlipChange()
}

// SimulateTicket places the slip against the simulated bankroll.
func (s *Session) SimulateTicket() (*slip.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mode := string(s.slip.Mode())
	ticket, err := s.slip.Simulate()
	if err != nil {
		s.ticketLog.LogTicketRejected(mode, s.slip.Len(), err.Error())
		metrics.RecordTicket(mode, metrics.TicketRejected)
		return nil, err
	}

	s.ticketLog.LogTicketSimulated(ticket.ID.String(), mode, ticket.Legs,
		ticket.Stake.StringFixed(2), ticket.Cost.StringFixed(2), ticket.BankrollAfter.StringFixed(2))
	metrics.RecordTicket(mode, metrics.TicketSimulated)
	s.recordSlip()
	return ticket, nil
}

// SubmitTicket posts the slip to the backend ticket log.
func (s *Session) SubmitTicket(ctx context.Context, meta map[string]string) (*models.TicketResponse, error) {
	if s.source == nil {
		return nil, backend.ErrMissingBaseURL
	}

	s.mu.Lock()
	if s.slip.Len() == 0 {
		s.mu.Unlock()
		return nil, slip.ErrEmptySlip
	}
	assessment := s.slip.Assess()
	req := s.slip.TicketRequest(meta)
	if req.Meta["risk_label"] == "" {
		req.Meta["risk_label"] = assessment.Risk.Label
	}
	req.Meta["board_source"] = s.boardSource
	s.mu.Unlock()

	resp, err := s.source.LogTicket(ctx, req)
	if err != nil {
		s.ticketLog.LogTicketRejected(req.Mode, len(req.Legs), err.Error())
		metrics.RecordTicket(req.Mode, metrics.TicketRejected)
		return resp, err
	}

	ids := make([]string, len(resp.CreatedTicketIDs))
	for i, id := range resp.CreatedTicketIDs {
		ids[i] = string(id)
	}
	s.ticketLog.LogTicketSubmitted(resp.RequestID, req.Mode, len(req.Legs), ids)
	metrics.RecordTicket(req.Mode, metrics.TicketSubmitted)
	return resp, nil
}

// ExportCSV writes the filtered board as CSV. An empty board sets the
// status line and returns export.ErrEmptyBoard.
func (s *Session) ExportCSV(w io.Writer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.filtered) == 0 {
		s.status = StatusNothingToExport
		return export.ErrEmptyBoard
	}
	return export.Write(w, s.filtered)
}

// Ready reports whether at least one refresh or demo load has completed.
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

// Status returns the current status line.
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Session) afterSlipChange() {
	s.filtered = filter.Apply(s.rows, s.criteria)
	s.status = s.tickerText()
	s.recordSlip()
}

func (s *Session) recordSlip() {
	a := s.slip.Assess()
	metrics.UpdateSlip(s.slip.Len(), a.Risk.Value, s.slip.Bankroll().InexactFloat64())
}

func countSteam(rows []models.MarketRow) int {
	n := 0
	for _, r := range rows {
		if r.SteamActive {
			n++
		}
	}
	return n
}
