package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-presence/internal/attendance"
	attendanceerrors "go-presence/internal/attendance/errors"
	"go-presence/internal/auth"
	"go-presence/internal/journal"
	"go-presence/internal/location"
	sessionerrors "go-presence/internal/session/errors"
	"go-presence/internal/shared/contextutil"
	"go-presence/internal/shared/lock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const defaultLocationTimeout = 15 * time.Second

// Journal receives every punch attempt that reached the attendance service.
type Journal interface {
	Create(ctx context.Context, entry *journal.Entry) error
}

type ToggleResult struct {
	Direction attendance.Direction
	// Record is the new open session after a punch in, the closed one after
	// a punch out, or nil when a confirmed punch out had nothing to close.
	Record *Record
}

//go:generate mockgen -source=session_service.go -destination=mock/session_service_mock.go -package=mock
type Service interface {
	auth.LifecycleHook

	CheckStatus(ctx context.Context) (*Record, error)
	PunchIn(ctx context.Context) (Record, error)
	// PunchOut returns the closed record, or nil when the server confirmed
	// the punch out but no local session was open.
	PunchOut(ctx context.Context) (*Record, error)
	Toggle(ctx context.Context) (ToggleResult, error)
	FetchHistory(ctx context.Context) ([]Record, error)

	Current() *Record
	History() []Record
	State() State
	Snapshot() Snapshot
}

type Option func(*service)

func WithJournal(j Journal) Option {
	return func(s *service) { s.journal = j }
}

func WithLocker(l lock.Locker) Option {
	return func(s *service) {
		if l != nil {
			s.locker = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *service) { s.newID = newID }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *service) { s.logger = l }
}

func WithLocationTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.locationTimeout = d
		}
	}
}

type service struct {
	identity        auth.IdentityProvider
	client          attendance.Client
	location        location.Provider
	journal         Journal
	locker          lock.Locker
	now             func() time.Time
	newID           func() string
	logger          *zap.Logger
	locationTimeout time.Duration
	group           singleflight.Group

	mu         sync.Mutex
	state      State
	current    *Record
	history    []Record
	checks     int
	epoch      uint64
	employeeID string
}

func NewService(
	identity auth.IdentityProvider,
	client attendance.Client,
	provider location.Provider,
	opts ...Option,
) Service {
	s := &service{
		identity:        identity,
		client:          client,
		location:        provider,
		locker:          lock.NoopLocker{},
		now:             time.Now,
		newID:           newRecordID,
		logger:          zap.L().Named("session.service"),
		locationTimeout: defaultLocationTimeout,
		state:           StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// newRecordID is clock-derived (UUIDv7), so ids sort by creation time.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// --- lifecycle ---

func (s *service) OnLogin(ctx context.Context, id auth.Identity) {
	s.reset(id.ID)
	s.log(ctx).Info("session state reset for login", zap.String("employee_id", id.ID))
}

func (s *service) OnLogout(ctx context.Context) {
	s.reset("")
	s.log(ctx).Info("session state cleared on logout")
}

// reset drops all state and bumps the epoch so in-flight continuations
// discard their results.
func (s *service) reset(employeeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state = StateIdle
	s.current = nil
	s.history = nil
	s.checks = 0
	s.employeeID = employeeID
}

// --- status ---

func (s *service) CheckStatus(ctx context.Context) (*Record, error) {
	s.mu.Lock()
	if s.state.transitioning() {
		s.mu.Unlock()
		return nil, sessionerrors.ErrPunchInProgress
	}
	s.checks++
	epoch := s.epoch
	s.mu.Unlock()
	defer s.endCheck(epoch)

	log := s.log(ctx)

	id, err := s.identity.Identity(ctx)
	if err != nil {
		s.clearIfCurrent(epoch)
		return nil, err
	}

	// the shared call must outlive any single caller; the client timeout bounds it
	flight := s.group.DoChan("status:"+id.ID, func() (any, error) {
		return s.client.GetStatus(context.WithoutCancel(ctx), id.ID)
	})
	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	v, err, shared := res.Val, res.Err, res.Shared

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return nil, sessionerrors.ErrSessionReset
	}

	if err != nil {
		// fail closed: the caller sees the error after state is already cleared
		s.current = nil
		s.state = StateIdle
		log.Error("status check failed, cleared session",
			zap.String("employee_id", id.ID),
			zap.Error(err),
		)
		return nil, err
	}

	st := v.(attendance.Status)
	if !st.ClockedIn {
		s.current = nil
		s.state = StateIdle
		log.Info("status checked",
			zap.String("employee_id", id.ID),
			zap.Bool("clocked_in", false),
			zap.String("signal", st.Signal),
			zap.Bool("shared", shared),
		)
		return nil, nil
	}

	if s.current == nil || !s.current.IsOpen() {
		// The service does not report the real punch-in time, so the resumed
		// record starts now.
		s.current = &Record{
			ID:        s.newID(),
			PunchInAt: s.now(),
			Source:    SourceLocal,
			Resumed:   true,
		}
	}
	s.state = StateOpen
	log.Info("status checked",
		zap.String("employee_id", id.ID),
		zap.Bool("clocked_in", true),
		zap.String("signal", st.Signal),
		zap.Bool("shared", shared),
		zap.String("state", string(s.state)),
	)
	return cloneRecord(s.current), nil
}

func (s *service) endCheck(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch && s.checks > 0 {
		s.checks--
	}
}

func (s *service) clearIfCurrent(epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == epoch {
		s.current = nil
		s.state = StateIdle
	}
}

// --- punches ---

// punchAttempt carries what a punch learned before it reached the server.
type punchAttempt struct {
	direction attendance.Direction
	epoch     uint64
	prev      State
	identity  auth.Identity
	reading   location.Reading
	release   func(context.Context) error
}

func (s *service) PunchIn(ctx context.Context) (Record, error) {
	s.mu.Lock()
	if err := s.guardLocked(); err != nil {
		s.mu.Unlock()
		return Record{}, err
	}
	if s.state == StateOpen {
		s.mu.Unlock()
		return Record{}, sessionerrors.ErrAlreadyClockedIn
	}
	attempt := &punchAttempt{direction: attendance.ClockIn, epoch: s.epoch, prev: s.state}
	s.state = StatePunching
	s.mu.Unlock()

	if err := s.submit(ctx, attempt); err != nil {
		return Record{}, err
	}
	defer s.releaseLock(ctx, attempt)

	s.mu.Lock()
	if s.epoch != attempt.epoch {
		s.mu.Unlock()
		s.journalPunch(ctx, attempt, journal.OutcomeAccepted, "session reset before commit", "")
		return Record{}, sessionerrors.ErrSessionReset
	}
	rec := Record{
		ID:        s.newID(),
		PunchInAt: s.now(),
		Source:    SourceLocal,
	}
	s.current = &rec
	s.state = StateOpen
	s.mu.Unlock()

	s.log(ctx).Info("punched in",
		zap.String("employee_id", attempt.identity.ID),
		zap.String("direction", string(attempt.direction)),
		zap.String("state", string(StateOpen)),
		zap.String("session_id", rec.ID),
	)
	s.journalPunch(ctx, attempt, journal.OutcomeAccepted, "", rec.ID)
	return rec, nil
}

func (s *service) PunchOut(ctx context.Context) (*Record, error) {
	s.mu.Lock()
	if err := s.guardLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	attempt := &punchAttempt{direction: attendance.ClockOut, epoch: s.epoch, prev: s.state}
	s.state = StateClosingOut
	s.mu.Unlock()

	if err := s.submit(ctx, attempt); err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, attempt)

	s.mu.Lock()
	if s.epoch != attempt.epoch {
		s.mu.Unlock()
		s.journalPunch(ctx, attempt, journal.OutcomeAccepted, "session reset before commit", "")
		return nil, sessionerrors.ErrSessionReset
	}

	if s.current == nil {
		s.state = StateIdle
		s.mu.Unlock()

		// The server recorded a punch out that never reaches local history.
		s.log(ctx).Warn("punch out confirmed without an open session, history entry dropped",
			zap.String("employee_id", attempt.identity.ID),
			zap.String("direction", string(attempt.direction)),
			zap.String("state", string(StateIdle)),
		)
		s.journalPunch(ctx, attempt, journal.OutcomeDropped, "no open local session", "")
		return nil, nil
	}

	out := s.now()
	closed := *s.current
	closed.PunchOutAt = &out
	s.history = append([]Record{closed}, s.history...)
	s.current = nil
	s.state = StateIdle
	s.mu.Unlock()

	s.log(ctx).Info("punched out",
		zap.String("employee_id", attempt.identity.ID),
		zap.String("direction", string(attempt.direction)),
		zap.String("state", string(StateIdle)),
		zap.String("session_id", closed.ID),
		zap.Duration("worked", closed.Duration(out)),
	)
	s.journalPunch(ctx, attempt, journal.OutcomeAccepted, "", closed.ID)
	return cloneRecord(&closed), nil
}

func (s *service) Toggle(ctx context.Context) (ToggleResult, error) {
	s.mu.Lock()
	open := s.current != nil
	s.mu.Unlock()

	if open {
		rec, err := s.PunchOut(ctx)
		return ToggleResult{Direction: attendance.ClockOut, Record: rec}, err
	}
	rec, err := s.PunchIn(ctx)
	if err != nil {
		return ToggleResult{Direction: attendance.ClockIn}, err
	}
	return ToggleResult{Direction: attendance.ClockIn, Record: &rec}, nil
}

// guardLocked rejects a punch while another punch or a status check is running.
func (s *service) guardLocked() error {
	if s.state.transitioning() || s.checks > 0 {
		return sessionerrors.ErrPunchInProgress
	}
	return nil
}

// submit runs location, identity, lock and the remote call. On any failure
// it restores the pre-call state and returns the error.
func (s *service) submit(ctx context.Context, a *punchAttempt) (err error) {
	log := s.log(ctx)
	defer func() {
		if err != nil {
			s.restore(a)
		}
	}()

	a.reading, err = location.Acquire(ctx, s.location, s.locationTimeout)
	if err != nil {
		log.Warn(a.direction.Label()+" blocked by location",
			zap.String("direction", string(a.direction)),
			zap.Error(err),
		)
		return err
	}

	a.identity, err = s.identity.Identity(ctx)
	if err != nil {
		return err
	}

	a.release, err = s.locker.Acquire(ctx, a.identity.ID)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return sessionerrors.ErrPunchInProgress.WithCause(err)
		}
		// lock store down: punch anyway, the local guard still holds
		log.Warn("punch lock unavailable", zap.String("employee_id", a.identity.ID), zap.Error(err))
		a.release = nil
		err = nil
	}

	_, err = s.client.SubmitPunch(ctx, attendance.PunchRequest{
		EmployeeID: a.identity.ID,
		CompanyID:  a.identity.CompanyID,
		Direction:  a.direction,
		Latitude:   a.reading.Latitude,
		Longitude:  a.reading.Longitude,
	})
	if err != nil {
		s.releaseLock(ctx, a)
		if errors.Is(err, attendanceerrors.ErrPunchRejected) {
			log.Warn(a.direction.Label()+" rejected",
				zap.String("employee_id", a.identity.ID),
				zap.String("direction", string(a.direction)),
				zap.String("state", string(a.prev)),
				zap.String("message", err.Error()),
			)
			s.journalPunch(ctx, a, journal.OutcomeRejected, err.Error(), "")
		} else {
			log.Error(a.direction.Label()+" failed",
				zap.String("employee_id", a.identity.ID),
				zap.String("direction", string(a.direction)),
				zap.Error(err),
			)
		}
		return err
	}
	return nil
}

func (s *service) restore(a *punchAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch == a.epoch {
		s.state = a.prev
	}
}

func (s *service) releaseLock(ctx context.Context, a *punchAttempt) {
	if a.release == nil {
		return
	}
	release := a.release
	a.release = nil
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.log(ctx).Warn("failed to release punch lock", zap.String("employee_id", a.identity.ID), zap.Error(err))
	}
}

func (s *service) journalPunch(ctx context.Context, a *punchAttempt, outcome, message, sessionID string) {
	if s.journal == nil {
		return
	}
	entry := &journal.Entry{
		ID:            uuid.New(),
		RequestID:     contextutil.GetRequestID(ctx),
		EmployeeID:    a.identity.ID,
		CompanyID:     a.identity.CompanyID,
		Direction:     string(a.direction),
		SessionID:     sessionID,
		Latitude:      a.reading.Latitude,
		Longitude:     a.reading.Longitude,
		Outcome:       outcome,
		Message:       message,
		OccurredAt:    s.now(),
		PublishStatus: journal.PublishPending,
	}
	if err := s.journal.Create(context.WithoutCancel(ctx), entry); err != nil {
		s.log(ctx).Error("failed to journal punch",
			zap.String("employee_id", a.identity.ID),
			zap.String("direction", string(a.direction)),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
	}
}

// --- history ---

func (s *service) FetchHistory(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	epoch := s.epoch
	s.mu.Unlock()

	id, err := s.identity.Identity(ctx)
	if err != nil {
		return nil, err
	}

	flight := s.group.DoChan("history:"+id.ID, func() (any, error) {
		return s.client.GetHistory(context.WithoutCancel(ctx), id.ID)
	})
	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	v, err := res.Val, res.Err
	if err != nil {
		s.log(ctx).Error("history fetch failed", zap.String("employee_id", id.ID), zap.Error(err))
		return nil, err
	}

	records := s.mapHistory(ctx, v.([]attendance.Entry))

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return nil, sessionerrors.ErrSessionReset
	}
	// replace, never merge; order is the service's
	s.history = records
	return cloneHistory(s.history), nil
}

func (s *service) mapHistory(ctx context.Context, entries []attendance.Entry) []Record {
	log := s.log(ctx)
	records := make([]Record, 0, len(entries))
	var skippedInvalid, skippedOpen int

	for _, e := range entries {
		if e.ClockIn.IsZero() {
			skippedInvalid++
			continue
		}
		if e.ClockOut == nil {
			// open remote entries belong to the current session, not history
			skippedOpen++
			continue
		}
		out := *e.ClockOut
		records = append(records, Record{
			ID:           historyID(e),
			PunchInAt:    e.ClockIn,
			PunchOutAt:   &out,
			Source:       SourceRemote,
			WorkingHours: e.WorkingHours,
			Status:       e.Status,
			Standing:     e.Standing,
		})
	}

	if skippedInvalid > 0 {
		log.Warn("skipped history entries without a clock-in time", zap.Int("count", skippedInvalid))
	}
	if skippedOpen > 0 {
		log.Debug("skipped open history entries", zap.Int("count", skippedOpen))
	}
	return records
}

// historyID prefers the remote id, then the remote timestamp, then a
// clock-in derived id.
func historyID(e attendance.Entry) string {
	switch {
	case e.ID != "":
		return e.ID
	case e.Timestamp != "":
		return e.Timestamp
	default:
		return fmt.Sprintf("ci-%d", e.ClockIn.UnixMilli())
	}
}

// --- reads ---

func (s *service) Current() *Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecord(s.current)
}

func (s *service) History() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneHistory(s.history)
}

func (s *service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	snap := Snapshot{
		EmployeeID: s.employeeID,
		State:      s.state,
		Current:    cloneRecord(s.current),
		History:    cloneHistory(s.history),
		TakenAt:    now,
	}
	if s.current != nil {
		snap.Elapsed = s.current.Duration(now)
	}
	return snap
}

func (s *service) log(ctx context.Context) *zap.Logger {
	return contextutil.GetLogger(ctx, s.logger)
}
