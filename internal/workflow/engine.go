// Package workflow drives the staged fault-resolution pipeline: a finite
// state machine per equipment fault session with timer-scheduled step
// advancement, a command dispatch sub-workflow and a barrier holding the
// final verification stage until every command completes.
package workflow

import (
	"encoding/json"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gridops/substation-monitor/internal/diagnosis"
	"github.com/gridops/substation-monitor/internal/domain"
	"github.com/gridops/substation-monitor/internal/repository"
	"github.com/gridops/substation-monitor/internal/store"
)

// Pipeline timing. Steps advance on a fixed cadence; commands carry their
// own simulated network delay.
const (
	leadDelay     = 1 * time.Second
	stepInterval  = 3 * time.Second
	stepDwell     = 2 * time.Second
	commandDelay  = 1500 * time.Millisecond
	finalizeDelay = 2 * time.Second

	// commandFailureRate is the simulated probability that a dispatched
	// command fails and must be retried.
	commandFailureRate = 0.05
)

var (
	ErrSessionRunning  = errors.New("analysis already running for this equipment")
	ErrNoSolution      = errors.New("no solution generated yet")
	ErrUnknownCommand  = errors.New("unknown command id")
	ErrCommandInFlight = errors.New("command already dispatched")
)

// Session is the per-equipment fault-resolution state. It is persisted
// under a derived key so a reopened session resumes where it left off;
// stale sessions linger until the next analysis overwrites them.
type Session struct {
	Steps        []Step               `json:"thinkingSteps"`
	Solution     *diagnosis.Solution  `json:"solution"`
	ShowSolution bool                 `json:"showSolution"`
	Fault        *diagnosis.FaultData `json:"fault,omitempty"`
}

func (s Session) clone() Session {
	out := s
	out.Steps = append([]Step{}, s.Steps...)
	if s.Solution != nil {
		sol := *s.Solution
		sol.Commands = append([]diagnosis.Command{}, s.Solution.Commands...)
		out.Solution = &sol
	}
	return out
}

// Observer receives a session snapshot after every state transition.
// Delivery is synchronous on the scheduler goroutine.
type Observer interface {
	SessionUpdated(equipmentID string, session Session)
}

type liveSession struct {
	Session
	running  bool
	observer Observer
}

// Engine runs fault-resolution sessions. Once started a session cannot be
// cancelled, only abandoned: closing the view leaves the persisted session
// resumable.
type Engine struct {
	repos *repository.Repos
	store *store.Store
	sched Scheduler
	log   zerolog.Logger

	mu       sync.Mutex
	sessions map[string]*liveSession
	failRoll func() float64
	now      func() time.Time
}

func NewEngine(repos *repository.Repos, st *store.Store, sched Scheduler, log zerolog.Logger) *Engine {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Engine{
		repos:    repos,
		store:    st,
		sched:    sched,
		log:      log,
		sessions: make(map[string]*liveSession),
		failRoll: rng.Float64,
		now:      time.Now,
	}
}

// Open returns the session for the equipment, resuming a persisted one if
// present, otherwise a fresh pipeline with every step pending.
func (e *Engine) Open(equipmentID string) Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.openLocked(equipmentID).Session.clone()
}

func (e *Engine) openLocked(equipmentID string) *liveSession {
	if s, ok := e.sessions[equipmentID]; ok {
		return s
	}
	s := &liveSession{Session: Session{Steps: initialSteps()}}
	if data, ok, _ := e.store.LoadSession(equipmentID); ok {
		var persisted Session
		if err := json.Unmarshal(data, &persisted); err == nil && len(persisted.Steps) > 0 {
			s.Session = persisted
		}
	}
	e.sessions[equipmentID] = s
	return s
}

// Start resets every step to pending and begins the timed five-stage
// pipeline. The observer is invoked on each transition; the solution is
// generated when the last stage finishes. Result verification does not
// complete here: it reverts to pending until command dispatch finishes.
func (e *Engine) Start(fault diagnosis.FaultData, obs Observer) error {
	e.mu.Lock()
	s := e.openLocked(fault.EquipmentID)
	if s.running {
		e.mu.Unlock()
		return ErrSessionRunning
	}
	s.running = true
	s.observer = obs
	s.Steps = initialSteps()
	s.Solution = nil
	s.ShowSolution = false
	f := fault
	s.Fault = &f
	snap := s.Session.clone()
	e.mu.Unlock()

	e.log.Info().Str("equipment", fault.EquipmentID).Msg("fault analysis started")
	e.emit(fault.EquipmentID, snap, obs)

	for i := range initialSteps() {
		idx := i
		startAt := leadDelay + time.Duration(idx)*stepInterval
		e.sched.After(startAt, func() { e.beginStep(fault.EquipmentID, idx) })
		e.sched.After(startAt+stepDwell, func() { e.finishStep(fault.EquipmentID, idx) })
	}
	return nil
}

func (e *Engine) beginStep(equipmentID string, idx int) {
	e.mu.Lock()
	s, ok := e.sessions[equipmentID]
	if !ok || idx >= len(s.Steps) {
		e.mu.Unlock()
		return
	}
	s.Steps[idx].Status = StepInProgress
	if s.Fault != nil {
		s.Steps[idx].Details = diagnosis.StepDetail(s.Steps[idx].ID, *s.Fault, false)
	}
	snap := s.Session.clone()
	obs := s.observer
	e.mu.Unlock()
	e.emit(equipmentID, snap, obs)
}

func (e *Engine) finishStep(equipmentID string, idx int) {
	e.mu.Lock()
	s, ok := e.sessions[equipmentID]
	if !ok || idx >= len(s.Steps) {
		e.mu.Unlock()
		return
	}
	step := &s.Steps[idx]
	if step.Key == KeyResultVerification {
		// Barrier: verification waits for every command to complete.
		step.Status = StepPending
		step.Details = "Waiting for command dispatch to finish..."
	} else {
		step.Status = StepCompleted
		if s.Fault != nil {
			step.Details = diagnosis.StepDetail(step.ID, *s.Fault, true)
		}
	}
	last := idx == len(s.Steps)-1
	if last {
		if s.Fault != nil {
			sol := diagnosis.Generate(*s.Fault, e.now())
			s.Solution = &sol
		}
		s.ShowSolution = true
		s.running = false
	}
	snap := s.Session.clone()
	obs := s.observer
	e.mu.Unlock()

	if last {
		e.log.Info().Str("equipment", equipmentID).Msg("fault analysis finished, solution ready")
	}
	e.emit(equipmentID, snap, obs)
}

// SendCommand dispatches one remediation command. A failed command is
// retryable: sending it again resets it to pending and re-sends. When the
// last command completes the verification barrier releases and the final
// stage completes, refining its detail after the finalize delay.
func (e *Engine) SendCommand(equipmentID, commandID string) error {
	e.mu.Lock()
	s, ok := e.sessions[equipmentID]
	if !ok || s.Solution == nil {
		e.mu.Unlock()
		return ErrNoSolution
	}
	idx := -1
	for i := range s.Solution.Commands {
		if s.Solution.Commands[i].ID == commandID {
			idx = i
			break
		}
	}
	if idx == -1 {
		e.mu.Unlock()
		return ErrUnknownCommand
	}
	cmd := &s.Solution.Commands[idx]
	switch cmd.Status {
	case diagnosis.CommandSent, diagnosis.CommandProcessing:
		e.mu.Unlock()
		return ErrCommandInFlight
	case diagnosis.CommandCompleted:
		e.mu.Unlock()
		return nil
	case diagnosis.CommandFailed:
		cmd.Status = diagnosis.CommandPending
	}
	cmd.Status = diagnosis.CommandSent
	cmd.Time = e.now().Format("15:04:05")
	snap := s.Session.clone()
	obs := s.observer
	e.mu.Unlock()
	e.emit(equipmentID, snap, obs)

	e.sched.After(commandDelay, func() { e.settleCommand(equipmentID, commandID) })
	return nil
}

func (e *Engine) settleCommand(equipmentID, commandID string) {
	e.mu.Lock()
	s, ok := e.sessions[equipmentID]
	if !ok || s.Solution == nil {
		e.mu.Unlock()
		return
	}
	var cmd *diagnosis.Command
	for i := range s.Solution.Commands {
		if s.Solution.Commands[i].ID == commandID {
			cmd = &s.Solution.Commands[i]
			break
		}
	}
	if cmd == nil {
		e.mu.Unlock()
		return
	}

	failed := e.failRoll() < commandFailureRate
	if failed {
		cmd.Status = diagnosis.CommandFailed
	} else {
		cmd.Status = diagnosis.CommandCompleted
		cmd.Time = e.now().Format("15:04:05")
	}

	barrier := false
	if !failed {
		barrier = true
		for _, c := range s.Solution.Commands {
			if c.Status != diagnosis.CommandCompleted {
				barrier = false
				break
			}
		}
	}
	if barrier {
		for i := range s.Steps {
			if s.Steps[i].Key == KeyResultVerification {
				s.Steps[i].Status = StepCompleted
				s.Steps[i].Details = "All commands dispatched; verifying fault resolution..."
			}
		}
	}
	snap := s.Session.clone()
	obs := s.observer
	e.mu.Unlock()

	if failed {
		e.log.Warn().Str("equipment", equipmentID).Str("command", commandID).
			Msg("command dispatch failed, retry available")
	}
	e.emit(equipmentID, snap, obs)

	if barrier {
		e.sched.After(finalizeDelay, func() { e.finalizeVerification(equipmentID) })
	}
}

func (e *Engine) finalizeVerification(equipmentID string) {
	e.mu.Lock()
	s, ok := e.sessions[equipmentID]
	if !ok {
		e.mu.Unlock()
		return
	}
	for i := range s.Steps {
		if s.Steps[i].Key == KeyResultVerification && s.Steps[i].Status == StepCompleted {
			s.Steps[i].Details = "All commands executed; fault resolved."
		}
	}
	snap := s.Session.clone()
	obs := s.observer
	e.mu.Unlock()
	e.emit(equipmentID, snap, obs)
}

// Complete applies the user's confirmation: the alert moves to completed
// (which restores the equipment's telemetry and re-derives the substation
// through the repository path) and an automatic repair record is appended.
func (e *Engine) Complete(equipmentID, alertID string) error {
	e.mu.Lock()
	s, ok := e.sessions[equipmentID]
	var content string
	if ok && s.Solution != nil {
		content = "Automatic repair via fault-resolution workflow. " + s.Solution.Diagnosis
	} else {
		content = "Automatic repair via fault-resolution workflow."
	}
	e.mu.Unlock()

	if !e.repos.UpdateAlertStatus(alertID, domain.AlertCompleted) {
		return repository.ErrNotFound
	}
	if _, err := e.repos.AddMaintenance(domain.Maintenance{
		EquipmentID: equipmentID,
		Type:        domain.MaintenanceRepair,
		Date:        e.now().Format(domain.DateLayout),
		Technician:  "Remote operations",
		Content:     content,
		Duration:    "45m",
	}); err != nil {
		return err
	}
	e.log.Info().Str("equipment", equipmentID).Str("alert", alertID).
		Msg("fault-resolution session completed")
	return nil
}

// emit persists the snapshot and notifies the observer, outside the
// engine lock.
func (e *Engine) emit(equipmentID string, snap Session, obs Observer) {
	data, err := json.Marshal(snap)
	if err == nil {
		if err := e.store.SaveSession(equipmentID, data); err != nil {
			e.log.Error().Err(err).Str("equipment", equipmentID).Msg("session persist failed")
		}
	}
	if obs != nil {
		obs.SessionUpdated(equipmentID, snap)
	}
}
