package corpus

import (
	"fmt"
	"time"
)

// NotFoundError is returned by a Repository when no profile resolves at
// any tier of the fallback chain, including the synthetic default.
type NotFoundError struct {
	State StateCode
	Mode  DealMode
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("corpus: no rule profile for %s/%s", e.State, e.Mode)
}

// Repository resolves rule and program profiles. The core pipeline depends
// only on this interface, never on a concrete storage technology — callers
// inject XMLRepository, SQLiteRepository, or their own implementation.
type Repository interface {
	RuleProfile(state StateCode, mode DealMode, at time.Time) (RuleProfile, []string, error)
	ProgramProfile(lenderID string) (*ProgramProfile, error)
}

// StaticRepository is an in-memory Repository backed by a fixed slice of
// profiles, used directly by tests and as the base layer that
// XMLRepository/SQLiteRepository populate at load time.
type StaticRepository struct {
	profiles []RuleProfile
	programs map[string]ProgramProfile
	fallback func(state StateCode, mode DealMode) RuleProfile
}

// NewStaticRepository builds a StaticRepository. fallback, if non-nil, is
// consulted to synthesize a default profile (P3's third resolution tier)
// when no profile matches even loosely; it must itself never fail.
func NewStaticRepository(profiles []RuleProfile, programs map[string]ProgramProfile, fallback func(StateCode, DealMode) RuleProfile) *StaticRepository {
	if programs == nil {
		programs = map[string]ProgramProfile{}
	}
	return &StaticRepository{profiles: profiles, programs: programs, fallback: fallback}
}

// RuleProfile resolves via spec §4.4's three-tier chain: (1) exact match on
// (state, mode, effective-date range), (2) state match with any mode and a
// warning, (3) a synthetic default profile with a warning. Returns the
// warnings accumulated, if any, alongside the resolved profile.
func (r *StaticRepository) RuleProfile(state StateCode, mode DealMode, at time.Time) (RuleProfile, []string, error) {
	var stateMatch *RuleProfile
	for i := range r.profiles {
		p := &r.profiles[i]
		if p.StateCode != state {
			continue
		}
		if !p.Meta.Active {
			continue
		}
		if p.Meta.EffectiveDate.After(at) {
			continue
		}
		if p.Meta.ExpirationDate != nil && p.Meta.ExpirationDate.Before(at) {
			continue
		}
		if p.Mode == mode {
			return *p, nil, nil
		}
		if stateMatch == nil {
			stateMatch = p
		}
	}
	if stateMatch != nil {
		clone := *stateMatch
		clone.Mode = mode
		return clone, []string{fmt.Sprintf("no exact-mode profile for %s/%s; falling back to %s profile for that state", state, mode, stateMatch.Mode)}, nil
	}
	if r.fallback != nil {
		return r.fallback(state, mode), []string{fmt.Sprintf("no profile for %s; using synthetic default profile", state)}, nil
	}
	return RuleProfile{}, nil, &NotFoundError{State: state, Mode: mode}
}

// ProgramProfile looks up a lender/lessor program by ID. A missing lender
// ID is not an error — callers without a program simply get (nil, nil).
func (r *StaticRepository) ProgramProfile(lenderID string) (*ProgramProfile, error) {
	if lenderID == "" {
		return nil, nil
	}
	if p, ok := r.programs[lenderID]; ok {
		return &p, nil
	}
	return nil, nil
}
