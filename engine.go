package udc

import (
	"time"

	"github.com/dealcipher/udc/corpus"
	"github.com/google/uuid"
)

// Engine runs the eight-phase pipeline against a configured rule-profile
// repository. An Engine is stateless and safe for concurrent use by
// multiple goroutines: every Run call operates on its own input copy and
// shares nothing but the (read-only) Repository.
type Engine struct {
	Repository corpus.Repository
	Config     Config
	Logger     *Logger
}

// NewEngine builds an Engine over repo using cfg. A nil logger disables
// phase-entry logging.
func NewEngine(repo corpus.Repository, cfg Config, logger *Logger) *Engine {
	return &Engine{Repository: repo, Config: cfg, Logger: logger}
}

// Run executes the full pipeline for one DealInput, returning the
// terminal UdcOutput or the first error encountered. No partial output is
// ever returned alongside an error.
func (e *Engine) Run(input DealInput) (UdcOutput, error) {
	dealID := uuid.New()
	now := time.Now()
	if e.Config.EffectiveDate != nil {
		now = *e.Config.EffectiveDate
	}

	e.logPhase(PhaseNormalize, "start")
	normalized, err := normalize(input, now)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseNormalize, "done")

	e.logPhase(PhaseRoute, "start")
	routed, err := route(normalized)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseRoute, "done")

	e.logPhase(PhaseJurisdiction, "start")
	jurisdictioned, err := resolveJurisdiction(routed)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseJurisdiction, "done")

	// Profiles are resolved against the deal's own date, not the engine's
	// wall clock: normalize() has already defaulted DealDate to now when the
	// caller omitted it, so a back-dated deal (e.g. requoting an old
	// contract) still gets the rule corpus version in effect on that date.
	effectiveAt := *normalized.Input.DealDate

	e.logPhase(PhaseProfiles, "start")
	profiled, err := loadProfiles(jurisdictioned, e.Repository, effectiveAt)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseProfiles, "done")

	var validation ValidationResult
	for _, w := range profiled.Warnings {
		validation.addWarning(PhaseProfiles, "profile_fallback", "%s", w)
	}
	if err := validation.promote(e.Config.StrictMode); err != nil {
		return UdcOutput{}, err
	}

	e.logPhase(PhaseTaxCipher, "start")
	tax, err := calculateTax(profiled)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseTaxCipher, "done")

	computed := TaxComputedDeal{Deal: profiled, Tax: tax}

	e.logPhase(PhaseStructure, "start")
	structured, err := structureDeal(computed)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseStructure, "done")

	e.logPhase(PhaseCashflow, "start")
	cashflowed, err := generateCashflow(structured)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseCashflow, "done")

	e.logPhase(PhaseFinalize, "start")
	finalized, err := finalizeOutput(cashflowed, validation, dealID, now)
	if err != nil {
		return UdcOutput{}, err
	}
	e.logPhase(PhaseFinalize, "done")

	return finalized.Output, nil
}

func (e *Engine) logPhase(phase Phase, stage string) {
	e.Logger.debugf(phase, "%s", stage)
}

// BatchResult pairs one input's outcome with its index in the submitted
// batch, so callers can recover ordering after bounded-concurrency
// execution.
type BatchResult struct {
	Index  int
	Output UdcOutput
	Err    error
}
