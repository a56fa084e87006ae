package formula

import (
	"sync"

	"github.com/etnz/fundscreen"
	"go.uber.org/zap"
)

// State is the step a formula submission has reached.
type State int

const (
	Idle State = iota
	Resolving
	Validating
	Evaluating
	Applied
	Rejected
)

func (s State) String() string {
	switch s {
	case Resolving:
		return "Resolving"
	case Validating:
		return "Validating"
	case Evaluating:
		return "Evaluating"
	case Applied:
		return "Applied"
	case Rejected:
		return "Rejected"
	default:
		return "Idle"
	}
}

// Outcome is everything a successful submission produced.
type Outcome struct {
	Expression *Expression
	Aliases    []string // aliases the formula used
	Result     *Result
	Filtered   *fundscreen.Dataset
	Summary    Summary
}

// Engine filters datasets with formulas. It holds the alias table and
// records the state of the last submission. An Engine is safe for
// concurrent use: the outcome of each Submit is its own, but overlapping
// submissions share the state record, last writer wins, so State may report
// the step of another submission.
type Engine struct {
	logger  *zap.Logger
	aliases Aliases

	mu    sync.Mutex
	state State
	err   error

	evaluate func(*Expression, *fundscreen.Dataset) (*Result, error)
}

// NewEngine returns an engine using aliases, or DefaultAliases when nil.
func NewEngine(logger *zap.Logger, aliases Aliases) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if aliases == nil {
		aliases = DefaultAliases()
	}
	if err := aliases.Check(); err != nil {
		return nil, err
	}
	return &Engine{
		logger:   logger,
		aliases:  aliases.Merge(),
		evaluate: Evaluate,
	}, nil
}

// Aliases returns a copy of the engine's alias table.
func (e *Engine) Aliases() Aliases { return e.aliases.Merge() }

// State returns the state of the last submission, and its error when it was
// rejected.
func (e *Engine) State() (State, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state, e.err
}

// Reset puts the engine back to Idle.
func (e *Engine) Reset() { e.set(Idle, nil) }

func (e *Engine) set(s State, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, e.err = s, err
}

func (e *Engine) reject(expr string, err error) error {
	e.set(Rejected, err)
	e.logger.Info("Formula rejected",
		zap.String("formula", expr),
		zap.Stringer("kind", KindOf(err)),
		zap.Error(err))
	return err
}

// Check resolves and validates expr against columns without evaluating it
// nor touching the engine state.
func (e *Engine) Check(expr string, columns []string) (*Expression, []string, error) {
	resolved, used, err := Resolve(expr, e.aliases, columns)
	if err != nil {
		return nil, nil, err
	}
	x, err := Validate(resolved, columns)
	if err != nil {
		return nil, nil, err
	}
	return x, used, nil
}

// Submit runs expr on d: aliases are resolved, the result validated, then
// evaluated on every row and applied. Any failure rejects the formula and is
// returned as an *Error; d is never modified.
func (e *Engine) Submit(expr string, d *fundscreen.Dataset) (*Outcome, error) {
	e.set(Idle, nil)
	columns := d.Columns()

	e.set(Resolving, nil)
	resolved, used, err := Resolve(expr, e.aliases, columns)
	if err != nil {
		return nil, e.reject(expr, err)
	}
	e.logger.Debug("Resolved aliases", zap.String("formula", expr), zap.String("resolved", resolved), zap.Strings("aliases", used))

	e.set(Validating, nil)
	x, err := Validate(resolved, columns)
	if err != nil {
		return nil, e.reject(expr, err)
	}

	e.set(Evaluating, nil)
	res, err := e.evaluate(x, d)
	if err != nil {
		return nil, e.reject(expr, err)
	}
	filtered, summary, err := Apply(d, res)
	if err != nil {
		return nil, e.reject(expr, err)
	}

	e.set(Applied, nil)
	e.logger.Info("Formula applied",
		zap.Stringer("formula", x),
		zap.Int("total", summary.Total),
		zap.Int("kept", summary.Kept),
		zap.Int("excluded_by_formula", summary.ExcludedByFormula),
		zap.Int("excluded_missing", summary.ExcludedMissing))
	return &Outcome{
		Expression: x,
		Aliases:    used,
		Result:     res,
		Filtered:   filtered,
		Summary:    summary,
	}, nil
}
