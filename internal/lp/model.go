// Package lp is a small linear and mixed-integer programming layer.
//
// A Model holds variables, linear constraints and a linear objective. Linear
// relaxations are solved with gonum's simplex implementation; mixed-integer
// models are solved by depth-first branch and bound over those relaxations.
// Constraint duals are available after solving a Continuous model.
//
// Every Model is an isolated optimization context: build it, solve it, read
// the values back and Release it. Nothing is shared between models.
package lp

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/golang/glog"
)

// ProblemType selects how a model is solved.
type ProblemType int

const (
	Continuous   ProblemType = iota // Integrality flags are ignored, duals are computed
	MixedInteger                    // Integer variables are enforced by branch and bound
)

func (p ProblemType) String() string {
	if p == MixedInteger {
		return "mixed-integer"
	}
	return "continuous"
}

// Sense is the relation of a linear constraint.
type Sense int

const (
	LE Sense = iota // Σ coef·var <= rhs
	EQ              // Σ coef·var == rhs
	GE              // Σ coef·var >= rhs
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "=="
	}
}

// Var is a decision variable bound to the model that created it.
type Var struct {
	index   int
	name    string
	lb, ub  float64
	integer bool
}

// Name returns the variable name.
func (v *Var) Name() string { return v.name }

// Bounds returns the declared domain of the variable.
func (v *Var) Bounds() (float64, float64) { return v.lb, v.ub }

// Integer reports whether the variable was declared integer.
func (v *Var) Integer() bool { return v.integer }

// Term is one coef·var product of a linear expression.
type Term struct {
	Var  *Var
	Coef float64
}

// Expr is a linear expression. Repeated variables are summed.
type Expr []Term

// Add returns e + coef·v.
func (e Expr) Add(coef float64, v *Var) Expr {
	return append(e, Term{Var: v, Coef: coef})
}

// Plus returns the concatenation of e and other.
func (e Expr) Plus(other Expr) Expr {
	out := make(Expr, 0, len(e)+len(other))
	out = append(out, e...)
	return append(out, other...)
}

// Scale returns e multiplied by k.
func (e Expr) Scale(k float64) Expr {
	out := make(Expr, len(e))
	for i, t := range e {
		out[i] = Term{Var: t.Var, Coef: t.Coef * k}
	}
	return out
}

// Sum returns the expression Σ vars.
func Sum(vars ...*Var) Expr {
	e := make(Expr, len(vars))
	for i, v := range vars {
		e[i] = Term{Var: v, Coef: 1}
	}
	return e
}

// Dot returns the expression Σ coefs[i]·vars[i].
func Dot(coefs []float64, vars []*Var) Expr {
	if len(coefs) != len(vars) {
		panic("lp: Dot length mismatch")
	}
	e := make(Expr, 0, len(vars))
	for i, v := range vars {
		if coefs[i] != 0 {
			e = append(e, Term{Var: v, Coef: coefs[i]})
		}
	}
	return e
}

// Constraint is a linear constraint bound to the model that created it.
type Constraint struct {
	index int
	name  string
	expr  Expr
	sense Sense
	rhs   float64
}

// Name returns the constraint name.
func (c *Constraint) Name() string { return c.name }

// Options tunes a single Solve call. Zero values mean "no limit".
type Options struct {
	// TimeLimit bounds the wall-clock time of branch and bound.
	TimeLimit time.Duration
	// NodeLimit bounds the number of branch-and-bound nodes explored.
	NodeLimit int
	// Tolerance is the simplex optimality tolerance.
	Tolerance float64
	// IntegralityTolerance is how far from an integer a value may be and
	// still count as integral.
	IntegralityTolerance float64
}

// feasibilityTolerance is the relative slack allowed when checking a hint.
const feasibilityTolerance = 1e-6

// DefaultOptions returns the tolerances used when none are given.
func DefaultOptions() Options {
	return Options{
		Tolerance:            1e-9,
		IntegralityTolerance: 1e-6,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	if o.IntegralityTolerance <= 0 {
		o.IntegralityTolerance = d.IntegralityTolerance
	}
	return o
}

// Model is one optimization problem.
type Model struct {
	name     string
	kind     ProblemType
	vars     []*Var
	cons     []*Constraint
	obj      Expr
	maximize bool
	hint     map[int]float64

	status   Status
	values   []float64
	duals    []float64
	objValue float64
	wall     time.Duration
	nodes    int
}

// NewModel creates an empty model.
func NewModel(name string, kind ProblemType) *Model {
	return &Model{name: name, kind: kind, status: NotSolved}
}

// Name returns the model name.
func (m *Model) Name() string { return m.name }

// Type returns the problem type the model was created with.
func (m *Model) Type() ProblemType { return m.kind }

// NumVars returns the number of declared variables.
func (m *Model) NumVars() int { return len(m.vars) }

// NumConstraints returns the number of declared constraints.
func (m *Model) NumConstraints() int { return len(m.cons) }

// NewVar declares a variable with domain [lb, ub]. The lower bound must be
// finite; ub may be math.Inf(1).
func (m *Model) NewVar(lb, ub float64, integer bool, name string) *Var {
	if math.IsInf(lb, 0) || math.IsNaN(lb) {
		panic(fmt.Sprintf("lp: variable %q needs a finite lower bound", name))
	}
	v := &Var{index: len(m.vars), name: name, lb: lb, ub: ub, integer: integer}
	m.vars = append(m.vars, v)
	return v
}

// NewIntVar declares an integer variable with domain [lb, ub].
func (m *Model) NewIntVar(lb, ub float64, name string) *Var {
	return m.NewVar(lb, ub, true, name)
}

// NewNumVar declares a continuous variable with domain [lb, ub].
func (m *Model) NewNumVar(lb, ub float64, name string) *Var {
	return m.NewVar(lb, ub, false, name)
}

// NewBoolVar declares a 0/1 integer variable.
func (m *Model) NewBoolVar(name string) *Var {
	return m.NewVar(0, 1, true, name)
}

// AddConstraint adds expr (sense) rhs to the model.
func (m *Model) AddConstraint(expr Expr, sense Sense, rhs float64) *Constraint {
	c := &Constraint{index: len(m.cons), expr: expr, sense: sense, rhs: rhs}
	m.cons = append(m.cons, c)
	return c
}

// AddNamedConstraint is AddConstraint with a name for logging.
func (m *Model) AddNamedConstraint(name string, expr Expr, sense Sense, rhs float64) *Constraint {
	c := m.AddConstraint(expr, sense, rhs)
	c.name = name
	return c
}

// Minimize sets a minimization objective.
func (m *Model) Minimize(expr Expr) {
	m.obj = expr
	m.maximize = false
}

// Maximize sets a maximization objective.
func (m *Model) Maximize(expr Expr) {
	m.obj = expr
	m.maximize = true
}

// SetHint suggests value for v. When every variable of a MixedInteger model
// has a hint and together they satisfy the model, branch and bound starts
// with them as its incumbent. Incomplete or infeasible hints are ignored.
func (m *Model) SetHint(v *Var, value float64) {
	if m.hint == nil {
		m.hint = make(map[int]float64, len(m.vars))
	}
	m.hint[v.index] = value
}

// hintSolution returns the hinted point when it is a complete, feasible
// solution within the domains [lb, ub].
func (m *Model) hintSolution(lb, ub []float64, opts Options) ([]float64, bool) {
	if len(m.hint) == 0 {
		return nil, false
	}
	if len(m.hint) != len(m.vars) {
		glog.V(2).Infof("lp: %s: hint covers %d of %d variables, ignored", m.name, len(m.hint), len(m.vars))
		return nil, false
	}
	x := make([]float64, len(m.vars))
	for j, v := range m.vars {
		x[j] = m.hint[j]
		if v.integer {
			if math.Abs(x[j]-math.Round(x[j])) > opts.IntegralityTolerance {
				glog.V(2).Infof("lp: %s: hint %s=%g is not integral, ignored", m.name, v.name, x[j])
				return nil, false
			}
			x[j] = math.Round(x[j])
		}
		if x[j] < lb[j]-feasibilityTolerance || x[j] > ub[j]+feasibilityTolerance {
			glog.V(2).Infof("lp: %s: hint %s=%g outside [%g, %g], ignored", m.name, v.name, x[j], lb[j], ub[j])
			return nil, false
		}
	}
	for _, c := range m.cons {
		var lhs, size float64
		for _, t := range c.expr {
			lhs += t.Coef * x[t.Var.index]
			size += math.Abs(t.Coef * x[t.Var.index])
		}
		tol := feasibilityTolerance * (1 + size + math.Abs(c.rhs))
		var ok bool
		switch c.sense {
		case LE:
			ok = lhs <= c.rhs+tol
		case GE:
			ok = lhs >= c.rhs-tol
		default:
			ok = math.Abs(lhs-c.rhs) <= tol
		}
		if !ok {
			glog.V(2).Infof("lp: %s: hint violates %s (%g %s %g), ignored", m.name, c.name, lhs, c.sense, c.rhs)
			return nil, false
		}
	}
	return x, true
}

// Solve solves the model and returns its status. It blocks until the solver
// finishes, the context is done, or a limit in opts is reached.
func (m *Model) Solve(ctx context.Context, opts Options) Status {
	opts = opts.withDefaults()
	start := time.Now()
	defer func() { m.wall = time.Since(start) }()

	m.values, m.duals, m.objValue, m.nodes = nil, nil, 0, 0
	if err := ctx.Err(); err != nil {
		m.status = NotSolved
		return m.status
	}

	lb, ub := m.domains()
	if m.kind == MixedInteger && m.hasIntegers() {
		m.status = m.branchAndBound(ctx, lb, ub, opts, start)
	} else {
		rel := m.relax(lb, ub, m.kind == Continuous, opts)
		m.status = rel.status
		if rel.status.HasSolution() {
			m.values = rel.x
			m.duals = rel.duals
			m.objValue = m.evaluate(rel.x)
		}
	}
	glog.V(2).Infof("lp: %s (%s, %d vars, %d constraints) solved: %s in %s",
		m.name, m.kind, len(m.vars), len(m.cons), m.status, time.Since(start))
	return m.status
}

// Status returns the status of the last Solve.
func (m *Model) Status() Status { return m.status }

// Value returns the solved value of v. Integer variables of a MixedInteger
// model are rounded to the nearest integer. Zero is returned when the last
// solve produced no solution.
func (m *Model) Value(v *Var) float64 {
	if v == nil || v.index >= len(m.values) {
		return 0
	}
	x := m.values[v.index]
	if m.kind == MixedInteger && v.integer {
		return math.Round(x)
	}
	return x
}

// Values returns Value for every variable in vars.
func (m *Model) Values(vars []*Var) []float64 {
	out := make([]float64, len(vars))
	for i, v := range vars {
		out[i] = m.Value(v)
	}
	return out
}

// Dual returns the dual value of c. Duals are only meaningful for
// Continuous models; zero is returned otherwise.
func (m *Model) Dual(c *Constraint) float64 {
	if c == nil || c.index >= len(m.duals) {
		return 0
	}
	return m.duals[c.index]
}

// Duals returns Dual for every constraint in cons.
func (m *Model) Duals(cons []*Constraint) []float64 {
	out := make([]float64, len(cons))
	for i, c := range cons {
		out[i] = m.Dual(c)
	}
	return out
}

// ObjectiveValue returns the objective achieved by the last solve.
func (m *Model) ObjectiveValue() float64 { return m.objValue }

// WallTime returns the duration of the last Solve.
func (m *Model) WallTime() time.Duration { return m.wall }

// Nodes returns the number of branch-and-bound nodes explored by the last Solve.
func (m *Model) Nodes() int { return m.nodes }

// Release drops everything the model holds. The model must not be used afterwards.
func (m *Model) Release() {
	m.vars, m.cons, m.obj, m.hint = nil, nil, nil, nil
	m.values, m.duals = nil, nil
}

func (m *Model) domains() ([]float64, []float64) {
	lb := make([]float64, len(m.vars))
	ub := make([]float64, len(m.vars))
	for i, v := range m.vars {
		lb[i], ub[i] = v.lb, v.ub
		if m.kind == MixedInteger && v.integer {
			lb[i] = math.Ceil(v.lb - 1e-9)
			if !math.IsInf(v.ub, 1) {
				ub[i] = math.Floor(v.ub + 1e-9)
			}
		}
	}
	return lb, ub
}

func (m *Model) hasIntegers() bool {
	for _, v := range m.vars {
		if v.integer {
			return true
		}
	}
	return false
}

// evaluate computes the objective at x.
func (m *Model) evaluate(x []float64) float64 {
	var f float64
	for _, t := range m.obj {
		f += t.Coef * x[t.Var.index]
	}
	return f
}
