package lp

import (
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	golp "gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	// fixedWidth is the domain width under which a variable counts as fixed.
	fixedWidth = 1e-9
	// perturbation scales the right-hand side shift of the last simplex retry.
	perturbation = 1e-9
)

// relaxation is the answer to one linear program over a box of variable bounds.
type relaxation struct {
	status Status
	x      []float64
	duals  []float64
}

// stdRow is one row of the standard form before it is written into A.
type stdRow struct {
	coefs  map[int]float64 // model variable index -> coefficient
	rhs    float64
	slack  float64 // +1 for <=, -1 for >=, 0 for ==
	origin int     // constraint index, -1 for an upper-bound row
}

// relax solves the linear relaxation of the model with variable domains
// [lb[j], ub[j]]. The model is brought to the form
//
//	minimize cᵀx'  s.t.  A·x' = b, x' >= 0
//
// by shifting every variable by its lower bound, turning finite upper bounds
// into rows and adding one slack per inequality, then handed to gonum.
// Variables whose domain is a single point are substituted as constants and
// never reach the simplex.
func (m *Model) relax(lb, ub []float64, wantDuals bool, opts Options) (rel relaxation) {
	defer func() {
		if r := recover(); r != nil {
			glog.Warningf("lp: %s: simplex failed: %v", m.name, r)
			rel = relaxation{status: Abnormal}
		}
	}()

	n := len(m.vars)
	for j := 0; j < n; j++ {
		if ub[j] < lb[j]-1e-9 {
			return relaxation{status: Infeasible}
		}
	}

	sign := 1.0
	if m.maximize {
		sign = -1
	}
	cost := make([]float64, n)
	for _, t := range m.obj {
		cost[t.Var.index] += sign * t.Coef
	}

	fixed := make([]bool, n)
	for j := 0; j < n; j++ {
		fixed[j] = ub[j]-lb[j] <= fixedWidth
	}

	used := make([]bool, n)
	rows := make([]stdRow, 0, len(m.cons)+n)
	for k, c := range m.cons {
		r := stdRow{coefs: make(map[int]float64, len(c.expr)), rhs: c.rhs, origin: k}
		for _, t := range c.expr {
			r.coefs[t.Var.index] += t.Coef
		}
		for j, a := range r.coefs {
			if a == 0 {
				delete(r.coefs, j)
				continue
			}
			r.rhs -= a * lb[j]
			if fixed[j] {
				delete(r.coefs, j)
				continue
			}
			used[j] = true
		}
		switch c.sense {
		case LE:
			r.slack = 1
		case GE:
			r.slack = -1
		}
		if len(r.coefs) == 0 {
			if !emptyRowHolds(c.sense, r.rhs, opts.Tolerance*(1+math.Abs(c.rhs))) {
				return relaxation{status: Infeasible}
			}
			continue
		}
		rows = append(rows, r)
	}
	for j := 0; j < n; j++ {
		if math.IsInf(ub[j], 1) || fixed[j] {
			continue
		}
		rows = append(rows, stdRow{coefs: map[int]float64{j: 1}, rhs: ub[j] - lb[j], slack: 1, origin: -1})
		used[j] = true
	}

	x := make([]float64, n)
	copy(x, lb)
	col := make([]int, n)
	structural := 0
	for j := 0; j < n; j++ {
		if fixed[j] {
			col[j] = -1
			continue
		}
		if !used[j] {
			// A free-floating variable sits at its lower bound unless it improves
			// the objective, in which case nothing stops it.
			if cost[j] < 0 {
				return relaxation{status: Unbounded}
			}
			col[j] = -1
			continue
		}
		col[j] = structural
		structural++
	}

	if len(rows) == 0 {
		return relaxation{status: Optimal, x: x, duals: make([]float64, len(m.cons))}
	}

	slacks := 0
	for _, r := range rows {
		if r.slack != 0 {
			slacks++
		}
	}
	R, N := len(rows), structural+slacks
	if R > N {
		glog.Warningf("lp: %s: %d rows exceed %d columns", m.name, R, N)
		return relaxation{status: Abnormal}
	}

	A := mat.NewDense(R, N, nil)
	b := make([]float64, R)
	scale := make([]float64, R)
	s := structural
	for i, r := range rows {
		// Rows are scaled to a unit max coefficient to keep the phase-one
		// tolerances of the simplex meaningful.
		var maxAbs float64
		for _, a := range r.coefs {
			maxAbs = math.Max(maxAbs, math.Abs(a))
		}
		scale[i] = maxAbs
		for j, a := range r.coefs {
			A.Set(i, col[j], a/maxAbs)
		}
		b[i] = r.rhs / maxAbs
		if r.slack != 0 {
			A.Set(i, s, r.slack)
			s++
		}
	}
	c := make([]float64, N)
	for j := 0; j < n; j++ {
		if col[j] >= 0 {
			c[col[j]] = cost[j]
		}
	}

	xs, err := simplex(c, A, b, opts.Tolerance)
	if err != nil {
		st := statusFromError(err)
		if st == Abnormal {
			glog.Warningf("lp: %s: %v", m.name, err)
		}
		return relaxation{status: st}
	}
	for j := 0; j < n; j++ {
		if col[j] >= 0 {
			x[j] = lb[j] + xs[col[j]]
		}
	}
	rel = relaxation{status: Optimal, x: x}

	if wantDuals {
		rel.duals = make([]float64, len(m.cons))
		y, err := dualValues(A, b, c, opts.Tolerance)
		if err != nil {
			glog.Warningf("lp: %s: duals unavailable: %v", m.name, err)
			return rel
		}
		for i, r := range rows {
			if r.origin >= 0 {
				rel.duals[r.origin] = sign * y[i] / scale[i]
			}
		}
	}
	return rel
}

// simplex runs gonum's simplex. When the starting basis it picks turns
// singular, the program is solved again with the columns reversed, which
// makes gonum start from a different basis, and then once more with the
// right-hand side nudged off the degenerate vertex.
func simplex(c []float64, A *mat.Dense, b []float64, tol float64) ([]float64, error) {
	_, x, err := golp.Simplex(c, A, b, tol, nil)
	if err == nil || statusFromError(err) != Abnormal {
		return x, err
	}
	glog.V(3).Infof("lp: simplex retry with reversed columns after: %v", err)

	R, N := A.Dims()
	rc := make([]float64, N)
	rA := mat.NewDense(R, N, nil)
	for j := 0; j < N; j++ {
		rc[N-1-j] = c[j]
		for i := 0; i < R; i++ {
			if a := A.At(i, j); a != 0 {
				rA.Set(i, N-1-j, a)
			}
		}
	}
	if _, rx, rerr := golp.Simplex(rc, rA, b, tol, nil); rerr == nil {
		x = make([]float64, N)
		for j := range x {
			x[j] = rx[N-1-j]
		}
		return x, nil
	} else if statusFromError(rerr) != Abnormal {
		return nil, rerr
	}

	pb := make([]float64, R)
	for i := range b {
		pb[i] = b[i] + perturbation*float64(i+1)*(1+math.Abs(b[i]))
	}
	_, x, perr := golp.Simplex(c, A, pb, tol, nil)
	if perr != nil {
		return nil, err
	}
	for j := range x {
		if x[j] < 0 {
			x[j] = 0
		}
	}
	return x, nil
}

// dualValues solves the dual of min cᵀx, A·x = b, x >= 0:
//
//	maximize bᵀy  s.t.  Aᵀy <= c
//
// with y free, written as y = y⁺ - y⁻ plus one slack per dual row.
func dualValues(A *mat.Dense, b, c []float64, tol float64) ([]float64, error) {
	R, N := A.Dims()
	D := mat.NewDense(N, 2*R+N, nil)
	for i := 0; i < R; i++ {
		for j := 0; j < N; j++ {
			if a := A.At(i, j); a != 0 {
				D.Set(j, i, a)
				D.Set(j, R+i, -a)
			}
		}
	}
	for j := 0; j < N; j++ {
		D.Set(j, 2*R+j, 1)
	}
	cd := make([]float64, 2*R+N)
	for i := 0; i < R; i++ {
		cd[i] = -b[i]
		cd[R+i] = b[i]
	}
	_, z, err := golp.Simplex(cd, D, c, tol, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dual simplex")
	}
	y := make([]float64, R)
	for i := range y {
		y[i] = z[i] - z[R+i]
	}
	return y, nil
}

func emptyRowHolds(sense Sense, rhs, tol float64) bool {
	switch sense {
	case LE:
		return rhs >= -tol
	case GE:
		return rhs <= tol
	default:
		return math.Abs(rhs) <= tol
	}
}

func statusFromError(err error) Status {
	switch {
	case errors.Is(err, golp.ErrInfeasible):
		return Infeasible
	case errors.Is(err, golp.ErrUnbounded):
		return Unbounded
	default:
		return Abnormal
	}
}
