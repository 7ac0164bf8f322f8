package lp

import (
	"context"
	"math"
	"time"

	"github.com/golang/glog"
)

// node is one box of variable bounds in the branch-and-bound tree.
type node struct {
	lb, ub []float64
	depth  int
}

// branchAndBound solves a MixedInteger model depth first. The child closest
// to the fractional value is explored first; nodes whose relaxation cannot
// beat the incumbent are pruned. When the objective only involves integer
// variables with integer coefficients, relaxation bounds are rounded up
// before comparing, which closes most of the search on cutting problems.
// A feasible hint becomes the first incumbent. A node whose relaxation the
// simplex cannot solve is split on its widest integer domain so the search
// stays exhaustive.
func (m *Model) branchAndBound(ctx context.Context, lb, ub []float64, opts Options, start time.Time) Status {
	sign := 1.0
	if m.maximize {
		sign = -1
	}
	integral := m.integralObjective()

	var best []float64
	bestObj := math.Inf(1)
	complete := true
	root := true

	if x, ok := m.hintSolution(lb, ub, opts); ok {
		best, bestObj = x, sign*m.evaluate(x)
		glog.V(2).Infof("lp: %s: hint accepted as incumbent %g", m.name, sign*bestObj)
	}

	stack := []node{{lb: lb, ub: ub}}
	for len(stack) > 0 {
		if ctx.Err() != nil ||
			(opts.TimeLimit > 0 && time.Since(start) > opts.TimeLimit) ||
			(opts.NodeLimit > 0 && m.nodes >= opts.NodeLimit) {
			complete = false
			break
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		m.nodes++

		rel := m.relax(nd.lb, nd.ub, false, opts)
		switch rel.status {
		case Infeasible:
			root = false
			continue
		case Unbounded:
			if root {
				return rel.status
			}
			complete = false
			continue
		case Abnormal:
			root = false
			j := widestDomain(m.vars, nd.lb, nd.ub)
			if j < 0 {
				complete = false
				continue
			}
			mid := math.Floor((nd.lb[j] + nd.ub[j]) / 2)
			glog.V(3).Infof("lp: %s: splitting %s at %g after a failed relaxation", m.name, m.vars[j].name, mid)
			stack = append(stack,
				node{lb: cloneWith(nd.lb, j, mid+1), ub: nd.ub, depth: nd.depth + 1},
				node{lb: nd.lb, ub: cloneWith(nd.ub, j, mid), depth: nd.depth + 1})
			continue
		}
		root = false

		bound := sign * m.evaluate(rel.x)
		if integral {
			bound = math.Ceil(bound - opts.IntegralityTolerance)
		}
		if bound >= bestObj-1e-9 {
			continue
		}

		j := m.mostFractional(rel.x, opts.IntegralityTolerance)
		if j < 0 {
			x := m.roundIntegers(rel.x)
			obj := sign * m.evaluate(x)
			if obj < bestObj {
				best, bestObj = x, obj
				glog.V(3).Infof("lp: %s: incumbent %g at node %d (depth %d)", m.name, sign*obj, m.nodes, nd.depth)
			}
			continue
		}

		v := rel.x[j]
		down := node{lb: nd.lb, ub: cloneWith(nd.ub, j, math.Floor(v)), depth: nd.depth + 1}
		up := node{lb: cloneWith(nd.lb, j, math.Ceil(v)), ub: nd.ub, depth: nd.depth + 1}
		if v-math.Floor(v) < 0.5 {
			stack = append(stack, up, down)
		} else {
			stack = append(stack, down, up)
		}
	}

	if best == nil {
		if complete {
			return Infeasible
		}
		return NotSolved
	}
	m.values = best
	m.objValue = m.evaluate(best)
	if complete {
		return Optimal
	}
	return Feasible
}

// integralObjective reports whether every objective term is an integer
// coefficient on an integer variable.
func (m *Model) integralObjective() bool {
	for _, t := range m.obj {
		if t.Coef == 0 {
			continue
		}
		if !t.Var.integer || t.Coef != math.Trunc(t.Coef) {
			return false
		}
	}
	return true
}

// mostFractional returns the integer variable whose value is farthest from
// an integer, or -1 when all integer variables are integral.
func (m *Model) mostFractional(x []float64, tol float64) int {
	idx := -1
	worst := tol
	for j, v := range m.vars {
		if !v.integer {
			continue
		}
		f := math.Abs(x[j] - math.Round(x[j]))
		if f > worst {
			worst = f
			idx = j
		}
	}
	return idx
}

func (m *Model) roundIntegers(x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range m.vars {
		out[j] = x[j]
		if v.integer {
			out[j] = math.Round(x[j])
		}
	}
	return out
}

// widestDomain returns the integer variable with the widest finite domain
// that is not yet fixed, or -1.
func widestDomain(vars []*Var, lb, ub []float64) int {
	idx := -1
	var widest float64
	for j, v := range vars {
		if !v.integer || math.IsInf(ub[j], 1) {
			continue
		}
		if w := ub[j] - lb[j]; w >= 1 && w > widest {
			widest, idx = w, j
		}
	}
	return idx
}

func cloneWith(s []float64, j int, v float64) []float64 {
	out := make([]float64, len(s))
	copy(out, s)
	out[j] = v
	return out
}
