package lp

// Status is the outcome of a solve.
type Status int

const (
	NotSolved  Status = iota // Solve was never called or stopped before any answer
	Optimal                  // Proven optimal solution
	Feasible                 // Feasible solution, optimality not proven (limit reached)
	Infeasible               // No solution satisfies the constraints
	Unbounded                // Objective can improve without limit
	Abnormal                 // Numerical failure inside the solver
)

// String returns the status name used in results and reports.
func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	case Abnormal:
		return "ABNORMAL"
	default:
		return "NOT_SOLVED"
	}
}

// HasSolution reports whether the status carries usable variable values.
func (s Status) HasSolution() bool {
	return s == Optimal || s == Feasible
}

// ParseStatus maps a status name back to its Status. Unknown names map to NotSolved.
func ParseStatus(name string) Status {
	for _, s := range []Status{Optimal, Feasible, Infeasible, Unbounded, Abnormal} {
		if s.String() == name {
			return s
		}
	}
	return NotSolved
}
