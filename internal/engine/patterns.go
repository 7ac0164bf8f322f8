package engine

// Pattern is one way to cut a parent roll: Pattern[i] units of demand i.
type Pattern []int

// Width returns Σ p[i]·lengths[i].
func (p Pattern) Width(lengths []float64) float64 {
	var w float64
	for i, n := range p {
		w += float64(n) * lengths[i]
	}
	return w
}

// Units returns the number of pieces the pattern yields.
func (p Pattern) Units() int {
	n := 0
	for _, u := range p {
		n += u
	}
	return n
}

// PatternSet is an append-only matrix of patterns over a fixed demand index
// space. Columns are patterns, rows are demands.
type PatternSet struct {
	demands int
	cols    []Pattern
}

// NewIdentityPatternSet seeds one pattern per demand holding a single unit of
// that demand only.
func NewIdentityPatternSet(demands int) *PatternSet {
	ps := &PatternSet{demands: demands}
	for i := 0; i < demands; i++ {
		p := make(Pattern, demands)
		p[i] = 1
		ps.cols = append(ps.cols, p)
	}
	return ps
}

// Len returns the number of patterns.
func (ps *PatternSet) Len() int { return len(ps.cols) }

// Demands returns the number of demand rows.
func (ps *PatternSet) Demands() int { return ps.demands }

// Append adds a copy of p as the last column. It panics if p does not have
// one entry per demand.
func (ps *PatternSet) Append(p Pattern) {
	if len(p) != ps.demands {
		panic("engine: pattern length does not match demand count")
	}
	c := make(Pattern, len(p))
	copy(c, p)
	ps.cols = append(ps.cols, c)
}

// Column returns a copy of pattern j.
func (ps *PatternSet) Column(j int) Pattern {
	c := make(Pattern, ps.demands)
	copy(c, ps.cols[j])
	return c
}

// At returns the units of demand i in pattern j.
func (ps *PatternSet) At(i, j int) int { return ps.cols[j][i] }

// Rows returns the set as patterns[i][j], demand-major.
func (ps *PatternSet) Rows() [][]int {
	rows := make([][]int, ps.demands)
	for i := range rows {
		rows[i] = make([]int, len(ps.cols))
		for j, c := range ps.cols {
			rows[i][j] = c[i]
		}
	}
	return rows
}
