// Package assign solves one round of the seating assignment as an exact
// maximum-weight bipartite matching.
package assign

import (
	"math"
	"sort"
)

// DefaultForbiddenPenalty demotes already-used pairs below any achievable
// score so they are only chosen when no unused partner remains.
const DefaultForbiddenPenalty = 1_000_000.0

// Pair identifies one matched (candidate row, company column) edge.
type Pair struct {
	Row int
	Col int
}

// Result is one round's matching.
type Result struct {
	// Pairs holds min(rows, cols) edges, ordered by Row ascending.
	Pairs []Pair
	// Relaxed lists chosen pairs that were in the forbidden set. They are
	// last-resort repeats, reported so the caller can note them.
	Relaxed []Pair
}

// Option applies a configuration option to the Assigner.
type Option func(*Assigner)

// WithForbiddenPenalty sets the weight penalty applied to forbidden pairs.
// The penalty must exceed the total score spread of a full round, otherwise
// the solver may trade a repeat pairing for a higher-scoring round.
func WithForbiddenPenalty(penalty float64) Option {
	return func(a *Assigner) {
		if penalty > 0 {
			a.penalty = penalty
		}
	}
}

// Assigner computes per-round matchings. The solve is exact: it returns the
// globally optimal sum for the round, not a greedy local optimum.
type Assigner struct {
	penalty float64
}

// NewAssigner creates an Assigner with configuration options.
func NewAssigner(opts ...Option) *Assigner {
	a := &Assigner{
		penalty: DefaultForbiddenPenalty,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Round computes a maximum-weight matching over weights[row][col], demoting
// forbidden pairs by the configured penalty instead of removing them, so a
// full matching on the smaller side always exists. Rows are processed in
// ascending order and equal-cost choices resolve toward the smallest column,
// which keeps identical inputs producing identical matchings. When several
// matchings share the optimal total, the one returned is stable across runs
// but is not guaranteed to be the lexicographically smallest of them.
func (a *Assigner) Round(weights [][]float64, forbidden map[Pair]bool) (Result, error) {
	rows := len(weights)
	if rows == 0 {
		return Result{}, ErrNoFeasibleMatching
	}
	cols := len(weights[0])
	if cols == 0 {
		return Result{}, ErrNoFeasibleMatching
	}

	// The solver wants rows <= cols; transpose when companies are scarcer.
	transposed := rows > cols
	eff := make([][]float64, 0, rows)
	if transposed {
		for j := 0; j < cols; j++ {
			r := make([]float64, rows)
			for i := 0; i < rows; i++ {
				r[i] = a.effective(weights, forbidden, i, j)
			}
			eff = append(eff, r)
		}
	} else {
		for i := 0; i < rows; i++ {
			r := make([]float64, cols)
			for j := 0; j < cols; j++ {
				r[j] = a.effective(weights, forbidden, i, j)
			}
			eff = append(eff, r)
		}
	}

	match := solveMaxWeight(eff)

	res := Result{Pairs: make([]Pair, 0, len(match))}
	for i, j := range match {
		p := Pair{Row: i, Col: j}
		if transposed {
			p = Pair{Row: j, Col: i}
		}
		res.Pairs = append(res.Pairs, p)
	}
	sort.Slice(res.Pairs, func(i, j int) bool { return res.Pairs[i].Row < res.Pairs[j].Row })
	for _, p := range res.Pairs {
		if forbidden[p] {
			res.Relaxed = append(res.Relaxed, p)
		}
	}
	return res, nil
}

func (a *Assigner) effective(weights [][]float64, forbidden map[Pair]bool, i, j int) float64 {
	w := weights[i][j]
	if forbidden[Pair{Row: i, Col: j}] {
		w -= a.penalty
	}
	return w
}

// solveMaxWeight runs the Jonker-Volgenant shortest-augmenting-path
// algorithm on a rows<=cols matrix and returns match[row] = col.
// Maximization is expressed as min-cost by negating the weights; the dual
// potentials keep the solve O(rows^2 * cols).
func solveMaxWeight(weight [][]float64) []int {
	n := len(weight)
	m := len(weight[0])

	// 1-based internally, column 0 is the virtual free column.
	u := make([]float64, n+1)
	v := make([]float64, m+1)
	rowOf := make([]int, m+1) // rowOf[j] = row assigned to column j, 0 = free
	way := make([]int, m+1)

	for i := 1; i <= n; i++ {
		rowOf[0] = i
		j0 := 0
		minv := make([]float64, m+1)
		used := make([]bool, m+1)
		for j := range minv {
			minv[j] = math.Inf(1)
		}
		for {
			used[j0] = true
			i0 := rowOf[j0]
			delta := math.Inf(1)
			j1 := 0
			for j := 1; j <= m; j++ {
				if used[j] {
					continue
				}
				cur := -weight[i0-1][j-1] - u[i0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = j0
				}
				if minv[j] < delta {
					delta = minv[j]
					j1 = j
				}
			}
			for j := 0; j <= m; j++ {
				if used[j] {
					u[rowOf[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			j0 = j1
			if rowOf[j0] == 0 {
				break
			}
		}
		for j0 != 0 {
			j1 := way[j0]
			rowOf[j0] = rowOf[j1]
			j0 = j1
		}
	}

	match := make([]int, n)
	for j := 1; j <= m; j++ {
		if rowOf[j] != 0 {
			match[rowOf[j]-1] = j - 1
		}
	}
	return match
}
