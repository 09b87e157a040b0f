// Package align implements global alignment of two byte sequences for
// producing position-marked diffs of diverging device traffic. It uses the
// Needleman–Wunsch algorithm with uniform costs: the goal is a readable
// rendering of where two payloads drift apart, not a scored match.
package align

import "strings"

// Gap marks a column where one side has no byte (an insertion on the other
// side).
const Gap = -1

// Result holds the two aligned rows. Both rows have equal length; each cell
// is a byte value in [0,255] or Gap.
type Result struct {
	Expected []int
	Actual   []int
}

// Align computes the minimum-edit-cost global alignment of expected against
// actual. Substitutions, insertions and deletions all cost 1. Ties are broken
// deterministically: substitution is preferred over deleting from expected,
// which is preferred over inserting from actual, so the same inputs always
// produce the same alignment.
func Align(expected, actual []byte) Result {
	n, m := len(expected), len(actual)

	// cost[i][j] is the edit cost of aligning expected[:i] with actual[:j].
	cost := make([][]int, n+1)
	for i := range cost {
		cost[i] = make([]int, m+1)
	}
	for i := 1; i <= n; i++ {
		cost[i][0] = i
	}
	for j := 1; j <= m; j++ {
		cost[0][j] = j
	}
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			sub := cost[i-1][j-1]
			if expected[i-1] != actual[j-1] {
				sub++
			}
			del := cost[i-1][j] + 1
			ins := cost[i][j-1] + 1
			cost[i][j] = min(sub, min(del, ins))
		}
	}

	// Trace back from the bottom-right corner, emitting columns in reverse.
	var exp, act []int
	i, j := n, m
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && matchesDiagonal(cost, expected, actual, i, j):
			exp = append(exp, int(expected[i-1]))
			act = append(act, int(actual[j-1]))
			i--
			j--
		case i > 0 && cost[i][j] == cost[i-1][j]+1:
			exp = append(exp, int(expected[i-1]))
			act = append(act, Gap)
			i--
		default:
			exp = append(exp, Gap)
			act = append(act, int(actual[j-1]))
			j--
		}
	}
	reverse(exp)
	reverse(act)

	return Result{Expected: exp, Actual: act}
}

func matchesDiagonal(cost [][]int, expected, actual []byte, i, j int) bool {
	sub := cost[i-1][j-1]
	if expected[i-1] != actual[j-1] {
		sub++
	}
	return cost[i][j] == sub
}

// Mask reports, column by column, whether the two rows differ. Gap columns
// always count as differing.
func (r Result) Mask() []bool {
	mask := make([]bool, len(r.Expected))
	for i := range r.Expected {
		mask[i] = r.Expected[i] != r.Actual[i] || r.Expected[i] == Gap
	}
	return mask
}

// Equal reports whether the alignment contains no differing columns.
func (r Result) Equal() bool {
	for _, d := range r.Mask() {
		if d {
			return false
		}
	}
	return true
}

// Render formats the alignment as three lines: the expected row, the actual
// row, and a marker line with a caret under every differing column. Gaps are
// drawn as '_' and non-printable bytes as '.', so columns stay one character
// wide and the caret positions line up.
func (r Result) Render() string {
	var exp, act, mark strings.Builder
	mask := r.Mask()
	for i := range r.Expected {
		exp.WriteByte(cell(r.Expected[i]))
		act.WriteByte(cell(r.Actual[i]))
		if mask[i] {
			mark.WriteByte('^')
		} else {
			mark.WriteByte(' ')
		}
	}
	return "expected: " + exp.String() + "\nactual:   " + act.String() + "\n          " + mark.String()
}

func cell(v int) byte {
	if v == Gap {
		return '_'
	}
	if v >= 0x20 && v < 0x7f {
		return byte(v)
	}
	return '.'
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
