package match

import (
	"cmp"
	"slices"
)

// DefaultThreshold is the minimum similarity for a name to be suggested.
const DefaultThreshold = 0.55

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name  string
	Score float64
}

// CandidateList is sorted by score descending, then by name.
type CandidateList []Candidate

// Rank scores every known name against target.
func Rank(target string, names []string) CandidateList {
	out := make(CandidateList, 0, len(names))

	for _, n := range names {
		out = append(out, Candidate{Name: n, Score: NameSimilarity(target, n)})
	}

	slices.SortStableFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

// AboveThreshold returns candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var out CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			out = append(out, cand)
		}
	}

	return out
}

// Top returns at most n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Names returns the candidate names.
func (c CandidateList) Names() []string {
	out := make([]string, 0, len(c))
	for _, cand := range c {
		out = append(out, cand.Name)
	}

	return out
}

// Suggest returns up to n known names that resemble target.
func Suggest(target string, names []string, n int) []string {
	return Rank(target, names).AboveThreshold(DefaultThreshold).Top(n).Names()
}
