// Package alignment scores how closely a respondent's quiz answers match the
// recorded positions of tracked public figures.
//
// Scoring is a pure function of its inputs: nothing here performs I/O or keeps
// state between calls, so a Scorer can be shared by any number of goroutines.
package alignment

// Scale is the ordinal range of permitted response values for a question.
type Scale struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Likert is the five level "Strongly Disagree".."Strongly Agree" scale.
var Likert = Scale{Min: 1, Max: 5}

// Valid reports whether the scale has at least two levels.
func (s Scale) Valid() bool {
	return s.Max > s.Min
}

// Width is the largest possible disagreement on a single question.
func (s Scale) Width() int {
	return s.Max - s.Min
}

// Levels returns the number of distinct values on the scale.
func (s Scale) Levels() int {
	return s.Max - s.Min + 1
}

// Contains reports whether v is a permitted value.
func (s Scale) Contains(v int) bool {
	return v >= s.Min && v <= s.Max
}

// Midpoint is the neutral answer used when a question is left unanswered.
// Even-width scales have an exact midpoint; otherwise the half is rounded
// away from zero (1..4 -> 3, -2..1 -> -1).
func (s Scale) Midpoint() int {
	return roundHalfAway(s.Min+s.Max, 2)
}

// Mirror returns the scale-inverted value of v (1..5: 1<->5, 2<->4, 3<->3).
func Mirror(s Scale, v int) int {
	return s.Min + s.Max - v
}

// Question is one quiz item.
type Question struct {
	ID       string `json:"id" yaml:"id"`
	Prompt   string `json:"prompt" yaml:"prompt"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Scale    Scale  `json:"scale" yaml:"scale"`
}

// Answer is a respondent's response to one question.
type Answer struct {
	QuestionID string `json:"questionId" yaml:"questionId"`
	Value      int    `json:"value" yaml:"value"`
}

// Position is a subject's recorded stance on one question.
type Position struct {
	QuestionID string `json:"questionId" yaml:"questionId"`
	Value      int    `json:"value" yaml:"value"`
}

// Subject is a tracked public figure with reference positions.
type Subject struct {
	ID        string     `json:"id" yaml:"id"`
	Name      string     `json:"name,omitempty" yaml:"name,omitempty"`
	Positions []Position `json:"positions" yaml:"positions"`
}

// Result is the alignment of the respondent with one subject.
type Result struct {
	SubjectID  string         `json:"subjectId"`
	Name       string         `json:"name,omitempty"`
	Percentage int            `json:"percentage"`
	Compared   int            `json:"compared"`
	Categories map[string]int `json:"categories,omitempty"`
}

// roundHalfAway divides num by den (den > 0) rounding halves away from zero.
func roundHalfAway(num, den int) int {
	if num >= 0 {
		return (2*num + den) / (2 * den)
	}
	return -((-2*num + den) / (2 * den))
}
