package alignment

import "sort"

// Option configures a Scorer.
type Option func(*Scorer)

// WithSkipInsufficient drops subjects that share no question with the quiz
// instead of failing the whole call.
func WithSkipInsufficient() Option {
	return func(s *Scorer) { s.skipInsufficient = true }
}

// WithCategories fills Result.Categories with a percentage per question
// category.
func WithCategories() Option {
	return func(s *Scorer) { s.categories = true }
}

// Scorer ranks subjects by agreement with a respondent.
type Scorer struct {
	skipInsufficient bool
	categories       bool
}

// NewScorer creates a scorer. The zero options fail on insufficient data and
// skip category breakdowns.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score ranks subjects with the default options.
func Score(answers []Answer, questions []Question, subjects []Subject) ([]Result, error) {
	return NewScorer().Score(answers, questions, subjects)
}

type tally struct {
	total int
	max   int
}

func (t tally) percentage() int {
	return roundHalfAway(100*(t.max-t.total), t.max)
}

// Score computes one Result per subject, ordered from closest to least aligned.
// Unanswered questions count as the scale midpoint. A question the subject has
// no position on is left out of that subject's comparison.
func (s *Scorer) Score(answers []Answer, questions []Question, subjects []Subject) ([]Result, error) {
	if err := ValidateQuestions(questions); err != nil {
		return nil, err
	}
	effective, err := effectiveAnswers(answers, questions)
	if err != nil {
		return nil, err
	}
	if err := ValidateSubjects(questions, subjects); err != nil {
		return nil, err
	}

	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	results := make([]Result, 0, len(subjects))
	for _, subj := range subjects {
		var overall tally
		var cats map[string]tally
		if s.categories {
			cats = make(map[string]tally)
		}

		for _, p := range subj.Positions {
			q := byID[p.QuestionID]
			diff := effective[p.QuestionID] - p.Value
			if diff < 0 {
				diff = -diff
			}
			overall.total += diff
			overall.max += q.Scale.Width()

			if cats != nil && q.Category != "" {
				c := cats[q.Category]
				c.total += diff
				c.max += q.Scale.Width()
				cats[q.Category] = c
			}
		}

		if overall.max == 0 {
			if s.skipInsufficient {
				continue
			}
			return nil, &InsufficientDataError{SubjectID: subj.ID}
		}

		res := Result{
			SubjectID:  subj.ID,
			Name:       subj.Name,
			Percentage: overall.percentage(),
			Compared:   len(subj.Positions),
		}
		if len(cats) > 0 {
			res.Categories = make(map[string]int, len(cats))
			for name, c := range cats {
				res.Categories[name] = c.percentage()
			}
		}
		results = append(results, res)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Percentage > results[j].Percentage
	})
	return results, nil
}

// effectiveAnswers validates answers and fills every question with either the
// given value or the scale midpoint.
func effectiveAnswers(answers []Answer, questions []Question) (map[string]int, error) {
	scales := make(map[string]Scale, len(questions))
	for _, q := range questions {
		scales[q.ID] = q.Scale
	}

	given := make(map[string]int, len(answers))
	for _, a := range answers {
		scale, ok := scales[a.QuestionID]
		if !ok {
			return nil, &InvalidAnswerError{QuestionID: a.QuestionID, Value: a.Value, Reason: "unknown question"}
		}
		if _, dup := given[a.QuestionID]; dup {
			return nil, &InvalidAnswerError{QuestionID: a.QuestionID, Value: a.Value, Reason: "duplicate answer"}
		}
		if !scale.Contains(a.Value) {
			return nil, &InvalidAnswerError{QuestionID: a.QuestionID, Value: a.Value, Reason: "value outside scale"}
		}
		given[a.QuestionID] = a.Value
	}

	effective := make(map[string]int, len(questions))
	for _, q := range questions {
		if v, ok := given[q.ID]; ok {
			effective[q.ID] = v
		} else {
			effective[q.ID] = q.Scale.Midpoint()
		}
	}
	return effective, nil
}
