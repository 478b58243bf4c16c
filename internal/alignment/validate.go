package alignment

// ValidateQuestions checks that question IDs are unique and non-empty and that
// every scale has at least two levels.
func ValidateQuestions(questions []Question) error {
	seen := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		if q.ID == "" {
			return &InvalidQuestionError{Reason: "empty id"}
		}
		if _, dup := seen[q.ID]; dup {
			return &InvalidQuestionError{QuestionID: q.ID, Reason: "duplicate id"}
		}
		if !q.Scale.Valid() {
			return &InvalidQuestionError{QuestionID: q.ID, Reason: "scale max must exceed min"}
		}
		seen[q.ID] = struct{}{}
	}
	return nil
}

// ValidateSubjects checks reference positions against the question set.
// Out-of-range values are reported, never clamped.
func ValidateSubjects(questions []Question, subjects []Subject) error {
	scales := make(map[string]Scale, len(questions))
	for _, q := range questions {
		scales[q.ID] = q.Scale
	}

	for _, subj := range subjects {
		seen := make(map[string]struct{}, len(subj.Positions))
		for _, p := range subj.Positions {
			scale, ok := scales[p.QuestionID]
			if !ok {
				return &InvalidPositionError{SubjectID: subj.ID, QuestionID: p.QuestionID, Value: p.Value, Reason: "unknown question"}
			}
			if _, dup := seen[p.QuestionID]; dup {
				return &InvalidPositionError{SubjectID: subj.ID, QuestionID: p.QuestionID, Value: p.Value, Reason: "duplicate position"}
			}
			if !scale.Contains(p.Value) {
				return &InvalidPositionError{SubjectID: subj.ID, QuestionID: p.QuestionID, Value: p.Value, Reason: "value outside scale"}
			}
			seen[p.QuestionID] = struct{}{}
		}
	}
	return nil
}

// ValidateAnswers runs the answer checks Score performs before any scoring:
// known question, at most one answer per question, value inside the scale.
func ValidateAnswers(answers []Answer, questions []Question) error {
	_, err := effectiveAnswers(answers, questions)
	return err
}
