package model

import "time"

// QuizOption is a labelled point on a question's scale.
type QuizOption struct {
	Value int    `json:"value" bson:"value" yaml:"value"`
	Label string `json:"label" bson:"label" yaml:"label"`
}

// QuizQuestion is a Likert-style item in a political quiz
type QuizQuestion struct {
	Key         string       `json:"key" bson:"key" yaml:"key"` // e.g., "q1", stable across quiz versions
	Text        string       `json:"text" bson:"text" yaml:"text"`
	Category    string       `json:"category,omitempty" bson:"category,omitempty" yaml:"category,omitempty"` // "economic", "social", ...
	Description string       `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
	ScaleMin    int          `json:"scaleMin" bson:"scaleMin" yaml:"scaleMin"`
	ScaleMax    int          `json:"scaleMax" bson:"scaleMax" yaml:"scaleMax"`
	Options     []QuizOption `json:"options,omitempty" bson:"options,omitempty" yaml:"options,omitempty"`
}

// Quiz is a set of questions respondents answer to find their closest representatives
type Quiz struct {
	ID          string         `json:"id" bson:"_id,omitempty"`
	Title       string         `json:"title" bson:"title"`
	Description string         `json:"description" bson:"description"`
	Version     string         `json:"version" bson:"version"`
	Categories  []string       `json:"categories,omitempty" bson:"categories,omitempty"`
	Questions   []QuizQuestion `json:"questions" bson:"questions"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// Question looks up a question by key.
func (q *Quiz) Question(key string) (QuizQuestion, bool) {
	for _, qq := range q.Questions {
		if qq.Key == key {
			return qq, true
		}
	}
	return QuizQuestion{}, false
}

// Stance is a representative's recorded position on one quiz question
type Stance struct {
	ID               string    `json:"id,omitempty" bson:"_id,omitempty"`
	QuizID           string    `json:"quizId" bson:"quizId"`
	RepresentativeID string    `json:"representativeId" bson:"representativeId"`
	QuestionKey      string    `json:"questionKey" bson:"questionKey"`
	Value            int       `json:"value" bson:"value"`
	Source           string    `json:"source,omitempty" bson:"source,omitempty"`
	Comments         string    `json:"comments,omitempty" bson:"comments,omitempty"`
	UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
}

// QuizResponse is a respondent's answer to one question
type QuizResponse struct {
	QuestionKey string `json:"questionKey" bson:"questionKey"`
	Value       int    `json:"value" bson:"value"`
}

// Alignment is how closely a respondent matches one representative
type Alignment struct {
	RepresentativeID string         `json:"representativeId" bson:"representativeId"`
	Name             string         `json:"name" bson:"name"`
	Party            string         `json:"party,omitempty" bson:"party,omitempty"`
	Title            string         `json:"title,omitempty" bson:"title,omitempty"`
	Percentage       int            `json:"percentage" bson:"percentage"` // 0-100
	Compared         int            `json:"compared" bson:"compared"`
	Categories       map[string]int `json:"categories,omitempty" bson:"categories,omitempty"`
}

// QuizResult is a scored quiz submission; persisted only for signed-in users
type QuizResult struct {
	ID         string         `json:"id,omitempty" bson:"_id,omitempty"`
	UserID     string         `json:"userId,omitempty" bson:"userId,omitempty"`
	QuizID     string         `json:"quizId" bson:"quizId"`
	Responses  []QuizResponse `json:"responses" bson:"responses"`
	Alignments []Alignment    `json:"alignments" bson:"alignments"`
	Cached     bool           `json:"cached,omitempty" bson:"-"`
	TakenAt    time.Time      `json:"takenAt" bson:"takenAt"`
}

// TopMatch is the best aligned representative, if any
func (r *QuizResult) TopMatch() *Alignment {
	if len(r.Alignments) == 0 {
		return nil
	}
	return &r.Alignments[0]
}

// SubmitQuizRequest is the request body for scoring a quiz
type SubmitQuizRequest struct {
	Responses []QuizResponse `json:"responses"`
}

// SetStancesRequest replaces a representative's stances on a quiz
type SetStancesRequest struct {
	Stances []Stance `json:"stances"`
}

// MatchCount is one row of the "most common top match" board
type MatchCount struct {
	RepresentativeID string `json:"representativeId"`
	Name             string `json:"name,omitempty"`
	Count            int    `json:"count"`
	Rank             int    `json:"rank"`
}
