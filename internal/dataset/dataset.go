// Package dataset reads quiz definitions and representative stances from YAML.
package dataset

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"govtrack/internal/alignment"
	"govtrack/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed sample.yaml
var sampleYAML []byte

// Dataset is one quiz with the reference positions of the figures it is
// scored against.
type Dataset struct {
	Quiz     QuizSpec      `yaml:"quiz"`
	Subjects []SubjectSpec `yaml:"subjects"`
}

type QuizSpec struct {
	Title       string         `yaml:"title"`
	Description string         `yaml:"description"`
	Version     string         `yaml:"version"`
	Categories  []string       `yaml:"categories"`
	Scale       ScaleSpec      `yaml:"scale"`
	Questions   []QuestionSpec `yaml:"questions"`
}

type ScaleSpec struct {
	Min    int      `yaml:"min"`
	Max    int      `yaml:"max"`
	Labels []string `yaml:"labels"`
}

// QuestionSpec may override the quiz-wide scale.
type QuestionSpec struct {
	Key         string     `yaml:"key"`
	Text        string     `yaml:"text"`
	Category    string     `yaml:"category"`
	Description string     `yaml:"description"`
	Scale       *ScaleSpec `yaml:"scale"`
}

type SubjectSpec struct {
	ID       string         `yaml:"id"`
	Name     string         `yaml:"name"`
	Party    string         `yaml:"party"`
	Title    string         `yaml:"title"`
	State    string         `yaml:"state"`
	District string         `yaml:"district"`
	Level    string         `yaml:"level"`
	Stances  map[string]int `yaml:"stances"`
}

// Load reads and validates a dataset file
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML dataset
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Sample returns the built-in ten-question quiz and its five figures
func Sample() *Dataset {
	ds, err := Parse(sampleYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded sample dataset: %v", err))
	}
	return ds
}

func (q QuestionSpec) scale(def ScaleSpec) ScaleSpec {
	if q.Scale != nil {
		return *q.Scale
	}
	return def
}

// Validate rejects datasets the scorer could not use
func (ds *Dataset) Validate() error {
	if ds.Quiz.Title == "" {
		return fmt.Errorf("dataset: quiz title is required")
	}
	if len(ds.Quiz.Questions) == 0 {
		return fmt.Errorf("dataset: quiz has no questions")
	}
	for _, q := range ds.Quiz.Questions {
		s := q.scale(ds.Quiz.Scale)
		if n := len(s.Labels); n > 0 && n != s.Max-s.Min+1 {
			return fmt.Errorf("dataset: question %q has %d labels for a %d..%d scale", q.Key, n, s.Min, s.Max)
		}
	}

	questions := ds.Questions()
	if err := alignment.ValidateQuestions(questions); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}

	seen := make(map[string]struct{}, len(ds.Subjects))
	for _, s := range ds.Subjects {
		if s.ID == "" {
			return fmt.Errorf("dataset: subject %q has no id", s.Name)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("dataset: duplicate subject id %q", s.ID)
		}
		seen[s.ID] = struct{}{}
	}

	if err := alignment.ValidateSubjects(questions, ds.subjects(true)); err != nil {
		return fmt.Errorf("dataset: %w", err)
	}
	return nil
}

// Questions converts the quiz to scorer input
func (ds *Dataset) Questions() []alignment.Question {
	out := make([]alignment.Question, len(ds.Quiz.Questions))
	for i, q := range ds.Quiz.Questions {
		s := q.scale(ds.Quiz.Scale)
		out[i] = alignment.Question{
			ID:       q.Key,
			Prompt:   q.Text,
			Category: q.Category,
			Scale:    alignment.Scale{Min: s.Min, Max: s.Max},
		}
	}
	return out
}

// AlignmentSubjects converts the figures to scorer input, positions in question order
func (ds *Dataset) AlignmentSubjects() []alignment.Subject {
	return ds.subjects(false)
}

// subjects optionally keeps stances on keys the quiz does not have so that
// validation can report them.
func (ds *Dataset) subjects(withUnknown bool) []alignment.Subject {
	out := make([]alignment.Subject, len(ds.Subjects))
	for i, s := range ds.Subjects {
		subj := alignment.Subject{ID: s.ID, Name: s.Name}
		known := make(map[string]struct{}, len(ds.Quiz.Questions))
		for _, q := range ds.Quiz.Questions {
			known[q.Key] = struct{}{}
			if v, ok := s.Stances[q.Key]; ok {
				subj.Positions = append(subj.Positions, alignment.Position{QuestionID: q.Key, Value: v})
			}
		}
		if withUnknown {
			var extra []string
			for key := range s.Stances {
				if _, ok := known[key]; !ok {
					extra = append(extra, key)
				}
			}
			sort.Strings(extra)
			for _, key := range extra {
				subj.Positions = append(subj.Positions, alignment.Position{QuestionID: key, Value: s.Stances[key]})
			}
		}
		out[i] = subj
	}
	return out
}

// AnswersFromValues pairs values with questions in quiz order; a value of 0
// on a scale that does not contain 0 means "skipped".
func (ds *Dataset) AnswersFromValues(values []int) ([]alignment.Answer, error) {
	questions := ds.Questions()
	if len(values) > len(questions) {
		return nil, fmt.Errorf("got %d answers for %d questions", len(values), len(questions))
	}
	answers := make([]alignment.Answer, 0, len(values))
	for i, v := range values {
		if v == 0 && !questions[i].Scale.Contains(0) {
			continue
		}
		answers = append(answers, alignment.Answer{QuestionID: questions[i].ID, Value: v})
	}
	return answers, nil
}

// ModelQuiz builds the stored quiz document
func (ds *Dataset) ModelQuiz() *model.Quiz {
	quiz := &model.Quiz{
		Title:       ds.Quiz.Title,
		Description: ds.Quiz.Description,
		Version:     ds.Quiz.Version,
		Categories:  ds.Quiz.Categories,
	}
	for _, q := range ds.Quiz.Questions {
		s := q.scale(ds.Quiz.Scale)
		qq := model.QuizQuestion{
			Key:         q.Key,
			Text:        q.Text,
			Category:    q.Category,
			Description: q.Description,
			ScaleMin:    s.Min,
			ScaleMax:    s.Max,
		}
		for i, label := range s.Labels {
			qq.Options = append(qq.Options, model.QuizOption{Value: s.Min + i, Label: label})
		}
		quiz.Questions = append(quiz.Questions, qq)
	}
	return quiz
}

// ModelRepresentative builds the stored representative document for s
func (s SubjectSpec) ModelRepresentative() *model.Representative {
	return &model.Representative{
		Name:     s.Name,
		Title:    s.Title,
		Party:    s.Party,
		State:    s.State,
		District: s.District,
		Level:    s.Level,
	}
}
