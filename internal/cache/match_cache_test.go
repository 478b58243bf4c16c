package cache

import (
	"testing"

	"govtrack/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestFingerprint_OrderIndependent(t *testing.T) {
	a := []model.QuizResponse{{QuestionKey: "q1", Value: 4}, {QuestionKey: "q2", Value: 2}}
	b := []model.QuizResponse{{QuestionKey: "q2", Value: 2}, {QuestionKey: "q1", Value: 4}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.Len(t, Fingerprint(a), 32)
}

func TestFingerprint_DistinguishesAnswers(t *testing.T) {
	a := []model.QuizResponse{{QuestionKey: "q1", Value: 4}}
	b := []model.QuizResponse{{QuestionKey: "q1", Value: 5}}
	c := []model.QuizResponse{{QuestionKey: "q1", Value: 4}, {QuestionKey: "q2", Value: 3}}

	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.NotEqual(t, Fingerprint(nil), Fingerprint(a))
}

func TestFingerprint_KeysCannotSpliceAnswers(t *testing.T) {
	real := []model.QuizResponse{{QuestionKey: "q1", Value: 4}, {QuestionKey: "q2", Value: 3}}
	spliced := []model.QuizResponse{{QuestionKey: "q1=4;q2", Value: 3}}

	assert.NotEqual(t, Fingerprint(real), Fingerprint(spliced))
}

func TestFingerprint_DoesNotMutateInput(t *testing.T) {
	in := []model.QuizResponse{{QuestionKey: "q9", Value: 1}, {QuestionKey: "q1", Value: 5}}
	Fingerprint(in)
	assert.Equal(t, "q9", in[0].QuestionKey)
}
