// Package servicetest provides in-memory stand-ins for the Mongo repositories
// and Redis caches the services depend on.
package servicetest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"govtrack/internal/cache"
	"govtrack/internal/model"
	"govtrack/internal/repository"
)

var (
	_ repository.QuizRepo           = (*QuizRepo)(nil)
	_ repository.StanceRepo         = (*StanceRepo)(nil)
	_ repository.RepresentativeRepo = (*RepresentativeRepo)(nil)
	_ repository.PolicyRepo         = (*PolicyRepo)(nil)
	_ repository.ResultRepo         = (*ResultRepo)(nil)
	_ repository.UserRepo           = (*UserRepo)(nil)
	_ cache.QuizCache               = (*QuizCache)(nil)
	_ cache.MatchCache              = (*MatchCache)(nil)
	_ cache.MatchStats              = (*MatchStats)(nil)
)

var idSeq struct {
	sync.Mutex
	n int
}

func nextID(prefix string) string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%s-%04d", prefix, idSeq.n)
}

// QuizRepo counts GetByID calls so cache hits can be observed
type QuizRepo struct {
	mu      sync.Mutex
	Quizzes map[string]model.Quiz
	Gets    int
}

func NewQuizRepo() *QuizRepo {
	return &QuizRepo{Quizzes: map[string]model.Quiz{}}
}

func (r *QuizRepo) Create(ctx context.Context, quiz *model.Quiz) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	quiz.ID = nextID("quiz")
	r.Quizzes[quiz.ID] = *quiz
	return quiz.ID, nil
}

func (r *QuizRepo) GetByID(ctx context.Context, id string) (*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Gets++
	q, ok := r.Quizzes[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (r *QuizRepo) List(ctx context.Context) ([]*model.Quiz, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Quiz{}
	for _, q := range r.Quizzes {
		q := q
		out = append(out, &q)
	}
	return out, nil
}

func (r *QuizRepo) Update(ctx context.Context, quiz *model.Quiz) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Quizzes[quiz.ID]; !ok {
		return repository.ErrNotFound
	}
	r.Quizzes[quiz.ID] = *quiz
	return nil
}

func (r *QuizRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Quizzes[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.Quizzes, id)
	return nil
}

// StanceRepo returns stances sorted like the Mongo implementation
type StanceRepo struct {
	mu      sync.Mutex
	Stances []model.Stance
	// FailKey makes Upsert fail for stances on this question key
	FailKey string
}

// ErrUpsertFailed is returned by StanceRepo.Upsert for FailKey
var ErrUpsertFailed = errors.New("servicetest: upsert failed")

func (r *StanceRepo) Upsert(ctx context.Context, stance *model.Stance) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailKey != "" && stance.QuestionKey == r.FailKey {
		return ErrUpsertFailed
	}
	for i, st := range r.Stances {
		if st.QuizID == stance.QuizID && st.RepresentativeID == stance.RepresentativeID && st.QuestionKey == stance.QuestionKey {
			r.Stances[i] = *stance
			return nil
		}
	}
	r.Stances = append(r.Stances, *stance)
	return nil
}

func (r *StanceRepo) filter(keep func(model.Stance) bool) []*model.Stance {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Stance{}
	for _, st := range r.Stances {
		if keep(st) {
			st := st
			out = append(out, &st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].RepresentativeID != out[j].RepresentativeID {
			return out[i].RepresentativeID < out[j].RepresentativeID
		}
		return out[i].QuestionKey < out[j].QuestionKey
	})
	return out
}

func (r *StanceRepo) GetByQuiz(ctx context.Context, quizID string) ([]*model.Stance, error) {
	return r.filter(func(st model.Stance) bool { return st.QuizID == quizID }), nil
}

func (r *StanceRepo) GetByRepresentative(ctx context.Context, repID string) ([]*model.Stance, error) {
	return r.filter(func(st model.Stance) bool { return st.RepresentativeID == repID }), nil
}

func (r *StanceRepo) remove(drop func(model.Stance) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.Stances[:0]
	for _, st := range r.Stances {
		if !drop(st) {
			kept = append(kept, st)
		}
	}
	r.Stances = kept
}

func (r *StanceRepo) DeleteByQuiz(ctx context.Context, quizID string) error {
	r.remove(func(st model.Stance) bool { return st.QuizID == quizID })
	return nil
}

func (r *StanceRepo) DeleteByRepresentative(ctx context.Context, quizID, repID string) error {
	r.remove(func(st model.Stance) bool {
		return st.RepresentativeID == repID && (quizID == "" || st.QuizID == quizID)
	})
	return nil
}

func (r *StanceRepo) DeleteExcept(ctx context.Context, quizID, repID string, keep []string) error {
	kept := make(map[string]struct{}, len(keep))
	for _, k := range keep {
		kept[k] = struct{}{}
	}
	r.remove(func(st model.Stance) bool {
		_, ok := kept[st.QuestionKey]
		return st.QuizID == quizID && st.RepresentativeID == repID && !ok
	})
	return nil
}

type RepresentativeRepo struct {
	mu   sync.Mutex
	Reps map[string]model.Representative
}

func NewRepresentativeRepo() *RepresentativeRepo {
	return &RepresentativeRepo{Reps: map[string]model.Representative{}}
}

func (r *RepresentativeRepo) Create(ctx context.Context, rep *model.Representative) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep.ID = nextID("rep")
	r.Reps[rep.ID] = *rep
	return rep.ID, nil
}

func (r *RepresentativeRepo) GetByID(ctx context.Context, id string) (*model.Representative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rep, ok := r.Reps[id]
	if !ok {
		return nil, nil
	}
	return &rep, nil
}

func (r *RepresentativeRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Representative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Representative{}
	for _, id := range ids {
		if rep, ok := r.Reps[id]; ok {
			rep := rep
			out = append(out, &rep)
		}
	}
	return out, nil
}

func (r *RepresentativeRepo) List(ctx context.Context, filter model.RepresentativeFilter) ([]*model.Representative, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Representative{}
	for _, rep := range r.Reps {
		if filter.Party != "" && rep.Party != filter.Party {
			continue
		}
		rep := rep
		out = append(out, &rep)
	}
	return out, nil
}

func (r *RepresentativeRepo) Update(ctx context.Context, rep *model.Representative) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Reps[rep.ID]; !ok {
		return repository.ErrNotFound
	}
	r.Reps[rep.ID] = *rep
	return nil
}

func (r *RepresentativeRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Reps[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.Reps, id)
	return nil
}

type PolicyRepo struct {
	mu       sync.Mutex
	Policies map[string]model.Policy
	LastList model.PolicyFilter
}

func NewPolicyRepo() *PolicyRepo {
	return &PolicyRepo{Policies: map[string]model.Policy{}}
}

func (r *PolicyRepo) Create(ctx context.Context, policy *model.Policy) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	policy.ID = nextID("policy")
	r.Policies[policy.ID] = *policy
	return policy.ID, nil
}

func (r *PolicyRepo) GetByID(ctx context.Context, id string) (*model.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.Policies[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PolicyRepo) GetByIDs(ctx context.Context, ids []string) ([]*model.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.Policy{}
	for _, id := range ids {
		if p, ok := r.Policies[id]; ok {
			p := p
			out = append(out, &p)
		}
	}
	return out, nil
}

func (r *PolicyRepo) List(ctx context.Context, filter model.PolicyFilter) ([]*model.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastList = filter
	out := []*model.Policy{}
	for _, p := range r.Policies {
		if filter.State != "" && !strings.EqualFold(p.Jurisdiction.State, filter.State) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *PolicyRepo) ListByLocation(ctx context.Context, state, city string, limit int64) ([]*model.Policy, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.LastList = model.PolicyFilter{State: state, City: city, Limit: limit}
	out := []*model.Policy{}
	for _, p := range r.Policies {
		if !strings.EqualFold(p.Jurisdiction.State, state) {
			continue
		}
		if city != "" && !strings.EqualFold(p.Jurisdiction.City, city) {
			continue
		}
		p := p
		out = append(out, &p)
	}
	return out, nil
}

func (r *PolicyRepo) Update(ctx context.Context, policy *model.Policy) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Policies[policy.ID]; !ok {
		return repository.ErrNotFound
	}
	r.Policies[policy.ID] = *policy
	return nil
}

func (r *PolicyRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Policies[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.Policies, id)
	return nil
}

func (r *PolicyRepo) GetVotesByRepresentative(ctx context.Context, repID string) ([]model.RepresentativeVote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	votes := []model.RepresentativeVote{}
	for _, p := range r.Policies {
		for _, v := range p.VotingRecord {
			if v.RepresentativeID == repID {
				votes = append(votes, model.RepresentativeVote{PolicyID: p.ID, PolicyTitle: p.Title, Status: p.Status, Vote: v.Vote, Date: v.Date})
			}
		}
	}
	return votes, nil
}

type ResultRepo struct {
	mu      sync.Mutex
	Results []model.QuizResult
}

func (r *ResultRepo) Create(ctx context.Context, result *model.QuizResult) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result.ID = nextID("result")
	r.Results = append(r.Results, *result)
	return result.ID, nil
}

func (r *ResultRepo) GetByID(ctx context.Context, id string) (*model.QuizResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, res := range r.Results {
		if res.ID == id {
			res := res
			return &res, nil
		}
	}
	return nil, nil
}

func (r *ResultRepo) GetByUserID(ctx context.Context, userID string, limit int64) ([]*model.QuizResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.QuizResult{}
	for i := len(r.Results) - 1; i >= 0; i-- {
		if r.Results[i].UserID != userID {
			continue
		}
		res := r.Results[i]
		out = append(out, &res)
		if limit > 0 && int64(len(out)) == limit {
			break
		}
	}
	return out, nil
}

type UserRepo struct {
	mu    sync.Mutex
	Users map[string]model.User
}

func NewUserRepo() *UserRepo {
	return &UserRepo{Users: map[string]model.User{}}
}

func (r *UserRepo) Create(ctx context.Context, user *model.User) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user.Email = strings.ToLower(user.Email)
	for _, u := range r.Users {
		if u.Email == user.Email {
			return "", repository.ErrEmailTaken
		}
	}
	user.ID = nextID("user")
	r.Users[user.ID] = *user
	return user.ID, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.Users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) List(ctx context.Context, limit int64) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.User{}
	for _, u := range r.Users {
		u := u
		out = append(out, &u)
	}
	return out, nil
}

func (r *UserRepo) Update(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.Users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.Users[user.ID] = *user
	return nil
}

func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.Users, id)
	return nil
}

func (r *UserRepo) AddSaved(ctx context.Context, userID string, kind model.SavedKind, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	list := u.SavedPolicies
	if kind == model.SavedRepresentative {
		list = u.SavedRepresentatives
	}
	for _, id := range list {
		if id == itemID {
			return nil
		}
	}
	list = append(list, itemID)
	if kind == model.SavedRepresentative {
		u.SavedRepresentatives = list
	} else {
		u.SavedPolicies = list
	}
	r.Users[userID] = u
	return nil
}

func (r *UserRepo) RemoveSaved(ctx context.Context, userID string, kind model.SavedKind, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.Users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	without := func(list []string) []string {
		out := []string{}
		for _, id := range list {
			if id != itemID {
				out = append(out, id)
			}
		}
		return out
	}
	if kind == model.SavedRepresentative {
		u.SavedRepresentatives = without(u.SavedRepresentatives)
	} else {
		u.SavedPolicies = without(u.SavedPolicies)
	}
	r.Users[userID] = u
	return nil
}

type QuizCache struct {
	mu      sync.Mutex
	Quizzes map[string]model.Quiz
}

func NewQuizCache() *QuizCache {
	return &QuizCache{Quizzes: map[string]model.Quiz{}}
}

func (c *QuizCache) Get(ctx context.Context, id string) (*model.Quiz, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	q, ok := c.Quizzes[id]
	if !ok {
		return nil, nil
	}
	return &q, nil
}

func (c *QuizCache) Set(ctx context.Context, quiz *model.Quiz) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Quizzes[quiz.ID] = *quiz
	return nil
}

func (c *QuizCache) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.Quizzes, id)
	return nil
}

type MatchCache struct {
	mu      sync.Mutex
	Entries map[string][]model.Alignment
}

func NewMatchCache() *MatchCache {
	return &MatchCache{Entries: map[string][]model.Alignment{}}
}

func (c *MatchCache) key(quizID string, responses []model.QuizResponse) string {
	return quizID + ":" + cache.Fingerprint(responses)
}

func (c *MatchCache) Get(ctx context.Context, quizID string, responses []model.QuizResponse) ([]model.Alignment, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Entries[c.key(quizID, responses)], nil
}

func (c *MatchCache) Set(ctx context.Context, quizID string, responses []model.QuizResponse, alignments []model.Alignment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Entries[c.key(quizID, responses)] = alignments
	return nil
}

func (c *MatchCache) Invalidate(ctx context.Context, quizID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.Entries {
		if strings.HasPrefix(k, quizID+":") {
			delete(c.Entries, k)
		}
	}
	return nil
}

type MatchStats struct {
	mu     sync.Mutex
	Counts map[string]map[string]int
}

func NewMatchStats() *MatchStats {
	return &MatchStats{Counts: map[string]map[string]int{}}
}

func (s *MatchStats) Increment(ctx context.Context, quizID, repID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Counts[quizID] == nil {
		s.Counts[quizID] = map[string]int{}
	}
	s.Counts[quizID][repID]++
	return nil
}

func (s *MatchStats) Top(ctx context.Context, quizID string, limit int) ([]cache.MatchEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := []cache.MatchEntry{}
	for id, n := range s.Counts[quizID] {
		entries = append(entries, cache.MatchEntry{RepresentativeID: id, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].RepresentativeID > entries[j].RepresentativeID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}

func (s *MatchStats) Remove(ctx context.Context, quizID, repID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Counts[quizID], repID)
	return nil
}

func (s *MatchStats) Reset(ctx context.Context, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Counts, quizID)
	return nil
}

// Broadcast is one message handed to the Broadcaster
type Broadcast struct {
	QuizID  string
	MsgType string
	Payload interface{}
}

// Broadcaster records every message it is handed
type Broadcaster struct {
	mu   sync.Mutex
	Sent []Broadcast
}

func (b *Broadcaster) BroadcastToQuiz(quizID, msgType string, payload interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Sent = append(b.Sent, Broadcast{QuizID: quizID, MsgType: msgType, Payload: payload})
}
