package matching

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jonathan/job-matcher/internal/llm"
	"github.com/jonathan/job-matcher/internal/types"
)

type memStore struct {
	mu        sync.Mutex
	students  map[uuid.UUID]*types.Student
	jobs      []types.Job
	cvs       map[uuid.UUID]*types.CV
	matches   map[uuid.UUID]*types.JobMatch
	failSave  map[uuid.UUID]bool // job ids whose save fails
	lostRace  map[uuid.UUID]bool // job ids another run created first
	saveCalls int
}

func newMemStore() *memStore {
	return &memStore{
		students: make(map[uuid.UUID]*types.Student),
		cvs:      make(map[uuid.UUID]*types.CV),
		matches:  make(map[uuid.UUID]*types.JobMatch),
		failSave: make(map[uuid.UUID]bool),
		lostRace: make(map[uuid.UUID]bool),
	}
}

func (s *memStore) addStudent(st *types.Student) *types.Student {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	s.students[st.ID] = st
	return st
}

func (s *memStore) addJob(title, skills string) types.Job {
	j := types.Job{ID: uuid.New(), Title: title, RequiredSkills: skills, Active: true}
	s.jobs = append(s.jobs, j)
	return j
}

func (s *memStore) GetStudent(_ context.Context, id uuid.UUID) (*types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.students[id], nil
}

func (s *memStore) ListStudentIDs(context.Context) ([]uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(s.students))
	for id := range s.students {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids, nil
}

func (s *memStore) ListActiveJobs(context.Context) ([]types.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.Job
	for _, j := range s.jobs {
		if j.Active {
			out = append(out, j)
		}
	}
	return out, nil
}

func (s *memStore) ListMatchesForStudent(_ context.Context, studentID uuid.UUID) ([]types.JobMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []types.JobMatch
	for _, m := range s.matches {
		if m.StudentID == studentID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (s *memStore) CreateMatchIfAbsent(_ context.Context, m *types.JobMatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveCalls++
	if s.failSave[m.JobID] {
		return false, errors.New("connection reset")
	}
	if s.lostRace[m.JobID] {
		return false, nil
	}
	for _, existing := range s.matches {
		if existing.StudentID == m.StudentID && existing.JobID == m.JobID {
			return false, nil
		}
	}
	stored := *m
	s.matches[m.ID] = &stored
	return true, nil
}

func (s *memStore) GetMatch(_ context.Context, id uuid.UUID) (*types.JobMatch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	out := *m
	return &out, nil
}

func (s *memStore) MarkMatchViewed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.matches[id]; ok {
		m.Viewed = true
	}
	return nil
}

func (s *memStore) GetCV(_ context.Context, id uuid.UUID) (*types.CV, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cvs[id], nil
}

type fakeClient struct {
	mu      sync.Mutex
	respond func(prompt string) (string, error)
	prompts []string
	tiers   []llm.ModelTier
}

func (f *fakeClient) Complete(_ context.Context, prompt string, tier llm.ModelTier) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeClient) Provider() llm.Provider        { return llm.ProviderGemini }
func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                  { return nil }

// panicAnalyzer wraps an analyzer and panics for one job title.
type panicAnalyzer struct {
	next    EvidenceAnalyzer
	onTitle string
}

func (p panicAnalyzer) Analyze(ctx context.Context, sp *types.StudentSkillProfile, j *types.JobRequirement) []types.FacetAnalysis {
	if j.Title == p.onTitle {
		panic("analyzer exploded")
	}
	return p.next.Analyze(ctx, sp, j)
}
