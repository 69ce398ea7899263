package voting

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voting-api/internal/database"
	"voting-api/internal/database/repositories"
)

// memoryStore implements every port over maps, mirroring the SQL
// repositories' error contract.
type memoryStore struct {
	mu         sync.Mutex
	users      map[string]*database.User
	candidates map[string]*database.Candidate
	castCalls  int
	failTally  bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		users:      map[string]*database.User{},
		candidates: map[string]*database.Candidate{},
	}
}

func (m *memoryStore) userSnapshot(id string) *database.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := *m.users[id]
	return &u
}

type userStore struct{ *memoryStore }

func (s userStore) GetByID(_ context.Context, id string) (*database.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

type candidateStore struct{ *memoryStore }

func (s candidateStore) Create(_ context.Context, c *database.Candidate) error {
	if err := repositories.ValidateCandidate(c); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.candidates[c.ID] = &cp
	return nil
}

func (s candidateStore) GetByID(_ context.Context, id string) (*database.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, repositories.ErrCandidateNotFound
	}
	cp := *c
	cp.Votes = append([]database.Vote{}, c.Votes...)
	return &cp, nil
}

func (s candidateStore) List(_ context.Context) ([]database.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]database.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s candidateStore) Update(_ context.Context, id string, patch database.CandidatePatch) (*database.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, repositories.ErrCandidateNotFound
	}
	merged := *c
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Party != nil {
		merged.Party = *patch.Party
	}
	if patch.Age != nil {
		merged.Age = *patch.Age
	}
	if err := repositories.ValidateCandidate(&merged); err != nil {
		return nil, err
	}
	*c = merged
	cp := merged
	return &cp, nil
}

func (s candidateStore) Delete(_ context.Context, id string) (*database.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.candidates[id]
	if !ok {
		return nil, repositories.ErrCandidateNotFound
	}
	delete(s.candidates, id)
	return c, nil
}

type ballotBox struct{ *memoryStore }

func (b ballotBox) CastVote(_ context.Context, vote *database.Vote) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.castCalls++
	u, ok := b.users[vote.UserID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if u.HasVoted {
		return repositories.ErrAlreadyVoted
	}
	if u.IsAdmin() {
		return repositories.ErrNotEligible
	}
	c, ok := b.candidates[vote.CandidateID]
	if !ok {
		return repositories.ErrCandidateNotFound
	}
	u.HasVoted = true
	c.VoteCount++
	c.Votes = append(c.Votes, *vote)
	return nil
}

func (b ballotBox) Tally(_ context.Context) ([]database.TallyEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failTally {
		return nil, errors.New("store unavailable")
	}
	out := []database.TallyEntry{}
	for _, c := range b.candidates {
		out = append(out, database.TallyEntry{CandidateID: c.ID, Name: c.Name, Party: c.Party, Count: c.VoteCount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Party < out[j].Party
	})
	return out, nil
}

type recordingPublisher struct {
	mu      sync.Mutex
	tallies [][]database.TallyEntry
}

func (p *recordingPublisher) PublishTally(t []database.TallyEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tallies = append(p.tallies, t)
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tallies)
}

func newTestService(t *testing.T) (*Service, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	store.users["voter"] = &database.User{ID: "voter", Role: database.RoleVoter}
	store.users["voter2"] = &database.User{ID: "voter2", Role: database.RoleVoter}
	store.users["admin"] = &database.User{ID: "admin", Role: database.RoleAdmin}
	store.candidates["c1"] = &database.Candidate{ID: "c1", Name: "Asha", Party: "Green", Age: 40}
	store.candidates["c2"] = &database.Candidate{ID: "c2", Name: "Bo", Party: "Amber", Age: 50}

	isAdmin := func(_ context.Context, id string) bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		u, ok := store.users[id]
		return ok && u.IsAdmin()
	}
	svc := NewService(userStore{store}, candidateStore{store}, ballotBox{store}, isAdmin, nil)
	return svc, store
}

func TestCastVoteSuccess(t *testing.T) {
	svc, store := newTestService(t)
	pub := &recordingPublisher{}
	svc.SetPublisher(pub)

	vote, err := svc.CastVote(context.Background(), "c1", "voter")
	require.NoError(t, err)
	assert.Equal(t, "voter", vote.UserID)
	assert.True(t, VerifyReceipt(vote))

	c := store.candidates["c1"]
	assert.Equal(t, 1, c.VoteCount)
	assert.Len(t, c.Votes, 1)
	assert.True(t, store.userSnapshot("voter").HasVoted)
	assert.Equal(t, 1, pub.count())
}

func TestCastVoteShortCircuitsBeforeWriting(t *testing.T) {
	tests := []struct {
		name        string
		candidateID string
		userID      string
		prepare     func(*memoryStore)
		want        error
	}{
		{name: "missing candidate", candidateID: "nope", userID: "voter", want: ErrCandidateNotFound},
		{name: "missing user", candidateID: "c1", userID: "ghost", want: ErrUserNotFound},
		{
			name:        "already voted",
			candidateID: "c1",
			userID:      "voter",
			prepare:     func(m *memoryStore) { m.users["voter"].HasVoted = true },
			want:        ErrAlreadyVoted,
		},
		{name: "admin", candidateID: "c1", userID: "admin", want: ErrAdminCannotVote},
		{
			// candidate lookup runs first even when the user also fails
			name:        "candidate checked before user",
			candidateID: "nope",
			userID:      "ghost",
			want:        ErrCandidateNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(t)
			if tt.prepare != nil {
				tt.prepare(store)
			}

			_, err := svc.CastVote(context.Background(), tt.candidateID, tt.userID)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, store.castCalls)
			for _, c := range store.candidates {
				assert.Zero(t, c.VoteCount)
				assert.Empty(t, c.Votes)
			}
		})
	}
}

func TestCastVoteAdminLeavesFlagsUntouched(t *testing.T) {
	svc, store := newTestService(t)

	_, err := svc.CastVote(context.Background(), "c1", "admin")
	assert.ErrorIs(t, err, ErrAdminCannotVote)
	for _, u := range store.users {
		assert.False(t, u.HasVoted)
	}
}

func TestCastVoteSecondAttemptRejected(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, "c1", "voter")
	require.NoError(t, err)

	_, err = svc.CastVote(ctx, "c2", "voter")
	assert.ErrorIs(t, err, ErrAlreadyVoted)
	assert.Equal(t, 1, store.candidates["c1"].VoteCount)
	assert.Zero(t, store.candidates["c2"].VoteCount)
}

func TestCastVoteConcurrentAttemptsCountOnce(t *testing.T) {
	svc, store := newTestService(t)

	const attempts = 10
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CastVote(context.Background(), "c1", "voter"); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			} else {
				assert.ErrorIs(t, err, ErrAlreadyVoted)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, store.candidates["c1"].VoteCount)
	assert.Len(t, store.candidates["c1"].Votes, 1)
}

func TestCandidateAdministrationRequiresAdmin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	name := "Renamed"

	_, err := svc.CreateCandidate(ctx, "voter", CandidateInput{Name: "New", Party: "Blue", Age: 33})
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Len(t, store.candidates, 2)

	_, err = svc.UpdateCandidate(ctx, "voter", "c1", database.CandidatePatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Equal(t, "Asha", store.candidates["c1"].Name)

	_, err = svc.DeleteCandidate(ctx, "ghost", "c1")
	assert.ErrorIs(t, err, ErrNotAdmin)
	assert.Contains(t, store.candidates, "c1")

	// authorization is checked before existence
	_, err = svc.DeleteCandidate(ctx, "voter", "nope")
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestCandidateAdministrationAsAdmin(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	pub := &recordingPublisher{}
	svc.SetPublisher(pub)

	created, err := svc.CreateCandidate(ctx, "admin", CandidateInput{Name: " Cy ", Party: "Red", Age: 61})
	require.NoError(t, err)
	assert.Equal(t, "Cy", created.Name)
	assert.Zero(t, created.VoteCount)
	assert.Empty(t, created.Votes)
	assert.Contains(t, store.candidates, created.ID)

	party := "  Violet "
	updated, err := svc.UpdateCandidate(ctx, "admin", created.ID, database.CandidatePatch{Party: &party})
	require.NoError(t, err)
	assert.Equal(t, "Violet", updated.Party)
	assert.Equal(t, "Cy", updated.Name)
	assert.Equal(t, "  Violet ", party)

	_, err = svc.UpdateCandidate(ctx, "admin", "nope", database.CandidatePatch{Party: &party})
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	removed, err := svc.DeleteCandidate(ctx, "admin", created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, removed.ID)
	assert.NotContains(t, store.candidates, created.ID)

	_, err = svc.DeleteCandidate(ctx, "admin", created.ID)
	assert.ErrorIs(t, err, ErrCandidateNotFound)

	assert.Equal(t, 3, pub.count())
}

func TestCreateCandidateValidation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.CreateCandidate(context.Background(), "admin", CandidateInput{Name: "", Party: "Red", Age: 40})
	assert.ErrorIs(t, err, ErrInvalidCandidate)

	_, err = svc.CreateCandidate(context.Background(), "admin", CandidateInput{Name: "X", Party: "Red", Age: -1})
	assert.ErrorIs(t, err, ErrInvalidCandidate)

	_, err = svc.CreateCandidate(context.Background(), "admin", CandidateInput{Name: strings.Repeat("n", 101), Party: "Red", Age: 40})
	assert.ErrorIs(t, err, ErrInvalidCandidate)
}

func TestNilPredicateDeniesEverything(t *testing.T) {
	store := newMemoryStore()
	store.users["admin"] = &database.User{ID: "admin", Role: database.RoleAdmin}
	svc := NewService(userStore{store}, candidateStore{store}, ballotBox{store}, nil, nil)

	_, err := svc.CreateCandidate(context.Background(), "admin", CandidateInput{Name: "A", Party: "B", Age: 30})
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestTallyOrderAndFailure(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CastVote(ctx, "c1", "voter")
	require.NoError(t, err)

	tally, err := svc.Tally(ctx)
	require.NoError(t, err)
	require.Len(t, tally, 2)
	assert.Equal(t, "Green", tally[0].Party)
	assert.Equal(t, 1, tally[0].Count)
	assert.Equal(t, "Amber", tally[1].Party)

	store.failTally = true
	_, err = svc.Tally(ctx)
	assert.Error(t, err)
}

func TestReceiptDetectsTampering(t *testing.T) {
	vote := &database.Vote{ID: "v1", UserID: "u1", CandidateID: "c1", VotedAt: time.Unix(1700000000, 0)}
	vote.Receipt = NewReceipt(vote)

	assert.True(t, VerifyReceipt(vote))
	assert.Len(t, vote.Receipt, 66)

	vote.CandidateID = "c2"
	assert.False(t, VerifyReceipt(vote))

	assert.False(t, VerifyReceipt(&database.Vote{ID: "v1"}))
}
