package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"skillswap/internal/cache"
	"skillswap/internal/model"
	"skillswap/internal/repository"
	"skillswap/internal/testutil"
)

// testEnv wires every service over an in-memory database and miniredis.
type testEnv struct {
	db       *gorm.DB
	repos    *repository.Repositories
	cache    *cache.Client
	redis    *miniredis.Miniredis
	clock    *testutil.Clock
	swaps    *swapService
	feedback *feedbackService
	users    *userService
	search   SearchService
	skills   SkillService
	admin    AdminService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutil.NewDB(t)
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	c := cache.NewWithClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	repos := repository.New(gdb)
	clock := testutil.NewClock()

	swaps := NewSwapService(repos).(*swapService)
	swaps.now = clock.Now
	feedback := NewFeedbackService(repos).(*feedbackService)
	feedback.now = clock.Now
	users := NewUserService(repos, c).(*userService)
	users.now = clock.Now
	skills := NewSkillService(repos, c)

	return &testEnv{
		db:       gdb,
		repos:    repos,
		cache:    c,
		redis:    mr,
		clock:    clock,
		swaps:    swaps,
		feedback: feedback,
		users:    users,
		search:   NewSearchService(repos, 10),
		skills:   skills,
		admin:    NewAdminService(repos, skills, c),
	}
}

func (e *testEnv) user(t *testing.T, name string, opts ...testutil.UserOption) *model.User {
	t.Helper()
	opts = append([]testutil.UserOption{testutil.CreatedAt(e.clock.Now())}, opts...)
	return testutil.CreateUser(t, e.db, name, opts...)
}

func (e *testEnv) skill(t *testing.T, name string) *model.Skill {
	t.Helper()
	return testutil.CreateSkill(t, e.db, name)
}

func (e *testEnv) offers(t *testing.T, u *model.User, s *model.Skill) {
	t.Helper()
	testutil.Tag(t, e.db, u, s, model.SkillOffered)
}

func (e *testEnv) wants(t *testing.T, u *model.User, s *model.Skill) {
	t.Helper()
	testutil.Tag(t, e.db, u, s, model.SkillWanted)
}

// guitarSpanish builds the classic pair: A offers Guitar and wants Spanish, B the reverse.
func (e *testEnv) guitarSpanish(t *testing.T) (a, b *model.User, guitar, spanish *model.Skill) {
	t.Helper()
	a = e.user(t, "a")
	b = e.user(t, "b")
	guitar = e.skill(t, "Guitar")
	spanish = e.skill(t, "Spanish")
	e.offers(t, a, guitar)
	e.wants(t, a, spanish)
	e.offers(t, b, spanish)
	e.wants(t, b, guitar)
	return a, b, guitar, spanish
}

func (e *testEnv) propose(t *testing.T, from, to *model.User, give, get *model.Skill) *SwapView {
	t.Helper()
	v, err := e.swaps.Create(context.Background(), from.ID, CreateSwapInput{
		ReceiverID:      to.ID,
		SenderSkillID:   give.ID,
		ReceiverSkillID: get.ID,
	})
	require.NoError(t, err)
	return v
}

func (e *testEnv) accepted(t *testing.T, from, to *model.User, give, get *model.Skill) *SwapView {
	t.Helper()
	v := e.propose(t, from, to, give, get)
	v, err := e.swaps.Transition(context.Background(), v.ID, to.ID, model.SwapStatusAccepted)
	require.NoError(t, err)
	return v
}

func swapIDs(views []SwapView) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(views))
	for _, v := range views {
		out = append(out, v.ID)
	}
	return out
}
