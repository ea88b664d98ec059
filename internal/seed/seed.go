// Package seed installs the default skill catalog and, for development,
// a set of demo users tagged with random skills.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
	"skillswap/internal/service"
)

// DemoPassword is the password of every demo user.
const DemoPassword = "password123"

const skillsPerDirection = 2

var availabilities = []string{"weekdays", "weekends", "evenings", "flexible"}

// Options controls a seed run.
type Options struct {
	DemoUsers int
	// RandSeed makes the generated users reproducible when non-zero.
	RandSeed int64
}

// Result reports what a seed run inserted.
type Result struct {
	SkillsCreated int
	UsersCreated  int
}

// Seeder drives the services to insert seed data, so seeded rows pass the
// same validation as API traffic.
type Seeder struct {
	auth   service.AuthService
	users  service.UserService
	skills service.SkillService
	log    zerolog.Logger
}

// New creates a Seeder.
func New(auth service.AuthService, users service.UserService, skills service.SkillService, log zerolog.Logger) *Seeder {
	return &Seeder{auth: auth, users: users, skills: skills, log: log}
}

// Run seeds the catalog, then creates opts.DemoUsers demo users.
func (s *Seeder) Run(ctx context.Context, opts Options) (Result, error) {
	var res Result

	created, err := s.skills.SeedDefaults(ctx)
	if err != nil {
		return res, fmt.Errorf("seed skills: %w", err)
	}
	res.SkillsCreated = created
	s.log.Info().Int("created", created).Msg("skill catalog seeded")

	if opts.DemoUsers <= 0 {
		return res, nil
	}
	catalog, err := s.skills.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list skills: %w", err)
	}
	if len(catalog) < 2*skillsPerDirection {
		return res, fmt.Errorf("catalog too small for demo users: %d skills", len(catalog))
	}

	// Zero seeds from crypto/rand.
	gofakeit.Seed(opts.RandSeed)

	for i := 0; i < opts.DemoUsers; i++ {
		user, err := s.demoUser(ctx, i)
		if errors.Is(err, apperrors.ErrConflict) {
			s.log.Debug().Int("index", i).Msg("demo user exists, skipping")
			continue
		}
		if err != nil {
			return res, fmt.Errorf("create demo user %d: %w", i, err)
		}
		if err := s.tagSkills(ctx, user, catalog); err != nil {
			return res, fmt.Errorf("tag demo user %d: %w", i, err)
		}
		res.UsersCreated++
	}
	s.log.Info().Int("created", res.UsersCreated).Msg("demo users seeded")
	return res, nil
}

func (s *Seeder) demoUser(ctx context.Context, i int) (*model.User, error) {
	name := gofakeit.Name()
	local := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r == ' ':
			return '.'
		}
		return -1
	}, strings.ToLower(name))
	return s.auth.Register(ctx, service.RegisterInput{
		Name:         name,
		Email:        fmt.Sprintf("%s.%d@demo.skillswap.local", local, i),
		Password:     DemoPassword,
		Location:     gofakeit.City(),
		Availability: gofakeit.RandomString(availabilities),
	})
}

// tagSkills gives the user distinct offered and wanted skills.
func (s *Seeder) tagSkills(ctx context.Context, user *model.User, catalog []model.Skill) error {
	idx := make([]int, len(catalog))
	for i := range idx {
		idx[i] = i
	}
	gofakeit.ShuffleInts(idx)

	for n, i := range idx[:2*skillsPerDirection] {
		direction := model.SkillOffered
		if n >= skillsPerDirection {
			direction = model.SkillWanted
		}
		if _, err := s.users.AddSkill(ctx, user.ID, catalog[i].ID, string(direction)); err != nil {
			return err
		}
	}
	return nil
}
