package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"skillswap/internal/cache"
	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

const (
	userCacheTTL = 5 * time.Minute
	// profileInvalidationHold outlasts any profile read still in flight at
	// invalidation time.
	profileInvalidationHold = 10 * time.Second
)

// UserSkills is a user's offered and wanted skills.
type UserSkills struct {
	Offered []model.SkillRef `json:"skills_offered"`
	Wanted  []model.SkillRef `json:"skills_wanted"`
}

// Profile is the owner's view of their account.
type Profile struct {
	model.User
	UserSkills
}

// PublicProfile is what other users see.
type PublicProfile struct {
	model.PublicUser
	UserSkills
}

// UpdateProfileInput is a partial profile update. Nil fields are left
// unchanged; a non-nil skill list replaces that direction entirely.
type UpdateProfileInput struct {
	Name          *string
	Location      *string
	ProfilePhoto  *string
	Availability  *string
	Visibility    *string
	SkillsOffered *[]uuid.UUID
	SkillsWanted  *[]uuid.UUID
}

// UserService exposes profile operations.
type UserService interface {
	GetProfile(ctx context.Context, actorID uuid.UUID) (*Profile, error)
	GetUser(ctx context.Context, viewerID, userID uuid.UUID) (*PublicProfile, error)
	UpdateProfile(ctx context.Context, actorID uuid.UUID, in UpdateProfileInput) (*Profile, error)
	AddSkill(ctx context.Context, actorID, skillID uuid.UUID, direction string) (*UserSkills, error)
	RemoveSkill(ctx context.Context, actorID, skillID uuid.UUID, direction string) error
	ListSkills(ctx context.Context, actorID uuid.UUID) (*UserSkills, error)
}

type userService struct {
	repos *repository.Repositories
	cache *cache.Client
	now   func() time.Time
}

// NewUserService builds a UserService with repositories and cache.
func NewUserService(repos *repository.Repositories, cache *cache.Client) UserService {
	return &userService{repos: repos, cache: cache, now: utcNow}
}

func profileCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// invalidateProfile tombstones the cached profile so a read that raced the
// change cannot write the old profile back.
func invalidateProfile(ctx context.Context, c *cache.Client, id uuid.UUID) {
	_ = c.Invalidate(ctx, profileCacheKey(id), profileInvalidationHold)
}

func (s *userService) GetProfile(ctx context.Context, actorID uuid.UUID) (*Profile, error) {
	var cached Profile
	if s.cache.GetJSON(ctx, profileCacheKey(actorID), &cached) {
		return &cached, nil
	}

	profile, err := s.loadProfile(ctx, s.repos, actorID)
	if err != nil {
		return nil, err
	}
	_ = s.cache.AddJSON(ctx, profileCacheKey(actorID), profile, userCacheTTL)
	return profile, nil
}

// GetUser returns another user's profile. Private profiles are visible only to their owner.
func (s *userService) GetUser(ctx context.Context, viewerID, userID uuid.UUID) (*PublicProfile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !profile.IsPublic() && viewerID != userID {
		return nil, apperrors.Forbidden("this profile is private")
	}
	return &PublicProfile{PublicUser: profile.Public(), UserSkills: profile.UserSkills}, nil
}

// UpdateProfile applies the patch and any skill-set replacement atomically.
func (s *userService) UpdateProfile(ctx context.Context, actorID uuid.UUID, in UpdateProfileInput) (*Profile, error) {
	fields, err := profileFields(in)
	if err != nil {
		return nil, err
	}

	var profile *Profile
	err = s.repos.WithTransaction(ctx, func(ctx context.Context, tx *repository.Repositories) error {
		if _, err := tx.Users.FindByIDForUpdate(ctx, actorID); err != nil {
			return err
		}
		if err := tx.Users.Update(ctx, actorID, fields); err != nil {
			return err
		}
		if in.SkillsOffered != nil {
			if err := s.replaceSkills(ctx, tx, actorID, model.SkillOffered, *in.SkillsOffered); err != nil {
				return err
			}
		}
		if in.SkillsWanted != nil {
			if err := s.replaceSkills(ctx, tx, actorID, model.SkillWanted, *in.SkillsWanted); err != nil {
				return err
			}
		}
		profile, err = s.loadProfile(ctx, tx, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}

	invalidateProfile(ctx, s.cache, actorID)
	return profile, nil
}

func profileFields(in UpdateProfileInput) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperrors.InvalidArgument("name cannot be empty")
		}
		fields["name"] = name
	}
	if in.Location != nil {
		fields["location"] = strings.TrimSpace(*in.Location)
	}
	if in.ProfilePhoto != nil {
		fields["profile_photo"] = strings.TrimSpace(*in.ProfilePhoto)
	}
	if in.Availability != nil {
		fields["availability"] = strings.TrimSpace(*in.Availability)
	}
	if in.Visibility != nil {
		v := model.Visibility(*in.Visibility)
		if !v.Valid() {
			return nil, apperrors.InvalidArgument("visibility must be public or private")
		}
		fields["visibility"] = v
	}
	return fields, nil
}

// replaceSkills swaps one direction's edges for skillIDs. Duplicates collapse.
func (s *userService) replaceSkills(ctx context.Context, tx *repository.Repositories, userID uuid.UUID, direction model.SkillDirection, skillIDs []uuid.UUID) error {
	ids := uniqueIDs(skillIDs)
	found, err := tx.Skills.FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return apperrors.NotFound("skill")
	}

	if err := tx.UserSkills.RemoveDirection(ctx, userID, direction); err != nil {
		return err
	}
	now := s.now()
	edges := make([]model.UserSkill, 0, len(ids))
	for _, id := range ids {
		edges = append(edges, model.UserSkill{UserID: userID, SkillID: id, Direction: direction, CreatedAt: now})
	}
	return tx.UserSkills.AddMany(ctx, edges)
}

func (s *userService) AddSkill(ctx context.Context, actorID, skillID uuid.UUID, direction string) (*UserSkills, error) {
	dir, err := parseDirection(direction)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Skills.FindByID(ctx, skillID); err != nil {
		return nil, err
	}
	err = s.repos.UserSkills.Add(ctx, &model.UserSkill{UserID: actorID, SkillID: skillID, Direction: dir, CreatedAt: s.now()})
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindConflict {
			return nil, apperrors.Conflict("skill already added")
		}
		return nil, err
	}

	invalidateProfile(ctx, s.cache, actorID)
	return s.ListSkills(ctx, actorID)
}

func (s *userService) RemoveSkill(ctx context.Context, actorID, skillID uuid.UUID, direction string) error {
	dir, err := parseDirection(direction)
	if err != nil {
		return err
	}
	if err := s.repos.UserSkills.Remove(ctx, actorID, skillID, dir); err != nil {
		return err
	}
	invalidateProfile(ctx, s.cache, actorID)
	return nil
}

func (s *userService) ListSkills(ctx context.Context, actorID uuid.UUID) (*UserSkills, error) {
	edges, err := s.repos.UserSkills.ListByUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	skills := groupSkills(edges)
	return &skills, nil
}

func (s *userService) loadProfile(ctx context.Context, repos *repository.Repositories, userID uuid.UUID) (*Profile, error) {
	user, err := repos.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	edges, err := repos.UserSkills.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: *user, UserSkills: groupSkills(edges)}, nil
}

func groupSkills(edges []model.UserSkillName) UserSkills {
	out := UserSkills{Offered: []model.SkillRef{}, Wanted: []model.SkillRef{}}
	for _, e := range edges {
		ref := model.SkillRef{ID: e.SkillID, Name: e.Name}
		if e.Direction == model.SkillOffered {
			out.Offered = append(out.Offered, ref)
		} else {
			out.Wanted = append(out.Wanted, ref)
		}
	}
	return out
}

func parseDirection(direction string) (model.SkillDirection, error) {
	dir := model.SkillDirection(direction)
	if !dir.Valid() {
		return "", apperrors.InvalidArgument("direction must be offered or wanted")
	}
	return dir, nil
}
