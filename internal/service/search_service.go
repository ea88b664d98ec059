package service

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	apperrors "skillswap/internal/errors"
	"skillswap/internal/model"
	"skillswap/internal/repository"
)

// MaxSearchPageSize caps the page size a caller can request.
const MaxSearchPageSize = 100

// SearchQuery is a user directory query. Zero values mean "no filter".
type SearchQuery struct {
	Skill        string
	Direction    string
	Availability string
	Page         int
	Size         int
}

// SearchResultUser is one directory entry.
type SearchResultUser struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Location      string    `json:"location,omitempty"`
	ProfilePhoto  string    `json:"profile_photo,omitempty"`
	Availability  string    `json:"availability,omitempty"`
	SkillsOffered []string  `json:"skills_offered"`
	SkillsWanted  []string  `json:"skills_wanted"`
	Rating        *float64  `json:"rating"`
}

// SearchResult is one page of the directory.
type SearchResult struct {
	Users []SearchResultUser `json:"users"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Pages int                `json:"pages"`
}

// SearchService queries public profiles.
type SearchService interface {
	Search(ctx context.Context, requesterID uuid.UUID, q SearchQuery) (*SearchResult, error)
}

type searchService struct {
	repos       *repository.Repositories
	defaultSize int
}

// NewSearchService creates a search service using defaultSize when a query has no size.
func NewSearchService(repos *repository.Repositories, defaultSize int) SearchService {
	if defaultSize < 1 || defaultSize > MaxSearchPageSize {
		defaultSize = 10
	}
	return &searchService{repos: repos, defaultSize: defaultSize}
}

// Search returns public users other than the requester, oldest first.
func (s *searchService) Search(ctx context.Context, requesterID uuid.UUID, q SearchQuery) (*SearchResult, error) {
	if q.Page < 1 {
		return nil, apperrors.InvalidArgument("page must be at least 1")
	}
	size := q.Size
	if size <= 0 {
		size = s.defaultSize
	}
	if size > MaxSearchPageSize {
		size = MaxSearchPageSize
	}
	if q.Page-1 > math.MaxInt/size {
		return nil, apperrors.InvalidArgument("page is out of range")
	}

	direction := model.SkillDirection(q.Direction)
	if direction != "" && !direction.Valid() {
		return nil, apperrors.InvalidArgument("direction must be offered or wanted")
	}

	users, total, err := s.repos.Search.Search(ctx, repository.SearchFilter{
		ExcludeUserID: requesterID,
		Skill:         strings.TrimSpace(q.Skill),
		Direction:     direction,
		Availability:  strings.TrimSpace(q.Availability),
		Page:          repository.Page{Offset: (q.Page - 1) * size, Limit: size},
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	edges, err := s.repos.UserSkills.SkillNamesForUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	ratings, err := s.repos.Feedback.AverageRatings(ctx, ids)
	if err != nil {
		return nil, err
	}

	offered := make(map[uuid.UUID][]string, len(users))
	wanted := make(map[uuid.UUID][]string, len(users))
	for _, e := range edges {
		if e.Direction == model.SkillOffered {
			offered[e.UserID] = append(offered[e.UserID], e.Name)
		} else {
			wanted[e.UserID] = append(wanted[e.UserID], e.Name)
		}
	}

	out := make([]SearchResultUser, 0, len(users))
	for _, u := range users {
		entry := SearchResultUser{
			ID:            u.ID,
			Name:          u.Name,
			Location:      u.Location,
			ProfilePhoto:  u.ProfilePhoto,
			Availability:  u.Availability,
			SkillsOffered: nonNil(offered[u.ID]),
			SkillsWanted:  nonNil(wanted[u.ID]),
		}
		if avg, ok := ratings[u.ID]; ok {
			r := roundRating(avg)
			entry.Rating = &r
		}
		out = append(out, entry)
	}

	return &SearchResult{
		Users: out,
		Total: total,
		Page:  q.Page,
		Size:  size,
		Pages: int(math.Ceil(float64(total) / float64(size))),
	}, nil
}

func roundRating(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
