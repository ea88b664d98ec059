package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "skillswap/internal/errors"
)

// Repositories groups every repository over one connection or transaction.
type Repositories struct {
	Users      UserRepository
	Skills     SkillRepository
	UserSkills UserSkillRepository
	Swaps      SwapRepository
	Feedback   FeedbackRepository
	Search     SearchRepository

	db *gorm.DB
}

// New builds all repositories over db.
func New(db *gorm.DB) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db),
		Skills:     NewSkillRepository(db),
		UserSkills: NewUserSkillRepository(db),
		Swaps:      NewSwapRepository(db),
		Feedback:   NewFeedbackRepository(db),
		Search:     NewSearchRepository(db),
		db:         db,
	}
}

// WithTransaction executes fn with repositories bound to one database
// transaction. Any error returned by fn rolls the transaction back.
func (r *Repositories) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx *Repositories) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, New(tx))
	})
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperrors.Internal(err)
}

// forUpdate adds a row lock to a read. Dialects without row locks ignore it.
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// translateError maps storage errors onto domain errors.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperrors.Conflict(resource + " already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return apperrors.NotFound("referenced entity")
	default:
		return apperrors.Internal(err)
	}
}

// Page bounds a listing.
type Page struct {
	Offset int
	Limit  int
}

func (p Page) apply(db *gorm.DB) *gorm.DB {
	if p.Offset > 0 {
		db = db.Offset(p.Offset)
	}
	if p.Limit > 0 {
		db = db.Limit(p.Limit)
	}
	return db
}

const oldestFirst = "created_at ASC, id ASC"
