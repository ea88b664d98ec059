// Package testutil provides database fixtures for package tests.
package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"skillswap/internal/db"
	"skillswap/internal/model"
)

// NewDB opens a migrated in-memory sqlite database with foreign keys enforced.
// The pool holds a single connection so every query sees the same database.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), db.Config())
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.Exec("PRAGMA foreign_keys = ON").Error)
	require.NoError(t, db.Migrate(gdb))
	return gdb
}

// Clock hands out strictly increasing timestamps.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock starts a clock at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

// Now advances the clock by one second and returns the new time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

// UserOption customizes a fixture user.
type UserOption func(u *model.User)

// Private makes the fixture user private.
func Private() UserOption {
	return func(u *model.User) { u.Visibility = model.VisibilityPrivate }
}

// Admin gives the fixture user the admin role.
func Admin() UserOption {
	return func(u *model.User) { u.Role = model.RoleAdmin }
}

// Availability sets the fixture user's availability tag.
func Availability(a string) UserOption {
	return func(u *model.User) { u.Availability = a }
}

// CreatedAt pins the fixture user's creation time.
func CreatedAt(at time.Time) UserOption {
	return func(u *model.User) { u.CreatedAt = at }
}

// CreateUser inserts a public user named name.
func CreateUser(t *testing.T, gdb *gorm.DB, name string, opts ...UserOption) *model.User {
	t.Helper()
	u := &model.User{
		Name:         name,
		Email:        name + "@example.com",
		PasswordHash: "x",
		Visibility:   model.VisibilityPublic,
		Role:         model.RoleUser,
	}
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, gdb.Create(u).Error)
	return u
}

// CreateSkill inserts a catalog skill.
func CreateSkill(t *testing.T, gdb *gorm.DB, name string) *model.Skill {
	t.Helper()
	s := &model.Skill{Name: name}
	require.NoError(t, gdb.Create(s).Error)
	return s
}

// Tag attaches a skill to a user in the given direction.
func Tag(t *testing.T, gdb *gorm.DB, user *model.User, skill *model.Skill, direction model.SkillDirection) {
	t.Helper()
	require.NoError(t, gdb.Create(&model.UserSkill{UserID: user.ID, SkillID: skill.ID, Direction: direction}).Error)
}
