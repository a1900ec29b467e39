package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/farellandr/eventreg/internal/auth"
	"github.com/farellandr/eventreg/internal/models"
	"github.com/farellandr/eventreg/internal/testdb"
)

var (
	admin = &auth.Actor{UserID: 1, Username: "admin", Email: "admin@example.com", IsSuperuser: true}
	alice = &auth.Actor{UserID: 2, Username: "alice", Email: "alice@example.com"}
	bob   = &auth.Actor{UserID: 3, Username: "bob", Email: "bob@example.com"}
)

type fixture struct {
	db           *gorm.DB
	categories   *CategoryService
	events       *EventService
	participants *ParticipantService
	users        *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.Open(t)
	users := NewUserService(db)
	users.passwordCost = bcrypt.MinCost
	return &fixture{
		db:           db,
		categories:   NewCategoryService(db),
		events:       NewEventService(db),
		participants: NewParticipantService(db),
		users:        users,
	}
}

func strPtr(s string) *string { return &s }

func uintPtr(n uint) *uint { return &n }

func (f *fixture) category(t *testing.T, name string) *models.Category {
	t.Helper()
	c, err := f.categories.Create(context.Background(), admin, CategoryInput{Name: strPtr(name)})
	require.NoError(t, err)
	return c
}

func (f *fixture) event(t *testing.T, title string, categoryID uint, date string) *models.Event {
	t.Helper()
	e, err := f.events.Create(context.Background(), admin, EventInput{
		Title:      strPtr(title),
		Date:       strPtr(date),
		Time:       strPtr("20:00"),
		Location:   strPtr("Main hall"),
		CategoryID: uintPtr(categoryID),
	})
	require.NoError(t, err)
	return e
}

func (f *fixture) register(t *testing.T, actor *auth.Actor, eventID uint) *models.Participant {
	t.Helper()
	p, err := f.participants.Register(context.Background(), actor, RegistrationInput{EventID: eventID})
	require.NoError(t, err)
	return p
}

func (f *fixture) countParticipants(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&models.Participant{}).Count(&n).Error)
	return n
}
