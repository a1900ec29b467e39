package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/eventreg/internal/models"
)

func TestRegisterRejectsSecondRegistration(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")

	first, err := f.participants.Register(ctx, alice, RegistrationInput{EventID: concert.ID})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", first.Email)

	_, err = f.participants.Register(ctx, alice, RegistrationInput{EventID: concert.ID})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
	assert.Equal(t, int64(1), f.countParticipants(t))
}

func TestRegisterForcesIdentityForRegularUsers(t *testing.T) {
	f := newFixture(t)
	concert := f.event(t, "Concert", f.category(t, "Music").ID, "2024-12-16")

	p, err := f.participants.Register(context.Background(), alice, RegistrationInput{
		EventID: concert.ID,
		Name:    "Mallory",
		Email:   "mallory@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", p.Name)
	assert.Equal(t, "alice@example.com", p.Email)

	// Spoofing someone else's email cannot dodge the duplicate rule.
	_, err = f.participants.Register(context.Background(), alice, RegistrationInput{
		EventID: concert.ID,
		Email:   "other@example.com",
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestRegisterAcceptsFieldsFromPrivilegedActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	concert := f.event(t, "Concert", f.category(t, "Music").ID, "2024-12-16")

	p, err := f.participants.Register(ctx, admin, RegistrationInput{
		EventID: concert.ID,
		Name:    "Carol",
		Email:   "carol@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "Carol", p.Name)
	assert.Equal(t, "carol@example.com", p.Email)

	_, err = f.participants.Register(ctx, admin, RegistrationInput{EventID: concert.ID, Name: "Carol", Email: "carol@example.com"})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	_, err = f.participants.Register(ctx, admin, RegistrationInput{EventID: concert.ID, Name: "Dan", Email: "not-an-email"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "correo")
}

func TestRegisterErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.participants.Register(ctx, nil, RegistrationInput{EventID: 1})
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = f.participants.Register(ctx, alice, RegistrationInput{EventID: 42})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestUniqueIndexGuardsRegistrations(t *testing.T) {
	f := newFixture(t)
	concert := f.event(t, "Concert", f.category(t, "Music").ID, "2024-12-16")
	f.register(t, alice, concert.ID)

	err := f.db.Create(&models.Participant{EventID: concert.ID, Name: "alice", Email: "alice@example.com"}).Error
	require.Error(t, err)
	assert.Equal(t, int64(1), f.countParticipants(t))
}

func TestPresentHidesEmailFromRegularViewers(t *testing.T) {
	p := models.Participant{ID: 5, Name: "Alice", Email: "alice@example.com", EventID: 9}

	view := Present(p, alice)
	assert.Nil(t, view.Email)
	assert.Equal(t, ParticipantView{ID: 5, Name: "Alice", EventID: 9}, view)

	assert.Nil(t, Present(p, nil).Email)

	privileged := Present(p, admin)
	require.NotNil(t, privileged.Email)
	assert.Equal(t, "alice@example.com", *privileged.Email)
}

func TestListScopesRegularViewersToOwnRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")
	opera := f.event(t, "Opera", music.ID, "2024-12-17")
	f.register(t, alice, concert.ID)
	f.register(t, alice, opera.ID)
	f.register(t, bob, concert.ID)

	mine, err := f.participants.List(ctx, alice, ParticipantFilter{})
	require.NoError(t, err)
	require.Len(t, mine.Items, 2)
	for _, p := range mine.Items {
		assert.Equal(t, alice.Email, p.Email)
	}

	all, err := f.participants.List(ctx, admin, ParticipantFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	onlyConcert, err := f.participants.List(ctx, admin, ParticipantFilter{EventID: uintPtr(concert.ID)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), onlyConcert.Total)

	_, err = f.participants.List(ctx, nil, ParticipantFilter{})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestListSearchOrderingAndPaging(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")
	opera := f.event(t, "Opera", music.ID, "2024-12-17")

	names := []string{"Zoe", "Adam", "Maria", "Mario", "Ben"}
	for i, name := range names {
		eventID := concert.ID
		if i%2 == 1 {
			eventID = opera.ID
		}
		_, err := f.participants.Register(ctx, admin, RegistrationInput{EventID: eventID, Name: name, Email: name + "@example.com"})
		require.NoError(t, err)
	}

	byDefault, err := f.participants.List(ctx, admin, ParticipantFilter{})
	require.NoError(t, err)
	assert.Equal(t, names, participantNames(byDefault.Items))

	search, err := f.participants.List(ctx, admin, ParticipantFilter{Search: "mari"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Maria", "Mario"}, participantNames(search.Items))

	byName, err := f.participants.List(ctx, admin, ParticipantFilter{Ordering: "nombre"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Adam", "Ben", "Maria", "Mario", "Zoe"}, participantNames(byName.Items))

	byEvent, err := f.participants.List(ctx, admin, ParticipantFilter{Ordering: "-evento"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Adam", "Mario", "Zoe", "Maria", "Ben"}, participantNames(byEvent.Items))

	page, err := f.participants.List(ctx, admin, ParticipantFilter{Page: Page{Number: 2, Size: 2}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Maria", "Mario"}, participantNames(page.Items))
	assert.Equal(t, int64(5), page.Total)
	assert.Equal(t, int64(3), page.TotalPages())

	_, err = f.participants.List(ctx, admin, ParticipantFilter{Ordering: "email"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestListDefaultsToPagesOfTen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	concert := f.event(t, "Concert", f.category(t, "Music").ID, "2024-12-16")
	for i := 0; i < 12; i++ {
		_, err := f.participants.Register(ctx, admin, RegistrationInput{
			EventID: concert.ID,
			Name:    "guest",
			Email:   "guest" + itoa(i) + "@example.com",
		})
		require.NoError(t, err)
	}

	result, err := f.participants.List(ctx, admin, ParticipantFilter{})
	require.NoError(t, err)
	assert.Len(t, result.Items, DefaultPageSize)
	assert.Equal(t, int64(12), result.Total)
}

func TestGetIsScoped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	concert := f.event(t, "Concert", f.category(t, "Music").ID, "2024-12-16")
	p := f.register(t, bob, concert.ID)

	_, err := f.participants.Get(ctx, alice, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := f.participants.Get(ctx, bob, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
}

func TestUnregisterOwnershipRule(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	concert := f.event(t, "Concert", f.category(t, "Music").ID, "2024-12-16")
	alicesRow := f.register(t, alice, concert.ID)
	bobsRow := f.register(t, bob, concert.ID)

	assert.ErrorIs(t, f.participants.Unregister(ctx, alice, bobsRow.ID), ErrForbidden)
	assert.ErrorIs(t, f.participants.Unregister(ctx, nil, bobsRow.ID), ErrUnauthenticated)
	assert.ErrorIs(t, f.participants.Unregister(ctx, alice, 999), ErrNotFound)

	require.NoError(t, f.participants.Unregister(ctx, alice, alicesRow.ID))
	require.NoError(t, f.participants.Unregister(ctx, admin, bobsRow.ID))
	assert.Equal(t, int64(0), f.countParticipants(t))

	// A freed pair can be registered again.
	f.register(t, alice, concert.ID)
}

func TestUpdateKeepsRegistrationRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")
	opera := f.event(t, "Opera", music.ID, "2024-12-17")
	first := f.register(t, alice, concert.ID)
	f.register(t, alice, opera.ID)
	bobsRow := f.register(t, bob, concert.ID)

	_, err := f.participants.Update(ctx, alice, first.ID, ParticipantUpdate{EventID: uintPtr(opera.ID)})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	_, err = f.participants.Update(ctx, alice, bobsRow.ID, ParticipantUpdate{Name: strPtr("Bobby")})
	assert.ErrorIs(t, err, ErrForbidden)

	updated, err := f.participants.Update(ctx, alice, first.ID, ParticipantUpdate{Name: strPtr("Someone else")})
	require.NoError(t, err)
	assert.Equal(t, "alice", updated.Name)

	renamed, err := f.participants.Update(ctx, admin, bobsRow.ID, ParticipantUpdate{Name: strPtr("Robert")})
	require.NoError(t, err)
	assert.Equal(t, "Robert", renamed.Name)
	assert.Equal(t, "bob@example.com", renamed.Email)
}

func TestEventsForActor(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")
	f.event(t, "Opera", music.ID, "2024-12-17")
	jazz := f.event(t, "Jazz", music.ID, "2024-12-18")
	f.register(t, alice, jazz.ID)
	f.register(t, alice, concert.ID)
	f.register(t, bob, concert.ID)

	events, err := f.participants.EventsFor(ctx, alice)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Concert", events[0].Title)
	assert.Equal(t, "Jazz", events[1].Title)

	_, err = f.participants.EventsFor(ctx, nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func participantNames(ps []models.Participant) []string {
	names := make([]string, 0, len(ps))
	for _, p := range ps {
		names = append(names, p.Name)
	}
	return names
}
