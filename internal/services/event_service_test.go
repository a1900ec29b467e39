package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farellandr/eventreg/internal/models"
)

func TestEventWritesRequirePrivilege(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")

	_, err := f.events.Create(ctx, alice, EventInput{Title: strPtr("Nope")})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.events.Update(ctx, alice, concert.ID, EventInput{Title: strPtr("Nope")})
	assert.ErrorIs(t, err, ErrForbidden)

	assert.ErrorIs(t, f.events.Delete(ctx, alice, concert.ID), ErrForbidden)
	assert.ErrorIs(t, f.events.Delete(ctx, nil, concert.ID), ErrUnauthenticated)
}

func TestEventCreateValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.events.Create(ctx, admin, EventInput{Title: strPtr("Concert")})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "fecha")
	assert.Contains(t, verr.Fields, "categoria")

	_, err = f.events.Create(ctx, admin, EventInput{
		Title:      strPtr("Concert"),
		Date:       strPtr("16/12/2024"),
		Time:       strPtr("25:00"),
		Location:   strPtr("Hall"),
		CategoryID: uintPtr(77),
	})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "fecha")
	assert.Contains(t, verr.Fields, "hora")
	assert.Contains(t, verr.Fields, "categoria")
}

func TestEventTimeIsNormalized(t *testing.T) {
	f := newFixture(t)
	concert := f.event(t, "Concert", f.category(t, "Music").ID, "2024-12-16")
	assert.Equal(t, "20:00:00", concert.Time)
}

func TestEventPartialUpdate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	theatre := f.category(t, "Theatre")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")

	updated, err := f.events.Update(ctx, admin, concert.ID, EventInput{
		Location:   strPtr("Open air stage"),
		CategoryID: uintPtr(theatre.ID),
	})
	require.NoError(t, err)
	assert.Equal(t, "Concert", updated.Title)
	assert.Equal(t, "Open air stage", updated.Location)
	assert.Equal(t, theatre.ID, updated.CategoryID)

	_, err = f.events.Update(ctx, admin, 999, EventInput{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListEventsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	theatre := f.category(t, "Theatre")
	f.event(t, "Concert", music.ID, "2024-12-16")
	f.event(t, "Opera", music.ID, "2024-12-17")
	f.event(t, "Hamlet", theatre.ID, "2024-12-16")

	all, err := f.events.List(ctx, EventFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Concert", "Opera", "Hamlet"}, eventTitles(all.Items))

	byCategory, err := f.events.List(ctx, EventFilter{CategoryID: uintPtr(music.ID)})
	require.NoError(t, err)
	assert.Equal(t, []string{"Concert", "Opera"}, eventTitles(byCategory.Items))

	byDate, err := f.events.List(ctx, EventFilter{Date: "2024-12-16"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Concert", "Hamlet"}, eventTitles(byDate.Items))

	both, err := f.events.List(ctx, EventFilter{CategoryID: uintPtr(theatre.ID), Date: "2024-12-16"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hamlet"}, eventTitles(both.Items))

	_, err = f.events.List(ctx, EventFilter{Date: "yesterday"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestEventParticipantsAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")
	empty := f.event(t, "Opera", music.ID, "2024-12-17")
	f.register(t, alice, concert.ID)
	f.register(t, bob, concert.ID)
	_, err := f.participants.Register(ctx, admin, RegistrationInput{EventID: concert.ID, Name: "carol", Email: "carol@example.com"})
	require.NoError(t, err)

	summary, err := f.events.Participants(ctx, concert.ID)
	require.NoError(t, err)
	assert.Equal(t, "Concert", summary.Title)
	assert.Equal(t, int64(3), summary.Total)
	assert.Equal(t, []string{"alice", "bob", "carol"}, summary.Names)

	none, err := f.events.Participants(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), none.Total)
	assert.Empty(t, none.Names)

	_, err = f.events.Participants(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteEventCascadesToParticipants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	music := f.category(t, "Music")
	concert := f.event(t, "Concert", music.ID, "2024-12-16")
	opera := f.event(t, "Opera", music.ID, "2024-12-17")
	f.register(t, alice, concert.ID)
	f.register(t, bob, concert.ID)
	f.register(t, alice, opera.ID)

	require.NoError(t, f.events.Delete(ctx, admin, concert.ID))
	assert.Equal(t, int64(1), f.countParticipants(t))
	assert.ErrorIs(t, f.events.Delete(ctx, admin, concert.ID), ErrNotFound)
}

func eventTitles(events []models.Event) []string {
	titles := make([]string, 0, len(events))
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	return titles
}
