package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/farellandr/eventreg/internal/auth"
	"github.com/farellandr/eventreg/internal/models"
)

// ParticipantView is the only shape a participant leaves the service in.
// Email is nil for viewers who are not privileged.
type ParticipantView struct {
	ID      uint    `json:"id"`
	Name    string  `json:"nombre"`
	Email   *string `json:"correo,omitempty"`
	EventID uint    `json:"evento"`
}

// Present applies the visibility rule for viewer.
func Present(p models.Participant, viewer *auth.Actor) ParticipantView {
	view := ParticipantView{
		ID:      p.ID,
		Name:    p.Name,
		EventID: p.EventID,
	}
	if viewer != nil && viewer.IsSuperuser {
		email := p.Email
		view.Email = &email
	}
	return view
}

func PresentAll(participants []models.Participant, viewer *auth.Actor) []ParticipantView {
	views := make([]ParticipantView, 0, len(participants))
	for _, p := range participants {
		views = append(views, Present(p, viewer))
	}
	return views
}

// RegistrationInput carries client-supplied fields. Name and Email are only
// honoured for privileged actors.
type RegistrationInput struct {
	EventID uint
	Name    string
	Email   string
}

type ParticipantUpdate struct {
	EventID *uint
	Name    *string
	Email   *string
}

type ParticipantFilter struct {
	EventID  *uint
	Search   string
	Ordering string
	Page     Page
}

var participantOrderings = map[string]string{
	"":        "id ASC",
	"id":      "id ASC",
	"-id":     "id DESC",
	"nombre":  "name ASC, id ASC",
	"-nombre": "name DESC, id ASC",
	"evento":  "event_id ASC, id ASC",
	"-evento": "event_id DESC, id ASC",
}

type ParticipantService struct {
	db *gorm.DB
}

func NewParticipantService(db *gorm.DB) *ParticipantService {
	return &ParticipantService{db: db}
}

func (s *ParticipantService) Register(ctx context.Context, actor *auth.Actor, in RegistrationInput) (*models.Participant, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	participant := models.Participant{
		EventID: in.EventID,
		Name:    actor.Username,
		Email:   actor.Email,
	}
	if actor.IsSuperuser {
		participant.Name = strings.TrimSpace(in.Name)
		participant.Email = strings.TrimSpace(in.Email)
	}
	if err := validateParticipant(&participant); err != nil {
		return nil, err
	}

	if err := s.ensureEvent(ctx, participant.EventID); err != nil {
		return nil, err
	}
	if err := s.ensureNotRegistered(ctx, participant.EventID, participant.Email, 0); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit("Event").Create(&participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return &participant, nil
}

// List scopes non-privileged viewers to their own registrations.
func (s *ParticipantService) List(ctx context.Context, viewer *auth.Actor, filter ParticipantFilter) (PageResult[models.Participant], error) {
	if err := requireActor(viewer); err != nil {
		return PageResult[models.Participant]{}, err
	}

	order, ok := participantOrderings[filter.Ordering]
	if !ok {
		return PageResult[models.Participant]{}, newValidationError("ordering", fmt.Sprintf("unknown ordering %q", filter.Ordering))
	}

	query := s.scoped(ctx, viewer)
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", likePattern(search))
	}

	result, err := paginate[models.Participant](query, filter.Page, order)
	if err != nil {
		return result, fmt.Errorf("list participants: %w", err)
	}
	return result, nil
}

func (s *ParticipantService) Get(ctx context.Context, viewer *auth.Actor, id uint) (*models.Participant, error) {
	if err := requireActor(viewer); err != nil {
		return nil, err
	}

	var participant models.Participant
	if err := s.scoped(ctx, viewer).First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return &participant, nil
}

// Update follows the registration rules: identity fields are forced for
// non-privileged actors and the (event, email) pair must stay unique.
func (s *ParticipantService) Update(ctx context.Context, actor *auth.Actor, id uint, in ParticipantUpdate) (*models.Participant, error) {
	participant, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if in.EventID != nil {
		participant.EventID = *in.EventID
	}
	if actor.IsSuperuser {
		if in.Name != nil {
			participant.Name = strings.TrimSpace(*in.Name)
		}
		if in.Email != nil {
			participant.Email = strings.TrimSpace(*in.Email)
		}
	} else {
		participant.Name = actor.Username
		participant.Email = actor.Email
	}
	if err := validateParticipant(participant); err != nil {
		return nil, err
	}

	if err := s.ensureEvent(ctx, participant.EventID); err != nil {
		return nil, err
	}
	if err := s.ensureNotRegistered(ctx, participant.EventID, participant.Email, participant.ID); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit("Event").Save(participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("update participant: %w", err)
	}
	return participant, nil
}

func (s *ParticipantService) Unregister(ctx context.Context, actor *auth.Actor, id uint) error {
	participant, err := s.owned(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Participant{}, participant.ID).Error; err != nil {
		return fmt.Errorf("delete participant: %w", err)
	}
	return nil
}

// EventsFor lists the events the actor is registered for, by event id.
func (s *ParticipantService) EventsFor(ctx context.Context, actor *auth.Actor) ([]models.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	registered := db.Model(&models.Participant{}).Select("event_id").Where("email = ?", actor.Email)

	events := []models.Event{}
	if err := db.Where("id IN (?)", registered).Order("id ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("list registered events: %w", err)
	}
	return events, nil
}

func (s *ParticipantService) scoped(ctx context.Context, viewer *auth.Actor) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.Participant{})
	if !viewer.IsSuperuser {
		query = query.Where("email = ?", viewer.Email)
	}
	return query
}

// owned loads a participant the actor may modify. Other users' rows are
// visible to the rule so that it can answer Forbidden rather than NotFound.
func (s *ParticipantService) owned(ctx context.Context, actor *auth.Actor, id uint) (*models.Participant, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}

	var participant models.Participant
	if err := s.db.WithContext(ctx).First(&participant, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	if !actor.IsSuperuser && participant.Email != actor.Email {
		return nil, ErrForbidden
	}
	return &participant, nil
}

func (s *ParticipantService) ensureEvent(ctx context.Context, eventID uint) error {
	if eventID == 0 {
		return newValidationError("evento", "this field is required")
	}

	var found int64
	if err := s.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", eventID).Count(&found).Error; err != nil {
		return fmt.Errorf("check event: %w", err)
	}
	if found == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ensureNotRegistered is the friendly early answer; the unique index stays
// the authority when two requests race past it.
func (s *ParticipantService) ensureNotRegistered(ctx context.Context, eventID uint, email string, exceptID uint) error {
	var taken int64
	err := s.db.WithContext(ctx).Model(&models.Participant{}).
		Where("event_id = ? AND email = ? AND id <> ?", eventID, email, exceptID).
		Count(&taken).Error
	if err != nil {
		return fmt.Errorf("check registration: %w", err)
	}
	if taken > 0 {
		return ErrDuplicateRegistration
	}
	return nil
}

func validateParticipant(p *models.Participant) error {
	verr := &ValidationError{}
	checkText(verr, "nombre", p.Name, 150, true)
	if !validEmail(p.Email) {
		verr.add("correo", "enter a valid email address")
	}
	return verr.orNil()
}
