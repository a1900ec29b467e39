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

type EventFilter struct {
	CategoryID *uint
	Date       string
	Page       Page
}

// EventInput is a partial set of event fields; nil fields are left unchanged.
type EventInput struct {
	Title       *string
	Date        *string
	Time        *string
	Location    *string
	Description *string
	CategoryID  *uint
}

type EventParticipants struct {
	Title string   `json:"evento"`
	Total int64    `json:"total_participantes"`
	Names []string `json:"nombres_participantes"`
}

type EventService struct {
	db *gorm.DB
}

func NewEventService(db *gorm.DB) *EventService {
	return &EventService{db: db}
}

func (s *EventService) List(ctx context.Context, filter EventFilter) (PageResult[models.Event], error) {
	query := s.db.WithContext(ctx).Model(&models.Event{})
	if filter.CategoryID != nil {
		query = query.Where("category_id = ?", *filter.CategoryID)
	}
	if filter.Date != "" {
		if !validDate(filter.Date) {
			return PageResult[models.Event]{}, newValidationError("fecha", "date has wrong format, use YYYY-MM-DD")
		}
		query = query.Where("date = ?", filter.Date)
	}

	result, err := paginate[models.Event](query, filter.Page, "id ASC")
	if err != nil {
		return result, fmt.Errorf("list events: %w", err)
	}
	return result, nil
}

func (s *EventService) Get(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := s.db.WithContext(ctx).First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &event, nil
}

func (s *EventService) Create(ctx context.Context, actor *auth.Actor, in EventInput) (*models.Event, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	for field, missing := range map[string]bool{
		"titulo":    in.Title == nil,
		"fecha":     in.Date == nil,
		"hora":      in.Time == nil,
		"ubicacion": in.Location == nil,
		"categoria": in.CategoryID == nil,
	} {
		if missing {
			verr.add(field, "this field is required")
		}
	}
	if !verr.empty() {
		return nil, verr
	}

	event := models.Event{}
	applyEventInput(&event, in)
	if err := s.validate(ctx, &event); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &event, nil
}

func (s *EventService) Update(ctx context.Context, actor *auth.Actor, id uint, in EventInput) (*models.Event, error) {
	if err := requirePrivileged(actor); err != nil {
		return nil, err
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	applyEventInput(event, in)
	if err := s.validate(ctx, event); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Omit("Category").Save(event).Error; err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return event, nil
}

// Delete removes the event and, through the cascade, its participants.
func (s *EventService) Delete(ctx context.Context, actor *auth.Actor, id uint) error {
	if err := requirePrivileged(actor); err != nil {
		return err
	}

	result := s.db.WithContext(ctx).Delete(&models.Event{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Participants aggregates the registrations of one event. Names follow
// registration order.
func (s *EventService) Participants(ctx context.Context, id uint) (*EventParticipants, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	names := []string{}
	err = s.db.WithContext(ctx).Model(&models.Participant{}).
		Where("event_id = ?", event.ID).
		Order("id ASC").
		Pluck("name", &names).Error
	if err != nil {
		return nil, fmt.Errorf("list event participants: %w", err)
	}

	return &EventParticipants{
		Title: event.Title,
		Total: int64(len(names)),
		Names: names,
	}, nil
}

func applyEventInput(event *models.Event, in EventInput) {
	if in.Title != nil {
		event.Title = strings.TrimSpace(*in.Title)
	}
	if in.Date != nil {
		event.Date = strings.TrimSpace(*in.Date)
	}
	if in.Time != nil {
		event.Time = strings.TrimSpace(*in.Time)
	}
	if in.Location != nil {
		event.Location = strings.TrimSpace(*in.Location)
	}
	if in.Description != nil {
		event.Description = in.Description
	}
	if in.CategoryID != nil {
		event.CategoryID = *in.CategoryID
	}
}

func (s *EventService) validate(ctx context.Context, event *models.Event) error {
	verr := &ValidationError{}
	checkText(verr, "titulo", event.Title, 200, true)
	checkText(verr, "ubicacion", event.Location, 255, true)

	if !validDate(event.Date) {
		verr.add("fecha", "date has wrong format, use YYYY-MM-DD")
	}
	if clock, ok := normalizeClock(event.Time); ok {
		event.Time = clock
	} else {
		verr.add("hora", "time has wrong format, use hh:mm[:ss]")
	}

	if event.CategoryID == 0 {
		verr.add("categoria", "this field is required")
	} else {
		var found int64
		if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", event.CategoryID).Count(&found).Error; err != nil {
			return fmt.Errorf("check event category: %w", err)
		}
		if found == 0 {
			verr.add("categoria", fmt.Sprintf("invalid pk %d - object does not exist", event.CategoryID))
		}
	}
	return verr.orNil()
}
