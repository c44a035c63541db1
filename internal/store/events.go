package store

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Simonbn1/eksamen/internal/models"
	"gorm.io/gorm"
)

// EventFilter holds the optional listing filters. Zero-valued fields
// impose no constraint; set fields are AND-combined.
type EventFilter struct {
	Category  string
	Place     string
	StartTime *time.Time
	EndTime   *time.Time
	Search    string
}

func (f EventFilter) apply(tx *gorm.DB) *gorm.DB {
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}

	if f.Place != "" {
		tx = tx.Where("place = ?", f.Place)
	}

	if f.StartTime != nil {
		tx = tx.Where("date >= ?", *f.StartTime)
	}

	if f.EndTime != nil {
		tx = tx.Where("date <= ?", *f.EndTime)
	}

	if f.Search != "" {
		tx = tx.Where("LOWER(title) LIKE ? ESCAPE '\\'", "%"+escapeLike(strings.ToLower(f.Search))+"%")
	}

	return tx
}

// escapeLike neutralizes LIKE wildcards so the search term matches as a
// literal substring.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

type EventStore struct {
	db *gorm.DB
}

func NewEventStore(db *gorm.DB) *EventStore {
	return &EventStore{db: db}
}

// List returns the events matching the filter, ordered by date then id.
// The source collection had no defined order; this one is documented.
func (s *EventStore) List(filter EventFilter) ([]models.Event, error) {
	var events []models.Event

	err := filter.apply(s.db.Model(&models.Event{})).
		Order("date ASC, id ASC").
		Find(&events).Error

	if err != nil {
		return nil, err
	}

	return events, nil
}

// Create inserts the event. Title uniqueness is enforced by the unique
// index, not an application-level pre-check.
func (s *EventStore) Create(event *models.Event) error {
	if err := s.db.Create(event).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateTitle
		}
		return err
	}

	return nil
}

func (s *EventStore) GetByID(id uint) (models.Event, error) {
	var event models.Event

	if err := s.db.First(&event, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, ErrNotFound
		}
		return models.Event{}, err
	}

	return event, nil
}

func (s *EventStore) GetByTitle(title string) (models.Event, error) {
	var event models.Event

	if err := s.db.Where("title = ?", title).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Event{}, ErrNotFound
		}
		return models.Event{}, err
	}

	return event, nil
}

// Resolve looks an event up by either form the routes accept: a numeric
// id or a title.
func (s *EventStore) Resolve(identifier string) (models.Event, error) {
	if id, err := strconv.ParseUint(identifier, 10, 64); err == nil {
		event, err := s.GetByID(uint(id))
		if err == nil || !errors.Is(err, ErrNotFound) {
			return event, err
		}
	}

	return s.GetByTitle(identifier)
}

// Update applies the given column changes and returns the refreshed
// record. A missing id reports ErrNotFound; renaming onto an existing
// title reports ErrDuplicateTitle.
func (s *EventStore) Update(id uint, updates map[string]interface{}) (models.Event, error) {
	event, err := s.GetByID(id)

	if err != nil {
		return models.Event{}, err
	}

	if len(updates) > 0 {
		if err := s.db.Model(&event).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.Event{}, ErrDuplicateTitle
			}
			return models.Event{}, err
		}
	}

	return s.GetByID(id)
}

// Delete removes the event for good. Deletion is physical so the title
// frees up for reuse and attendances cascade away.
func (s *EventStore) Delete(id uint) error {
	result := s.db.Unscoped().Delete(&models.Event{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
