package store

import (
	"errors"

	"github.com/Simonbn1/eksamen/internal/models"
	"gorm.io/gorm"
)

type AttendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

// Add records the membership as a single insert. The composite unique
// index on (user_id, event_id) is the idempotency guard; there is no
// read-modify-write to race against.
func (s *AttendanceStore) Add(userID, eventID uint) error {
	attendance := models.Attendance{
		UserID:  userID,
		EventID: eventID,
	}

	if err := s.db.Create(&attendance).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyJoined
		}
		return err
	}

	return nil
}

// Count reports the number of distinct users who joined the event.
// Zero attendees is an ordinary zero, not an error.
func (s *AttendanceStore) Count(eventID uint) (int64, error) {
	var count int64

	err := s.db.Model(&models.Attendance{}).
		Where("event_id = ?", eventID).
		Count(&count).Error

	if err != nil {
		return 0, err
	}

	return count, nil
}

// Counts computes attendee counts for a batch of events in one grouped
// query, so listing pages do not issue a count per row. Events with no
// attendees simply have no entry; callers read missing keys as 0.
func (s *AttendanceStore) Counts(eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))

	if len(eventIDs) == 0 {
		return counts, nil
	}

	type row struct {
		EventID uint
		Total   int64
	}

	var rows []row

	err := s.db.Model(&models.Attendance{}).
		Select("event_id, COUNT(*) AS total").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error

	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		counts[r.EventID] = r.Total
	}

	return counts, nil
}

// Attendees returns the users who joined the event, with their contact
// fields.
func (s *AttendanceStore) Attendees(eventID uint) ([]models.User, error) {
	var users []models.User

	err := s.db.Model(&models.User{}).
		Joins("JOIN attendances ON attendances.user_id = users.id").
		Where("attendances.event_id = ? AND attendances.deleted_at IS NULL", eventID).
		Order("attendances.created_at ASC").
		Find(&users).Error

	if err != nil {
		return nil, err
	}

	return users, nil
}

// JoinedEvents lists the events a user has joined. Dangling references
// cannot survive event deletion since attendances are removed with the
// event, so the join is total.
func (s *AttendanceStore) JoinedEvents(userID uint) ([]models.Event, error) {
	var events []models.Event

	err := s.db.Model(&models.Event{}).
		Joins("JOIN attendances ON attendances.event_id = events.id").
		Where("attendances.user_id = ? AND attendances.deleted_at IS NULL", userID).
		Order("events.date ASC, events.id ASC").
		Find(&events).Error

	if err != nil {
		return nil, err
	}

	return events, nil
}
