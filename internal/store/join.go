package store

import "github.com/Simonbn1/eksamen/internal/models"

// JoinCoordinator ties the join operation together: resolve the event,
// resolve (or create) the user, then record the membership exactly once.
type JoinCoordinator struct {
	events      *EventStore
	users       *UserStore
	attendances *AttendanceStore
}

func NewJoinCoordinator(events *EventStore, users *UserStore, attendances *AttendanceStore) *JoinCoordinator {
	return &JoinCoordinator{
		events:      events,
		users:       users,
		attendances: attendances,
	}
}

type JoinResult struct {
	User  models.User
	Event models.Event
}

// Join registers userRef as attending the event named by identifier
// (id or title). The event is resolved before the user so a join
// against a missing event never creates a user record as a side
// effect. Repeat joins report ErrAlreadyJoined.
func (c *JoinCoordinator) Join(userRef, identifier string) (JoinResult, error) {
	event, err := c.events.Resolve(identifier)

	if err != nil {
		return JoinResult{}, err
	}

	user, err := c.users.Resolve(userRef)

	if err != nil {
		return JoinResult{}, err
	}

	if err := c.attendances.Add(user.ID, event.ID); err != nil {
		return JoinResult{}, err
	}

	return JoinResult{User: user, Event: event}, nil
}
