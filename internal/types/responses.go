package types

import (
	"time"

	"github.com/Simonbn1/eksamen/internal/models"
)

type UserResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Picture  string `json:"picture,omitempty"`
	Provider string `json:"provider,omitempty"`
}

func NewUserResponse(user models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Name:     user.Name,
		Email:    user.Email,
		Picture:  user.Picture,
		Provider: user.Provider,
	}
}

type EventResponse struct {
	ID             uint      `json:"id"`
	Title          string    `json:"title"`
	Date           time.Time `json:"date"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Place          string    `json:"place"`
	OrganizerID    *uint     `json:"organizerId,omitempty"`
	AttendeesCount *int64    `json:"attendeesCount,omitempty"`
}

func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:          event.ID,
		Title:       event.Title,
		Date:        event.Date,
		Description: event.Description,
		Category:    event.Category,
		Place:       event.Place,
		OrganizerID: event.OrganizerID,
	}
}
