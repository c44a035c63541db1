package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/Simonbn1/eksamen/internal/models"
	"github.com/Simonbn1/eksamen/internal/store"
	"github.com/Simonbn1/eksamen/internal/types"
	"github.com/Simonbn1/eksamen/internal/utils"
	"github.com/gin-gonic/gin"
)

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	Place       string `json:"place" binding:"required"`
}

type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Place       *string `json:"place"`
}

type EventDetailResponse struct {
	types.EventResponse
	OrganizerName  string `json:"organizerName,omitempty"`
	OrganizerPhoto string `json:"organizerPhoto,omitempty"`
}

type AttendeesResponse struct {
	Count     int64                `json:"count"`
	Attendees []types.UserResponse `json:"attendees"`
}

type EventHandler struct {
	events      *store.EventStore
	users       *store.UserStore
	attendances *store.AttendanceStore
	hub         *Hub
}

func NewEventHandler(events *store.EventStore, users *store.UserStore, attendances *store.AttendanceStore, hub *Hub) *EventHandler {
	return &EventHandler{
		events:      events,
		users:       users,
		attendances: attendances,
		hub:         hub,
	}
}

// parseEventTime accepts the two formats the client sends: a bare date
// from <input type="date"> or a full RFC 3339 timestamp. A bare date
// used as an upper bound is widened to the end of that day so the
// bound stays inclusive.
func parseEventTime(value string, endOfDay bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse("2006-01-02", value)

	if err != nil {
		return time.Time{}, err
	}

	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}

	return t, nil
}

func (h *EventHandler) ListEvents(ctx *gin.Context) {
	var filter store.EventFilter

	filter.Category = ctx.Query("category")
	filter.Place = ctx.Query("place")
	filter.Search = ctx.Query("search")

	if raw := ctx.Query("startTime"); raw != "" {
		t, err := parseEventTime(raw, false)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid startTime: expected YYYY-MM-DD or RFC 3339"})
			return
		}
		filter.StartTime = &t
	}

	if raw := ctx.Query("endTime"); raw != "" {
		t, err := parseEventTime(raw, true)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid endTime: expected YYYY-MM-DD or RFC 3339"})
			return
		}
		filter.EndTime = &t
	}

	events, err := h.events.List(filter)

	if err != nil {
		log.Printf("Failed to list events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	ids := make([]uint, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}

	counts, err := h.attendances.Counts(ids)

	if err != nil {
		log.Printf("Failed to count attendees: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve events"})
		return
	}

	response := make([]types.EventResponse, 0, len(events))

	for _, event := range events {
		item := types.NewEventResponse(event)
		count := counts[event.ID]
		item.AttendeesCount = &count
		response = append(response, item)
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *EventHandler) CreateEvent(ctx *gin.Context) {
	var body CreateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	date, err := parseEventTime(body.Date, false)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: expected YYYY-MM-DD or RFC 3339"})
		return
	}

	event := models.Event{
		Title:       body.Title,
		Date:        date,
		Description: body.Description,
		Category:    body.Category,
		Place:       body.Place,
	}

	// The creator becomes the organizer when the request carries a
	// session; anonymous submissions stay organizer-less.
	if userID, err := utils.GetCurrentUserID(ctx); err == nil {
		event.OrganizerID = &userID
	}

	if err := h.events.Create(&event); err != nil {
		if errors.Is(err, store.ErrDuplicateTitle) {
			ctx.JSON(http.StatusConflict, gin.H{"message": "Event with the same title already exists"})
			return
		}
		log.Printf("Failed to create event: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create event"})
		return
	}

	response := types.NewEventResponse(event)
	h.hub.Broadcast(response)

	ctx.JSON(http.StatusCreated, response)
}

func (h *EventHandler) GetEvent(ctx *gin.Context) {
	event, err := h.events.Resolve(ctx.Param("identifier"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to fetch event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}

	count, err := h.attendances.Count(event.ID)

	if err != nil {
		log.Printf("Failed to count attendees: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		return
	}

	response := EventDetailResponse{EventResponse: types.NewEventResponse(event)}
	response.AttendeesCount = &count

	if event.OrganizerID != nil {
		// A stale organizer reference renders as an event without
		// organizer info rather than an error.
		if organizer, err := h.users.GetByID(*event.OrganizerID); err == nil {
			response.OrganizerName = organizer.Name
			response.OrganizerPhoto = organizer.Picture
		}
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *EventHandler) UpdateEvent(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("identifier"), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var body UpdateEventRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if body.Title != nil {
		updates["title"] = *body.Title
	}

	if body.Date != nil {
		date, err := parseEventTime(*body.Date, false)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date: expected YYYY-MM-DD or RFC 3339"})
			return
		}
		updates["date"] = date
	}

	if body.Description != nil {
		updates["description"] = *body.Description
	}

	if body.Category != nil {
		updates["category"] = *body.Category
	}

	if body.Place != nil {
		updates["place"] = *body.Place
	}

	event, err := h.events.Update(uint(id), updates)

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, store.ErrDuplicateTitle):
			ctx.JSON(http.StatusConflict, gin.H{"message": "Event with the same title already exists"})
		default:
			log.Printf("Failed to update event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update event"})
		}
		return
	}

	ctx.JSON(http.StatusOK, types.NewEventResponse(event))
}

func (h *EventHandler) DeleteEvent(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("identifier"), 10, 64)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := h.events.Delete(uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to delete event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func (h *EventHandler) GetAttendees(ctx *gin.Context) {
	event, err := h.events.Resolve(ctx.Param("identifier"))

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		} else {
			log.Printf("Failed to fetch event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve event"})
		}
		return
	}

	attendees, err := h.attendances.Attendees(event.ID)

	if err != nil {
		log.Printf("Failed to list attendees: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve attendees"})
		return
	}

	response := AttendeesResponse{
		Count:     int64(len(attendees)),
		Attendees: make([]types.UserResponse, 0, len(attendees)),
	}

	for _, attendee := range attendees {
		response.Attendees = append(response.Attendees, types.NewUserResponse(attendee))
	}

	ctx.JSON(http.StatusOK, response)
}
