package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Simonbn1/eksamen/internal/store"
	"github.com/Simonbn1/eksamen/internal/types"
	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	users       *store.UserStore
	attendances *store.AttendanceStore
}

func NewUserHandler(users *store.UserStore, attendances *store.AttendanceStore) *UserHandler {
	return &UserHandler{users: users, attendances: attendances}
}

// JoinedEvents serves both route forms the client uses:
// GET /api/user/events/:userId and GET /api/user/joined-events?userId=.
// A user with no joins (or no record at all) gets an empty array.
func (h *UserHandler) JoinedEvents(ctx *gin.Context) {
	ref := ctx.Param("userId")

	if ref == "" {
		ref = ctx.Query("userId")
	}

	if ref == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	user, err := h.users.Lookup(ref)

	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			ctx.JSON(http.StatusOK, []types.EventResponse{})
			return
		}
		log.Printf("Failed to look up user: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve joined events"})
		return
	}

	events, err := h.attendances.JoinedEvents(user.ID)

	if err != nil {
		log.Printf("Failed to list joined events: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve joined events"})
		return
	}

	response := make([]types.EventResponse, 0, len(events))

	for _, event := range events {
		response = append(response, types.NewEventResponse(event))
	}

	ctx.JSON(http.StatusOK, response)
}
