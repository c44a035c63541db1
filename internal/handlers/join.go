package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/Simonbn1/eksamen/internal/store"
	"github.com/Simonbn1/eksamen/internal/types"
	"github.com/gin-gonic/gin"
)

type JoinRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type JoinHandler struct {
	joins *store.JoinCoordinator
}

func NewJoinHandler(joins *store.JoinCoordinator) *JoinHandler {
	return &JoinHandler{joins: joins}
}

// JoinEvent handles POST /api/join/:identifier. The identifier may be
// an event id or title; the body names the joining user.
func (h *JoinHandler) JoinEvent(ctx *gin.Context) {
	var body JoinRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "userId is required"})
		return
	}

	result, err := h.joins.Join(body.UserID, ctx.Param("identifier"))

	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
		case errors.Is(err, store.ErrAlreadyJoined):
			ctx.JSON(http.StatusConflict, gin.H{"message": "Already joined this event"})
		default:
			log.Printf("Failed to join event: %v", err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join event"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Joined event",
		"event":   types.NewEventResponse(result.Event),
		"user":    types.NewUserResponse(result.User),
	})
}
