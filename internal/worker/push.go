package worker

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okellodaniel/stackbase/internal/jobs"
)

// PushHandler terminates the broker's push deliveries. 2xx acknowledges
// the message; any other status triggers the broker's redelivery.
type PushHandler struct {
	dispatcher *Dispatcher
}

func NewPushHandler(d *Dispatcher) *PushHandler {
	return &PushHandler{dispatcher: d}
}

func (h *PushHandler) Handle(ctx *gin.Context) {
	var req jobs.PushRequest

	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "invalid_push",
				"message": "Invalid push delivery envelope",
			},
		})
		return
	}

	body, err := req.Body()

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "invalid_push",
				"message": "Missing message data",
			},
		})
		return
	}

	err = h.dispatcher.Dispatch(ctx.Request.Context(), body)

	if err != nil {
		// the broker redelivers on any non-2xx; the 400/500 split only
		// separates messages that can never succeed from transient
		// handler failures in logs and metrics
		if errors.Is(err, jobs.ErrInvalidJobPayload) || errors.Is(err, jobs.ErrInvalidJobType) || errors.Is(err, ErrNoHandler) {
			ctx.JSON(http.StatusBadRequest, gin.H{
				"error": gin.H{
					"code":    "unroutable_message",
					"message": err.Error(),
				},
			})
			return
		}

		ctx.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "delivery_failed",
				"message": "Job handler failed",
			},
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}
