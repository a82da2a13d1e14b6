package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Mahmoudshahin94/webhook-event-service/internal/dto"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/service"
	"github.com/Mahmoudshahin94/webhook-event-service/internal/store"
)

type Handler struct {
	webhookService service.WebhookServicer
	router         *gin.Engine
	log            *zap.Logger
}

func NewHandler(webhookService service.WebhookServicer, log *zap.Logger) *Handler {
	h := &Handler{
		webhookService: webhookService,
		router:         gin.Default(),
		log:            log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/webhooks", h.receiveWebhook)
	h.router.GET("/webhooks", h.listEvents)
	h.router.GET("/webhooks/:id", h.getEvent)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// receiveWebhook handles POST /webhooks. The source is read from the query
// string, falling back to a "source" field in the payload; the payload itself
// is stored opaque, without schema validation.
func (h *Handler) receiveWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "failed to read request body",
		})
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}
	if !json.Valid(body) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "request body is not valid JSON",
		})
		return
	}

	source := c.Query("source")
	if source == "" {
		var probe struct {
			Source string `json:"source"`
		}
		_ = json.Unmarshal(body, &probe)
		source = probe.Source
	}
	if source == "" {
		source = "unknown"
	}

	event, err := h.webhookService.Receive(c.Request.Context(), source, body)
	if err != nil {
		h.log.Error("Failed to receive webhook",
			zap.String("source", source),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusAccepted, dto.ReceiveWebhookResponse{
		Message: "Webhook received successfully",
		EventID: event.ID,
		Status:  "queued",
	})
}

// listEvents handles GET /webhooks
func (h *Handler) listEvents(c *gin.Context) {
	events, err := h.webhookService.List(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to list events", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	response := dto.ListEventsResponse{
		Count:  len(events),
		Events: make([]dto.EventResponse, 0, len(events)),
	}
	for _, event := range events {
		response.Events = append(response.Events, dto.NewEventResponse(event))
	}

	c.JSON(http.StatusOK, response)
}

// getEvent handles GET /webhooks/:id
func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.webhookService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{
				Error:   "not_found",
				Message: "event not found",
			})
			return
		}
		h.log.Error("Failed to get event",
			zap.String("event_id", c.Param("id")),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, dto.NewEventResponse(event))
}
