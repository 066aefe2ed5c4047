package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/dollancemedia/vapegaurd/docs"
	"github.com/dollancemedia/vapegaurd/internal/domain"
	"github.com/dollancemedia/vapegaurd/internal/dto"
	"github.com/dollancemedia/vapegaurd/internal/service"
	"github.com/dollancemedia/vapegaurd/internal/ws"
)

type Handler struct {
	eventService service.EventServicer
	hub          *ws.Hub
	router       *gin.Engine
	log          *zap.Logger
}

// NewHandler creates the HTTP handler. hub is optional; when nil the /ws
// route is not registered.
func NewHandler(eventService service.EventServicer, hub *ws.Hub, log *zap.Logger) *Handler {
	h := &Handler{
		eventService: eventService,
		hub:          hub,
		router:       gin.Default(),
		log:          log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.POST("/events", h.createEvent)
	h.router.GET("/events", h.listEvents)
	h.router.GET("/events/:id", h.getEvent)
	h.router.PUT("/events/:id/verify", h.verifyEvent)
	h.router.POST("/events/:id/feedback", h.attachFeedback)
	h.router.POST("/sensors/data", h.receiveSensorData)
	h.router.GET("/sensors/status", h.sensorStatus)
	h.router.GET("/devices", h.deviceSummaries)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	h.router.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if h.hub != nil {
		h.router.GET("/ws", h.serveWS)
	}
}

// writeError maps the error taxonomy to HTTP responses
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrClassifier):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "classifier_error",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrStore):
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "storage_error",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

// healthCheck handles health check requests
// @Summary Health check
// @Description Check if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// createEvent handles POST /events
// @Summary Ingest a sensor reading
// @Description Classify a raw sensor reading and store the resulting event
// @Tags events
// @Accept json
// @Produce json
// @Param reading body dto.SensorReadingRequest true "Raw sensor reading"
// @Success 201 {object} domain.Event
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events [post]
func (h *Handler) createEvent(c *gin.Context) {
	var req dto.SensorReadingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid reading request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	event, err := h.eventService.IngestReading(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to ingest reading",
			zap.String("device_id", req.DeviceID),
			zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// listEvents handles GET /events
// @Summary List recent events
// @Description Most recent events, descending by timestamp
// @Tags events
// @Produce json
// @Param limit query int false "Maximum number of events" default(50)
// @Param since query string false "Only events after this RFC3339 instant"
// @Success 200 {array} domain.Event
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events [get]
func (h *Handler) listEvents(c *gin.Context) {
	var query dto.ListEventsQuery

	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	events, err := h.eventService.ListEvents(c.Request.Context(), &query)
	if err != nil {
		h.log.Error("Failed to list events", zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// getEvent handles GET /events/{id}
// @Summary Get a single event
// @Tags events
// @Produce json
// @Param id path string true "Event id"
// @Success 200 {object} domain.Event
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events/{id} [get]
func (h *Handler) getEvent(c *gin.Context) {
	event, err := h.eventService.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// verifyEvent handles PUT /events/{id}/verify
// @Summary Set the verification flag on an event
// @Description Unconditionally overwrite the verified flag; last writer wins
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param body body dto.VerifyEventRequest true "Verification flag"
// @Success 200 {object} domain.Event
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events/{id}/verify [put]
func (h *Handler) verifyEvent(c *gin.Context) {
	var req dto.VerifyEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	event, err := h.eventService.SetVerified(c.Request.Context(), c.Param("id"), *req.Verified)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// attachFeedback handles POST /events/{id}/feedback
// @Summary Attach feedback to an event
// @Description Store a free-form annotation and link it to the event
// @Tags events
// @Accept json
// @Produce json
// @Param id path string true "Event id"
// @Param body body object true "Free-form annotation payload"
// @Success 201 {object} domain.Feedback
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /events/{id}/feedback [post]
func (h *Handler) attachFeedback(c *gin.Context) {
	var data map[string]any

	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	feedback, err := h.eventService.AttachFeedback(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

// receiveSensorData handles POST /sensors/data
// @Summary Ingest a device-originated reading
// @Description Classify and store a reading pushed by an ESP32 device or the simulator
// @Tags sensors
// @Accept json
// @Produce json
// @Param reading body dto.SensorReadingRequest true "Raw sensor reading"
// @Success 201 {object} dto.SensorDataResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sensors/data [post]
func (h *Handler) receiveSensorData(c *gin.Context) {
	var req dto.SensorReadingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid sensor data request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	event, err := h.eventService.IngestReading(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to process sensor data",
			zap.String("device_id", req.DeviceID),
			zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SensorDataResponse{
		Status:  "success",
		EventID: event.ID.Hex(),
		Prediction: dto.PredictionData{
			Label:      event.PredictedType,
			Confidence: event.Confidence,
		},
	})
}

// sensorStatus handles GET /sensors/status
// @Summary Ingestion liveness signal
// @Description Count of events stored in the trailing hour
// @Tags sensors
// @Produce json
// @Success 200 {object} dto.SensorStatusResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sensors/status [get]
func (h *Handler) sensorStatus(c *gin.Context) {
	status, err := h.eventService.SensorStatus(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get sensor status", zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// deviceSummaries handles GET /devices
// @Summary Per-device activity summaries
// @Description Aggregate event history for every known device; unordered
// @Tags devices
// @Produce json
// @Success 200 {array} domain.DeviceSummary
// @Failure 500 {object} dto.ErrorResponse
// @Router /devices [get]
func (h *Handler) deviceSummaries(c *gin.Context) {
	summaries, err := h.eventService.DeviceSummaries(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get device summaries", zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// serveWS handles GET /ws
func (h *Handler) serveWS(c *gin.Context) {
	if err := ws.ServeWS(h.hub, c.Writer, c.Request, h.log); err != nil {
		// Upgrade failures already wrote a response.
		c.Abort()
	}
}
