package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	stderrors "github.com/hemal8976/personal-webhook/internal/common/errors"
	"github.com/hemal8976/personal-webhook/internal/common/logger"
	"github.com/hemal8976/personal-webhook/internal/common/metrics"
	"github.com/hemal8976/personal-webhook/internal/common/observability"
	"github.com/hemal8976/personal-webhook/internal/common/validation"
	"github.com/hemal8976/personal-webhook/internal/meeting"
	"github.com/hemal8976/personal-webhook/internal/orchestrator"
)

const eventTypeMeeting = "meeting"

// maxBodyBytes bounds the inbound webhook body; transcripts are large but
// not unbounded.
const maxBodyBytes = 10 << 20

// Processor runs the orchestration pipeline for one event.
type Processor interface {
	Process(ctx context.Context, ev *meeting.Event) (*orchestrator.Result, error)
}

// Info describes the running service for the /info endpoint.
type Info struct {
	Service      string   `json:"service"`
	Version      string   `json:"version"`
	Environment  string   `json:"environment"`
	Routes       []string `json:"routes"`
	Extraction   bool     `json:"extractionConfigured"`
	TaskCreation bool     `json:"taskCreationEnabled"`
}

type WebhookHandler struct {
	processor Processor
	logger    logger.Logger
	obs       *observability.Observability
	info      Info
}

func NewWebhookHandler(processor Processor, info Info, obs *observability.Observability, log logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		processor: processor,
		logger:    log,
		obs:       obs,
		info:      info,
	}
}

type webhookResponse struct {
	Accepted bool                 `json:"accepted"`
	Result   *orchestrator.Result `json:"result,omitempty"`
}

type errorResponse struct {
	Error *stderrors.StandardError `json:"error"`
}

// HandleMeetingWebhook ingests one completed-meeting notification.
func (h *WebhookHandler) HandleMeetingWebhook(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	metrics.WebhooksReceived.WithLabelValues(eventTypeMeeting).Inc()

	log := h.logger.WithFields(map[string]interface{}{
		"requestId": GetRequestID(r.Context()),
	})

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r.Context(), log, stderrors.NewInvalidPayloadError(err.Error()))
		return
	}

	if stdErr := h.validatePayload(body); stdErr != nil {
		h.fail(w, r.Context(), log, stdErr)
		return
	}

	var ev meeting.Event
	if err := json.Unmarshal(body, &ev); err != nil {
		h.fail(w, r.Context(), log, stderrors.NewInvalidPayloadError(err.Error()))
		return
	}

	result, err := h.processor.Process(r.Context(), &ev)
	if err != nil {
		stdErr := stderrors.AsStandardError(err, stderrors.ErrCodeRemoteUnexpected)
		h.fail(w, r.Context(), log, stdErr)
		return
	}

	metrics.WebhookDuration.WithLabelValues(eventTypeMeeting).Observe(time.Since(start).Seconds())
	if h.obs != nil {
		outcome := "unmatched"
		if result.RouteMatched {
			outcome = "routed"
		}
		h.obs.RecordEventProcessed(r.Context(), outcome)
		h.obs.RecordEventDuration(r.Context(), time.Since(start))
	}

	writeJSON(w, http.StatusOK, webhookResponse{Accepted: true, Result: result})
}

// validatePayload enforces the structural contract: a JSON object with at
// least one property. Field-level absence is handled downstream.
func (h *WebhookHandler) validatePayload(body []byte) *stderrors.StandardError {
	result, err := validation.Validate(body, validation.MeetingEventSchema())
	if err != nil {
		return stderrors.NewInvalidPayloadError(err.Error())
	}
	if result.Valid {
		return nil
	}

	var asMap map[string]interface{}
	if json.Unmarshal(body, &asMap) == nil && len(asMap) == 0 {
		return stderrors.NewEmptyPayloadError()
	}
	return stderrors.NewInvalidPayloadError(result.ErrorSummary())
}

func (h *WebhookHandler) fail(w http.ResponseWriter, ctx context.Context, log logger.Logger, stdErr *stderrors.StandardError) {
	metrics.WebhooksFailed.WithLabelValues(eventTypeMeeting, string(stdErr.Code)).Inc()
	if h.obs != nil {
		h.obs.RecordEventProcessed(ctx, "failed")
	}
	log.Error("webhook processing failed", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
	writeJSON(w, stdErr.HTTPStatus(), errorResponse{Error: stdErr})
}

// HandleHealth is a liveness probe.
func (h *WebhookHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": h.info.Service,
		"version": h.info.Version,
	})
}

// HandleInfo reports the service identity and its configured routes.
func (h *WebhookHandler) HandleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.info)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
