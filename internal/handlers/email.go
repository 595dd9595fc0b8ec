package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/diewo77/sms-api/httpx"
	"github.com/diewo77/sms-api/internal/email"
	"github.com/diewo77/sms-api/internal/models"
	"github.com/diewo77/sms-api/internal/query"
)

// RecentLister lists recent mailbox messages.
type RecentLister interface {
	Recent(ctx context.Context, limit int) ([]email.Message, error)
}

// TrackingStore reads and writes email tracking records.
type TrackingStore interface {
	WasProcessed(ctx context.Context, internetMessageID string) (email.Status, error)
	Track(ctx context.Context, rec models.EmailQuoteTracking) error
}

type EmailHandler struct {
	mail    RecentLister
	tracker TrackingStore
}

// NewEmailHandler returns the email endpoints. mail may be nil when no
// mailbox is configured; /email/recent then fails with a server error.
func NewEmailHandler(mail RecentLister, tracker TrackingStore) *EmailHandler {
	return &EmailHandler{mail: mail, tracker: tracker}
}

// Recent handles GET /email/recent?limit=.
func (h *EmailHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httpx.WriteError(w, r, errors.NewNotValid(nil, "invalid parameter: limit (must_be_positive)"))
			return
		}
		limit = n
	}
	if h.mail == nil {
		httpx.WriteError(w, r, errors.New("mailbox is not configured"))
		return
	}
	msgs, err := h.mail.Recent(r.Context(), limit)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, msgs)
}

// WasProcessed handles GET /email/was_processed?internetMessageId=.
// The status is returned as is, without the ok envelope.
func (h *EmailHandler) WasProcessed(w http.ResponseWriter, r *http.Request) {
	st, err := h.tracker.WasProcessed(r.Context(), r.URL.Query().Get("internetMessageId"))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, st)
}

// Track handles POST /email/track.
func (h *EmailHandler) Track(w http.ResponseWriter, r *http.Request) {
	params, err := query.DecodeParams(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	rec, err := query.TrackingRecord(params)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	if err := h.tracker.Track(r.Context(), rec); err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, nil)
}
