package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/diewo77/sms-api/httpx"
	"github.com/diewo77/sms-api/internal/query"
)

// maxBodyBytes bounds every JSON request body.
const maxBodyBytes = 1 << 20

// QueryExecutor runs query router requests.
type QueryExecutor interface {
	Execute(ctx context.Context, req query.Request) (any, error)
	MeetingReport(ctx context.Context, meetingID int64) (*query.MeetingReport, error)
}

type QueryHandler struct {
	router QueryExecutor
}

func NewQueryHandler(router QueryExecutor) *QueryHandler {
	return &QueryHandler{router: router}
}

// Run handles POST /api/query.
func (h *QueryHandler) Run(w http.ResponseWriter, r *http.Request) {
	req, err := query.DecodeRequest(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	data, err := h.router.Execute(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, data)
}

// MeetingReport handles GET /meeting/report_data?meetingId=.
func (h *QueryHandler) MeetingReport(w http.ResponseWriter, r *http.Request) {
	raw := strings.TrimSpace(r.URL.Query().Get("meetingId"))
	if raw == "" {
		httpx.WriteError(w, r, errors.NewNotValid(nil, "missing required parameter: meetingId"))
		return
	}
	meetingID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		httpx.WriteError(w, r, errors.NewNotValid(nil, "invalid parameter: meetingId (invalid)"))
		return
	}
	report, err := h.router.MeetingReport(r.Context(), meetingID)
	if err != nil {
		httpx.WriteError(w, r, err)
		return
	}
	httpx.OK(w, report)
}
