// Package query maps a queryType to one parameterized operation on the
// business database.
package query

import (
	"context"
	"time"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/logging"
)

type handlerFunc func(r *Router, ctx context.Context, p Params) (any, error)

type handler struct {
	write bool
	fn    handlerFunc
}

var handlers = map[QueryType]handler{
	CustomersSearch:              {fn: searchCustomers},
	QuotesByCustomer:             {fn: quotesByCustomer},
	QuotesCountByBranchStatus:    {fn: quotesCountByBranchStatus},
	AssetsByCustomer:             {fn: assetsByCustomer},
	AssetsSearchGlobal:           {fn: searchAssetsGlobal},
	CustomerContacts:             {fn: customerContacts},
	MeetingsByCustomer:           {fn: meetingsByCustomer},
	MeetingKeyTopics:             {fn: meetingKeyTopics},
	MeetingSpecOps:               {fn: meetingSpecOps},
	MeetingActions:               {fn: meetingActions},
	CreateQuoteFromAsset:         {write: true, fn: createQuoteFromAsset},
	CreateMeeting:                {write: true, fn: createMeeting},
	CreateMeetingKeyTopic:        {write: true, fn: createMeetingKeyTopic},
	CreateMeetingSpecOp:          {write: true, fn: createMeetingSpecOp},
	CreateMeetingAction:          {write: true, fn: createMeetingAction},
	CreateMeetingStaffAttendance: {write: true, fn: createMeetingStaffAttendance},
	CreateMeetingCustAttendance:  {write: true, fn: createMeetingCustAttendance},
}

// Router dispatches query requests to their handlers.
type Router struct {
	db     *gorm.DB
	quotes QuoteCreator
}

// NewRouter returns a router over db. A nil QuoteCreator selects the
// stored procedure.
func NewRouter(db *gorm.DB, quotes QuoteCreator) *Router {
	if quotes == nil {
		quotes = ProcedureQuoteCreator{}
	}
	return &Router{db: db, quotes: quotes}
}

// Execute runs the handler named by req with its merged parameters.
func (r *Router) Execute(ctx context.Context, req Request) (any, error) {
	qt, err := ParseQueryType(req.QueryType)
	if err != nil {
		return nil, err
	}
	return r.Dispatch(ctx, qt, req.Merged())
}

// Dispatch runs the handler for qt.
func (r *Router) Dispatch(ctx context.Context, qt QueryType, p Params) (any, error) {
	h, ok := handlers[qt]
	if !ok {
		return nil, errors.NotSupportedf("queryType %q", qt)
	}
	start := time.Now()
	data, err := h.fn(r, ctx, p)
	entry := logging.WithField("queryType", qt).WithField("duration", time.Since(start))
	if err != nil {
		entry.WithError(err).Debug("query failed")
		return nil, err
	}
	entry.Debug("query executed")
	return data, nil
}

// read returns a session for read-only statements bound to ctx.
func (r *Router) read(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// write runs fn in one transaction. The transaction is rolled back when fn
// fails and the store error is logged and annotated.
func (r *Router) write(ctx context.Context, op string, fn func(tx *gorm.DB) error) error {
	err := r.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		logging.WithError(err).WithField("operation", op).Error("write rolled back")
		return errors.Annotatef(err, "%s", op)
	}
	return nil
}

// nonNil keeps empty results marshalling as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
