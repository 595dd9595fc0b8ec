package query

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/juju/errors"
)

// QueryType names one handler of the router.
type QueryType string

const (
	CustomersSearch              QueryType = "customers_search"
	QuotesByCustomer             QueryType = "quotes_by_customer"
	QuotesCountByBranchStatus    QueryType = "quotes_count_by_branch_status"
	AssetsByCustomer             QueryType = "assets_by_customer"
	AssetsSearchGlobal           QueryType = "assets_search_global"
	CreateQuoteFromAsset         QueryType = "create_quote_from_asset"
	CustomerContacts             QueryType = "customer_contacts"
	MeetingsByCustomer           QueryType = "meetings_by_customer"
	MeetingKeyTopics             QueryType = "meeting_key_topics"
	MeetingSpecOps               QueryType = "meeting_spec_ops"
	MeetingActions               QueryType = "meeting_actions"
	CreateMeeting                QueryType = "create_meeting"
	CreateMeetingKeyTopic        QueryType = "create_meeting_key_topic"
	CreateMeetingSpecOp          QueryType = "create_meeting_spec_op"
	CreateMeetingAction          QueryType = "create_meeting_action"
	CreateMeetingStaffAttendance QueryType = "create_meeting_alatas_attendance"
	CreateMeetingCustAttendance  QueryType = "create_meeting_cust_attendance"
)

// QueryTypes lists every supported query type.
var QueryTypes = []QueryType{
	CustomersSearch, QuotesByCustomer, QuotesCountByBranchStatus,
	AssetsByCustomer, AssetsSearchGlobal, CreateQuoteFromAsset,
	CustomerContacts, MeetingsByCustomer, MeetingKeyTopics, MeetingSpecOps,
	MeetingActions, CreateMeeting, CreateMeetingKeyTopic, CreateMeetingSpecOp,
	CreateMeetingAction, CreateMeetingStaffAttendance, CreateMeetingCustAttendance,
}

// ParseQueryType returns the QueryType named s or a NotSupported error.
func ParseQueryType(s string) (QueryType, error) {
	qt := QueryType(s)
	if _, ok := handlers[qt]; !ok {
		return "", errors.NotSupportedf("queryType %q", s)
	}
	return qt, nil
}

// IsWrite reports whether the query type mutates the store.
func (qt QueryType) IsWrite() bool {
	h, ok := handlers[qt]
	return ok && h.write
}

// Request is the body of POST /api/query: a query type, an optional
// parameter bag and the flat fields older clients send instead of the bag.
type Request struct {
	QueryType string
	Params    Params
	Legacy    Params
}

// DecodeRequest reads a JSON request body. Numbers keep their literal form.
func DecodeRequest(body io.Reader) (Request, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return Request{}, errors.BadRequestf("invalid JSON body: %v", err)
	}
	return requestFromMap(raw)
}

// ParseRequest decodes a request from raw JSON bytes.
func ParseRequest(b []byte) (Request, error) {
	return DecodeRequest(bytes.NewReader(b))
}

// ParseParams decodes a bare parameter bag, as given on the command line.
func ParseParams(b []byte) (Params, error) {
	return DecodeParams(bytes.NewReader(b))
}

// DecodeParams reads a JSON object into a parameter bag. Numbers keep their
// literal form.
func DecodeParams(body io.Reader) (Params, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()
	var p Params
	if err := dec.Decode(&p); err != nil {
		return nil, errors.BadRequestf("invalid JSON body: %v", err)
	}
	if p == nil {
		p = Params{}
	}
	return p, nil
}

func requestFromMap(raw map[string]any) (Request, error) {
	var req Request
	switch qt := raw["queryType"].(type) {
	case string:
		req.QueryType = qt
	case nil:
		return Request{}, errors.NewNotValid(nil, "missing required parameter: queryType")
	default:
		return Request{}, errors.BadRequestf("queryType must be a string")
	}
	switch p := raw["params"].(type) {
	case map[string]any:
		req.Params = Params(p)
	case nil:
		req.Params = Params{}
	default:
		return Request{}, errors.BadRequestf("params must be an object")
	}
	req.Legacy = make(Params)
	for _, k := range LegacyFields {
		if v, ok := raw[k]; ok {
			req.Legacy[k] = v
		}
	}
	return req, nil
}

// Merged returns the parameter bag with the legacy fields folded in.
func (r Request) Merged() Params {
	return Merge(r.Params, r.Legacy)
}
