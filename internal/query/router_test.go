package query

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/db"
	"github.com/diewo77/sms-api/internal/dbtest"
	"github.com/diewo77/sms-api/internal/models"
)

func ptr[T any](v T) *T { return &v }

type fakeQuoteCreator struct {
	calls  int
	result QuoteResult
	err    error
	last   QuoteRequest
}

func (f *fakeQuoteCreator) CreateQuote(_ context.Context, tx *gorm.DB, req QuoteRequest) (QuoteResult, error) {
	f.calls++
	f.last = req
	// a row written inside the transaction must disappear on failure
	if err := tx.Create(&models.Quote{ID: 9000 + int64(f.calls)}).Error; err != nil {
		return QuoteResult{}, err
	}
	return f.result, f.err
}

func newTestRouter(t *testing.T) (*Router, *gorm.DB, *fakeQuoteCreator) {
	t.Helper()
	conn := dbtest.Open(t)
	quotes := &fakeQuoteCreator{result: QuoteResult{ID: 501, Number: "AUK25Q419935"}}
	return NewRouter(conn, quotes), conn, quotes
}

func toJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestQueryTypesAreClosed(t *testing.T) {
	assert.Len(t, handlers, len(QueryTypes))
	for _, qt := range QueryTypes {
		got, err := ParseQueryType(string(qt))
		require.NoError(t, err)
		assert.Equal(t, qt, got)
	}
	assert.True(t, CreateMeetingAction.IsWrite())
	assert.False(t, MeetingActions.IsWrite())
}

func TestUnsupportedQueryType(t *testing.T) {
	r, _, quotes := newTestRouter(t)
	for _, name := range []string{"", "drop_tables", "Customers_Search", "customers_search "} {
		_, err := r.Execute(context.Background(), Request{QueryType: name})
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, errors.NotSupported), name)
	}
	assert.Zero(t, quotes.calls)
}

func TestMissingRequiredParametersWriteNothing(t *testing.T) {
	r, conn, quotes := newTestRouter(t)
	ctx := context.Background()

	for _, qt := range QueryTypes {
		if qt == CustomersSearch {
			continue // every parameter is optional
		}
		t.Run(string(qt), func(t *testing.T) {
			_, err := r.Dispatch(ctx, qt, Params{})
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.NotValid), err.Error())
			assert.Contains(t, err.Error(), "missing required parameter")
		})
	}

	assert.Zero(t, quotes.calls)
	for _, m := range models.All() {
		table := m.(interface{ TableName() string }).TableName()
		assert.Zero(t, dbtest.Count(t, conn, table), table)
	}
}

func TestCustomersSearch(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	require.NoError(t, conn.Create([]models.Customer{
		{ID: 1, Name: "Acme Shipping", Email: ptr("ops@acme.test")},
		{ID: 2, Name: "Nordic Lines"},
		{ID: 3, Name: "Acme Tankers"},
	}).Error)

	data, err := r.Execute(context.Background(), Request{
		QueryType: string(CustomersSearch),
		Legacy:    Params{"name": "acme"},
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`[{"id":3,"name":"Acme Tankers","email":null},{"id":1,"name":"Acme Shipping","email":"ops@acme.test"}]`,
		toJSON(t, data))

	data, err = r.Dispatch(context.Background(), CustomersSearch, Params{"limit": json.Number("1")})
	require.NoError(t, err)
	require.Len(t, data, 1)
	assert.Equal(t, int64(3), data.([]models.Customer)[0].ID)
}

func TestQuotesCountByBranchStatusWithoutMatches(t *testing.T) {
	r, _, _ := newTestRouter(t)
	req, err := ParseRequest([]byte(`{"queryType":"quotes_count_by_branch_status","params":{"branch":"AUK","status":"Open"}}`))
	require.NoError(t, err)

	data, err := r.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"branch":"AUK","status":"Open","quotesCount":0,"totalAmount":0}]`, toJSON(t, data))
}

func TestQuotes(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	day := func(d int) *time.Time { v := time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC); return &v }
	require.NoError(t, conn.Create([]models.Quote{
		{ID: 1, Number: ptr("AUK25Q1"), Branch: ptr("AUK"), Status: ptr("Open"), TotalAmount: ptr(100.5), CustomerName: ptr("Acme Shipping"), CreatedOn: day(1)},
		{ID: 2, Number: ptr("AUK25Q2"), Branch: ptr("AUK"), Status: ptr("Open"), TotalAmount: ptr(200.0), CustomerName: ptr("Acme Tankers"), CreatedOn: day(3)},
		{ID: 3, Number: ptr("AUK25Q3"), Branch: ptr("AUK"), Status: ptr("Won"), TotalAmount: ptr(50.0), CustomerName: ptr("Acme Shipping"), CreatedOn: day(2)},
		{ID: 4, Number: ptr("SIN25Q1"), Branch: ptr("SIN"), Status: ptr("Open"), TotalAmount: ptr(70.0), CustomerName: ptr("Nordic Lines"), CreatedOn: day(4)},
	}).Error)
	ctx := context.Background()

	data, err := r.Dispatch(ctx, QuotesCountByBranchStatus, Params{"branch": "AUK", "status": "Open"})
	require.NoError(t, err)
	assert.Equal(t, []models.QuoteStats{{Branch: "AUK", Status: "Open", QuotesCount: 2, TotalAmount: 300.5}}, data)

	data, err = r.Dispatch(ctx, QuotesByCustomer, Params{"customerName": "acme"})
	require.NoError(t, err)
	var numbers []string
	for _, q := range data.([]models.Quote) {
		numbers = append(numbers, *q.Number)
	}
	assert.Equal(t, []string{"AUK25Q2", "AUK25Q3", "AUK25Q1"}, numbers)
}

func seedAssets(t *testing.T, conn *gorm.DB) {
	t.Helper()
	require.NoError(t, conn.Create([]models.Asset{
		{ID: 1, VesselName: ptr("Nordic Star"), CustomerID: ptr(int64(1)), Blocked: ptr(false), Country: ptr("NO")},
		{ID: 2, VesselName: ptr("Nordic Star II"), CustomerID: ptr(int64(1)), Blocked: ptr(false), Country: ptr("NO")},
		{ID: 3, VesselName: ptr("Nordic Star"), CustomerID: ptr(int64(2)), Blocked: ptr(false), Country: ptr("SE")},
		{ID: 4, VesselName: ptr("Baltic Dawn"), CustomerID: ptr(int64(1)), Blocked: ptr(true), Country: ptr("NO")},
	}).Error)
}

func assetIDs(t *testing.T, data any) []int64 {
	t.Helper()
	assets, ok := data.([]models.Asset)
	require.True(t, ok, "%T", data)
	ids := make([]int64, 0, len(assets))
	for _, a := range assets {
		ids = append(ids, a.ID)
	}
	return ids
}

func TestAssetsByCustomer(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	seedAssets(t, conn)
	ctx := context.Background()

	tests := []struct {
		name    string
		params  Params
		want    []int64
		ordered bool
	}{
		{"exact match never falls through", Params{"vesselName": "Nordic Star"}, []int64{1, 3}, false},
		{"exact match scoped to customer", Params{"vesselName": "Nordic Star", "customerId": json.Number("1")}, []int64{1}, true},
		{"substring fallback", Params{"vesselName": "nordic", "customerId": json.Number("1")}, []int64{2, 1}, true},
		{"customer only", Params{"customerId": "1"}, []int64{4, 2, 1}, true},
		{"blocked filter", Params{"customerId": json.Number("1"), "blocked": true}, []int64{4}, true},
		{"string flags", Params{"customerId": json.Number("1"), "blocked": "false", "country": "NO"}, []int64{2, 1}, true},
		{"limit", Params{"customerId": json.Number("1"), "limit": json.Number("2")}, []int64{4, 2}, true},
		{"no match", Params{"vesselName": "Titanic"}, []int64{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := r.Dispatch(ctx, AssetsByCustomer, tt.params)
			require.NoError(t, err)
			if tt.ordered {
				assert.Equal(t, tt.want, assetIDs(t, data))
			} else {
				assert.ElementsMatch(t, tt.want, assetIDs(t, data))
			}
		})
	}

	_, err := r.Dispatch(ctx, AssetsByCustomer, Params{"customerId": "one"})
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestAssetsSearchGlobal(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	seedAssets(t, conn)

	data, err := r.Dispatch(context.Background(), AssetsSearchGlobal, Params{"vesselName": "Nordic Star"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 2, 1}, assetIDs(t, data))
}

func TestCustomerContacts(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	require.NoError(t, conn.Create([]models.Contact{
		{ID: 1, CustomerID: 5, FullName: ptr("Zoe Hart"), Email: ptr("zoe@acme.test")},
		{ID: 2, CustomerID: 5, FullName: ptr("Adam Berg")},
		{ID: 3, CustomerID: 6, FullName: ptr("Other")},
	}).Error)

	data, err := r.Dispatch(context.Background(), CustomerContacts, Params{"customerId": json.Number("5")})
	require.NoError(t, err)
	contacts := data.([]models.Contact)
	require.Len(t, contacts, 2)
	assert.Equal(t, "Adam Berg", *contacts[0].FullName)
	assert.Equal(t, "Zoe Hart", *contacts[1].FullName)
}

func TestCreateMeetingAndList(t *testing.T) {
	r, _, _ := newTestRouter(t)
	ctx := context.Background()

	data, err := r.Dispatch(ctx, CreateMeeting, Params{
		"customerId":  json.Number("5"),
		"meetingDate": "2025-03-14",
		"assetId":     json.Number("3"),
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"meetingId":1,"customerId":5,"meetingDate":"2025-03-14","status":"Pending","assetId":3}`,
		toJSON(t, data))

	_, err = r.Dispatch(ctx, CreateMeeting, Params{
		"customerId":  json.Number("5"),
		"meetingDate": "2025-04-01",
		"status":      "Done",
		"createdBy":   "jane",
	})
	require.NoError(t, err)

	data, err = r.Dispatch(ctx, MeetingsByCustomer, Params{"customerId": json.Number("5")})
	require.NoError(t, err)
	meetings := data.([]models.Meeting)
	require.Len(t, meetings, 2)
	assert.Equal(t, "2025-04-01", meetings[0].Date.String())
	assert.Equal(t, "jane", meetings[0].CreatedBy)
	assert.Equal(t, models.DefaultCreatedBy, meetings[1].CreatedBy)
	assert.False(t, meetings[1].CreatedOn.IsZero())

	data, err = r.Dispatch(ctx, MeetingsByCustomer, Params{"customerId": json.Number("5"), "status": "Pending"})
	require.NoError(t, err)
	assert.Len(t, data, 1)

	_, err = r.Dispatch(ctx, CreateMeeting, Params{"customerId": json.Number("5"), "meetingDate": "next week"})
	assert.True(t, errors.Is(err, errors.NotValid))
}

func TestMeetingChildren(t *testing.T) {
	r, _, _ := newTestRouter(t)
	ctx := context.Background()

	data, err := r.Dispatch(ctx, CreateMeetingKeyTopic, Params{
		"meetingId": json.Number("7"), "keyTopic": "Dry dock planning", "position": json.Number("1"),
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"keyTopicId":1,"meetingId":7,"keyTopic":"Dry dock planning","position":1,"createdBy":"GPT_API"}`,
		toJSON(t, data))

	data, err = r.Dispatch(ctx, CreateMeetingSpecOp, Params{"meetingId": "7", "specOp": "Hull cleaning"})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"specOpId":1,"meetingId":7,"specOp":"Hull cleaning","position":null,"createdBy":"GPT_API"}`,
		toJSON(t, data))

	data, err = r.Dispatch(ctx, MeetingKeyTopics, Params{"meetingId": json.Number("7")})
	require.NoError(t, err)
	rows := data.([]db.Row)
	require.Len(t, rows, 1)
	assert.Equal(t, "fldCustMeetingKeyTopicID", rows[0][0].Name)
	topic, _ := rows[0].Get("fldCustMeetingKeyTopic")
	assert.Equal(t, "Dry dock planning", topic)

	data, err = r.Dispatch(ctx, MeetingSpecOps, Params{"meetingId": json.Number("7")})
	require.NoError(t, err)
	assert.Len(t, data, 1)

	data, err = r.Dispatch(ctx, MeetingKeyTopics, Params{"meetingId": json.Number("8")})
	require.NoError(t, err)
	assert.Equal(t, "[]", toJSON(t, data))
}

func TestCreateMeetingActionWithResponsible(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	ctx := context.Background()

	data, err := r.Dispatch(ctx, CreateMeetingAction, Params{
		"meetingId":   json.Number("7"),
		"description": "Send revised quote",
		"branch":      "AUK",
		"employeeId":  json.Number("42"),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"actionId":1,"meetingId":7,"description":"Send revised quote","position":null,
		"status":"Open","branch":"AUK","employeeId":42,"responsibleRecordId":1,"createdBy":"GPT_API"
	}`, toJSON(t, data))

	assert.Equal(t, int64(1), dbtest.Count(t, conn, "tblCustMeetingAction"))
	var resp models.MeetingActionResponsible
	require.NoError(t, conn.First(&resp).Error)
	assert.Equal(t, int64(42), resp.EmployeeIDBeforeMerge)
	assert.Equal(t, int64(1), resp.ActionID)

	data, err = r.Dispatch(ctx, MeetingActions, Params{"meetingId": json.Number("7")})
	require.NoError(t, err)
	rows := data.([]db.Row)
	require.Len(t, rows, 1)
	responsibles, _ := rows[0].Get("Responsibles")
	assert.Equal(t, "AUK:42", responsibles)
}

func TestCreateMeetingActionWithoutResponsible(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	data, err := r.Dispatch(context.Background(), CreateMeetingAction, Params{
		"meetingId": json.Number("7"), "description": "Call back", "branch": "AUK", "status": "Closed",
	})
	require.NoError(t, err)
	action := data.(createdAction)
	assert.Nil(t, action.ResponsibleRecordID)
	assert.Equal(t, "Closed", action.Status)
	assert.Zero(t, dbtest.Count(t, conn, "tblCustMeetingActionResp"))
}

func TestCreateMeetingActionEmptyBranchKeepsResponsible(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	data, err := r.Dispatch(context.Background(), CreateMeetingAction, Params{
		"meetingId":   json.Number("7"),
		"description": "Chase spares",
		"branch":      "",
		"employeeId":  json.Number("7"),
	})
	require.NoError(t, err)
	action := data.(createdAction)
	require.NotNil(t, action.Branch)
	assert.Equal(t, "", *action.Branch)
	assert.NotNil(t, action.ResponsibleRecordID)

	var resp models.MeetingActionResponsible
	require.NoError(t, conn.First(&resp).Error)
	assert.Equal(t, "", resp.Branch)
	assert.Equal(t, int64(7), resp.EmployeeID)
}

func TestCreateMeetingActionRollsBack(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	dbtest.FailInserts(t, conn, "tblCustMeetingActionResp")

	_, err := r.Dispatch(context.Background(), CreateMeetingAction, Params{
		"meetingId":   json.Number("7"),
		"description": "Send revised quote",
		"branch":      "AUK",
		"employeeId":  json.Number("42"),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, errors.NotValid))
	assert.Zero(t, dbtest.Count(t, conn, "tblCustMeetingAction"))
	assert.Zero(t, dbtest.Count(t, conn, "tblCustMeetingActionResp"))
}

func TestCreateAttendance(t *testing.T) {
	r, conn, _ := newTestRouter(t)
	ctx := context.Background()

	data, err := r.Dispatch(ctx, CreateMeetingStaffAttendance, Params{"meetingId": json.Number("7"), "employeeId": json.Number("42")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"alatasAttendanceId":1,"meetingId":7,"employeeId":42,"createdBy":"GPT_API"}`, toJSON(t, data))
	var staff models.MeetingStaffAttendance
	require.NoError(t, conn.First(&staff).Error)
	assert.Equal(t, int64(42), staff.EmployeeIDBeforeMerge)

	data, err = r.Dispatch(ctx, CreateMeetingCustAttendance, Params{"meetingId": json.Number("7"), "contactId": json.Number("3"), "createdBy": "jane"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"custAttendanceId":1,"meetingId":7,"contactId":3,"createdBy":"jane"}`, toJSON(t, data))
}

func TestCreateQuoteFromAsset(t *testing.T) {
	r, conn, quotes := newTestRouter(t)

	data, err := r.Dispatch(context.Background(), CreateQuoteFromAsset, Params{
		"customerId":     json.Number("5"),
		"assetId":        json.Number("3"),
		"branch":         "AUK",
		"relationshipId": json.Number("11"),
		"notes":          "from email",
	})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"quoteId":501,"quoteNo":"AUK25Q419935","customerId":5,"assetId":3,"branch":"AUK"}`,
		toJSON(t, data))
	assert.Equal(t, QuoteRequest{
		CustomerID:     5,
		AssetID:        3,
		Branch:         ptr("AUK"),
		CreatedBy:      models.DefaultCreatedBy,
		RelationshipID: ptr(int64(11)),
		Notes:          ptr("from email"),
	}, quotes.last)
	assert.Equal(t, int64(1), dbtest.Count(t, conn, "vwGlobalQuotes"))
}

func TestCreateQuoteFromAssetFailureRollsBack(t *testing.T) {
	r, conn, quotes := newTestRouter(t)
	quotes.err = errors.New("procedure raised 50001")

	_, err := r.Dispatch(context.Background(), CreateQuoteFromAsset, Params{
		"customerId": json.Number("5"), "assetId": json.Number("3"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "procedure raised 50001")
	assert.Zero(t, dbtest.Count(t, conn, "vwGlobalQuotes"))
}
