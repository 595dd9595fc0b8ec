package query

import (
	"context"

	"github.com/juju/errors"

	"github.com/diewo77/sms-api/internal/db"
)

// MeetingReport is everything needed to write up one meeting.
type MeetingReport struct {
	Meeting    db.Row   `json:"meeting"`
	KeyTopics  []db.Row `json:"keyTopics"`
	SpecialOps []db.Row `json:"specialOps"`
	Actions    []db.Row `json:"actions"`
}

const reportHeaderColumns = `m.fldCustMeetingID AS meetingId,
	m.fldCustomerID AS customerId,
	c.fldCustomerName AS customerName,
	m.fldCustMeetingDate AS meetingDate,
	m.fldCreatedBy AS createdBy,
	m.fldCreatedOn AS createdOn,
	m.fldStatus AS status,
	m.fldReportSentOn AS reportSentOn,
	m.fldAssetID AS assetId,
	a.fldVName AS vesselName,
	a.fldAssetIdentifier AS assetIdentifier,
	a.fldAssetType AS assetType`

// MeetingReport loads the meeting header with its customer and asset, then
// its key topics, spec ops and actions. A missing meeting is NotFound.
func (r *Router) MeetingReport(ctx context.Context, meetingID int64) (*MeetingReport, error) {
	if meetingID <= 0 {
		return nil, errors.NewNotValid(nil, "missing required parameter: meetingId")
	}
	conn := r.read(ctx)

	header, err := db.FindRows(conn.Table("tblCustMeeting AS m").
		Select(reportHeaderColumns).
		Joins("LEFT JOIN tblCustomer c ON c.fldCustomerID = m.fldCustomerID").
		Joins("LEFT JOIN vwCustomerAssetAffiliation a ON a.fldAssetID = m.fldAssetID").
		Where("m.fldCustMeetingID = ?", meetingID).
		Limit(1))
	if err != nil {
		return nil, errors.Annotatef(err, "loading meeting %d", meetingID)
	}
	if len(header) == 0 {
		return nil, errors.NotFoundf("meeting %d", meetingID)
	}

	report := &MeetingReport{Meeting: header[0]}
	if report.KeyTopics, err = keyTopicRows(conn, meetingID); err != nil {
		return nil, err
	}
	if report.SpecialOps, err = specOpRows(conn, meetingID); err != nil {
		return nil, err
	}
	if report.Actions, err = actionRows(conn, meetingID); err != nil {
		return nil, err
	}
	return report, nil
}
