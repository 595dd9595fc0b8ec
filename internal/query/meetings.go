package query

import (
	"context"

	"github.com/juju/errors"
	"gorm.io/gorm"

	"github.com/diewo77/sms-api/internal/db"
	"github.com/diewo77/sms-api/internal/models"
)

// ActionsView joins each meeting action with its concatenated responsibles.
const ActionsView = "vwCustMeetingActionRespConcat"

func meetingsByCustomer(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	customerID := in.requireInt("customerId")
	status := in.str("status")
	limit := in.limit(defaultListLimit)
	if err := in.err(); err != nil {
		return nil, err
	}

	q := r.read(ctx).Where("fldCustomerID = ?", customerID)
	if status != "" {
		q = q.Where("fldStatus = ?", status)
	}
	var out []models.Meeting
	err := q.Order("fldCustMeetingDate DESC").Order("fldCustMeetingID DESC").Limit(limit).Find(&out).Error
	if err != nil {
		return nil, errors.Annotatef(err, "listing meetings of customer %d", customerID)
	}
	return nonNil(out), nil
}

func meetingKeyTopics(r *Router, ctx context.Context, p Params) (any, error) {
	return meetingChildren(r, ctx, p, keyTopicRows)
}

func meetingSpecOps(r *Router, ctx context.Context, p Params) (any, error) {
	return meetingChildren(r, ctx, p, specOpRows)
}

func meetingActions(r *Router, ctx context.Context, p Params) (any, error) {
	return meetingChildren(r, ctx, p, actionRows)
}

func meetingChildren(r *Router, ctx context.Context, p Params, load func(*gorm.DB, int64) ([]db.Row, error)) (any, error) {
	in := newReader(p)
	meetingID := in.requireInt("meetingId")
	if err := in.err(); err != nil {
		return nil, err
	}
	return load(r.read(ctx), meetingID)
}

// The child lists return every column of their table, in table order.

func keyTopicRows(conn *gorm.DB, meetingID int64) ([]db.Row, error) {
	rows, err := db.FindRows(conn.Table(models.MeetingKeyTopic{}.TableName()).
		Where("fldCustMeetingID = ?", meetingID).
		Order("fldCustMeetingKeyTopicID"))
	return rows, errors.Annotatef(err, "loading key topics of meeting %d", meetingID)
}

func specOpRows(conn *gorm.DB, meetingID int64) ([]db.Row, error) {
	rows, err := db.FindRows(conn.Table(models.MeetingSpecOp{}.TableName()).
		Where("fldCustMeetingID = ?", meetingID).
		Order("fldCustMeetingSpecOpID"))
	return rows, errors.Annotatef(err, "loading spec ops of meeting %d", meetingID)
}

func actionRows(conn *gorm.DB, meetingID int64) ([]db.Row, error) {
	rows, err := db.FindRows(conn.Table(ActionsView).
		Where("fldCustMeetingID = ?", meetingID))
	return rows, errors.Annotatef(err, "loading actions of meeting %d", meetingID)
}

type createdMeeting struct {
	MeetingID   int64       `json:"meetingId"`
	CustomerID  int64       `json:"customerId"`
	MeetingDate models.Date `json:"meetingDate"`
	Status      string      `json:"status"`
	AssetID     *int64      `json:"assetId"`
}

func createMeeting(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	m := models.Meeting{
		CustomerID: in.requireInt("customerId"),
		Date:       in.requireDate("meetingDate"),
		CreatedBy:  createdBy(in),
		Status:     models.MeetingStatusPending,
		AssetID:    in.optInt("assetId"),
	}
	if s := in.optStr("status"); s != nil {
		m.Status = *s
	}
	if err := in.err(); err != nil {
		return nil, err
	}

	err := r.write(ctx, "creating meeting", func(tx *gorm.DB) error {
		return tx.Create(&m).Error
	})
	if err != nil {
		return nil, err
	}
	return createdMeeting{
		MeetingID:   m.ID,
		CustomerID:  m.CustomerID,
		MeetingDate: m.Date,
		Status:      m.Status,
		AssetID:     m.AssetID,
	}, nil
}

type createdKeyTopic struct {
	KeyTopicID int64  `json:"keyTopicId"`
	MeetingID  int64  `json:"meetingId"`
	KeyTopic   string `json:"keyTopic"`
	Position   *int64 `json:"position"`
	CreatedBy  string `json:"createdBy"`
}

func createMeetingKeyTopic(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	kt := models.MeetingKeyTopic{
		MeetingID: in.requireInt("meetingId"),
		Topic:     in.requireStr("keyTopic"),
		Position:  in.optInt("position"),
		CreatedBy: createdBy(in),
	}
	if err := in.err(); err != nil {
		return nil, err
	}

	err := r.write(ctx, "creating key topic", func(tx *gorm.DB) error {
		return tx.Create(&kt).Error
	})
	if err != nil {
		return nil, err
	}
	return createdKeyTopic{kt.ID, kt.MeetingID, kt.Topic, kt.Position, kt.CreatedBy}, nil
}

type createdSpecOp struct {
	SpecOpID  int64  `json:"specOpId"`
	MeetingID int64  `json:"meetingId"`
	SpecOp    string `json:"specOp"`
	Position  *int64 `json:"position"`
	CreatedBy string `json:"createdBy"`
}

func createMeetingSpecOp(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	op := models.MeetingSpecOp{
		MeetingID: in.requireInt("meetingId"),
		SpecOp:    in.requireStr("specOp"),
		Position:  in.optInt("position"),
		CreatedBy: createdBy(in),
	}
	if err := in.err(); err != nil {
		return nil, err
	}

	err := r.write(ctx, "creating spec op", func(tx *gorm.DB) error {
		return tx.Create(&op).Error
	})
	if err != nil {
		return nil, err
	}
	return createdSpecOp{op.ID, op.MeetingID, op.SpecOp, op.Position, op.CreatedBy}, nil
}

type createdAction struct {
	ActionID            int64   `json:"actionId"`
	MeetingID           int64   `json:"meetingId"`
	Description         string  `json:"description"`
	Position            *int64  `json:"position"`
	Status              string  `json:"status"`
	Branch              *string `json:"branch"`
	EmployeeID          *int64  `json:"employeeId"`
	ResponsibleRecordID *int64  `json:"responsibleRecordId"`
	CreatedBy           string  `json:"createdBy"`
}

// createMeetingAction inserts the action and, when both branch and
// employeeId are given, its responsible in the same transaction. An empty
// branch still counts as given.
func createMeetingAction(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	action := models.MeetingAction{
		MeetingID:   in.requireInt("meetingId"),
		Description: in.requireStr("description"),
		Position:    in.optInt("position"),
		CreatedBy:   createdBy(in),
		Status:      models.ActionStatusOpen,
	}
	if s := in.optStr("status"); s != nil {
		action.Status = *s
	}
	branch := in.nullStr("branch")
	employeeID := in.optInt("employeeId")
	if err := in.err(); err != nil {
		return nil, err
	}

	var respID *int64
	err := r.write(ctx, "creating meeting action", func(tx *gorm.DB) error {
		if err := tx.Create(&action).Error; err != nil {
			return err
		}
		if branch == nil || employeeID == nil {
			return nil
		}
		resp := models.MeetingActionResponsible{
			ActionID:              action.ID,
			Branch:                *branch,
			EmployeeID:            *employeeID,
			CreatedBy:             action.CreatedBy,
			EmployeeIDBeforeMerge: *employeeID,
		}
		if err := tx.Create(&resp).Error; err != nil {
			return errors.Annotate(err, "action responsible")
		}
		respID = &resp.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return createdAction{
		ActionID:            action.ID,
		MeetingID:           action.MeetingID,
		Description:         action.Description,
		Position:            action.Position,
		Status:              action.Status,
		Branch:              branch,
		EmployeeID:          employeeID,
		ResponsibleRecordID: respID,
		CreatedBy:           action.CreatedBy,
	}, nil
}

type createdStaffAttendance struct {
	AttendanceID int64  `json:"alatasAttendanceId"`
	MeetingID    int64  `json:"meetingId"`
	EmployeeID   int64  `json:"employeeId"`
	CreatedBy    string `json:"createdBy"`
}

func createMeetingStaffAttendance(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	a := models.MeetingStaffAttendance{
		MeetingID:  in.requireInt("meetingId"),
		EmployeeID: in.requireInt("employeeId"),
		CreatedBy:  createdBy(in),
	}
	a.EmployeeIDBeforeMerge = a.EmployeeID
	if err := in.err(); err != nil {
		return nil, err
	}

	err := r.write(ctx, "creating staff attendance", func(tx *gorm.DB) error {
		return tx.Create(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return createdStaffAttendance{a.ID, a.MeetingID, a.EmployeeID, a.CreatedBy}, nil
}

type createdCustAttendance struct {
	AttendanceID int64  `json:"custAttendanceId"`
	MeetingID    int64  `json:"meetingId"`
	ContactID    int64  `json:"contactId"`
	CreatedBy    string `json:"createdBy"`
}

func createMeetingCustAttendance(r *Router, ctx context.Context, p Params) (any, error) {
	in := newReader(p)
	a := models.MeetingContactAttendance{
		MeetingID: in.requireInt("meetingId"),
		ContactID: in.requireInt("contactId"),
		CreatedBy: createdBy(in),
	}
	if err := in.err(); err != nil {
		return nil, err
	}

	err := r.write(ctx, "creating customer attendance", func(tx *gorm.DB) error {
		return tx.Create(&a).Error
	})
	if err != nil {
		return nil, err
	}
	return createdCustAttendance{a.ID, a.MeetingID, a.ContactID, a.CreatedBy}, nil
}
