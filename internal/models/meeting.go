package models

import "time"

// Default values applied when a caller does not supply them.
const (
	DefaultCreatedBy     = "GPT_API"
	MeetingStatusPending = "Pending"
	ActionStatusOpen     = "Open"
)

// Meeting is a customer meeting header (tblCustMeeting).
type Meeting struct {
	ID           int64      `gorm:"column:fldCustMeetingID;primaryKey" json:"meetingId"`
	CustomerID   int64      `gorm:"column:fldCustomerID;index" json:"customerId"`
	Date         Date       `gorm:"column:fldCustMeetingDate" json:"meetingDate"`
	CreatedBy    string     `gorm:"column:fldCreatedBy;size:50" json:"createdBy"`
	CreatedOn    time.Time  `gorm:"column:fldCreatedOn;autoCreateTime" json:"createdOn"`
	Status       string     `gorm:"column:fldStatus;size:50" json:"status"`
	ReportSentOn *time.Time `gorm:"column:fldReportSentOn" json:"reportSentOn"`
	AssetID      *int64     `gorm:"column:fldAssetID" json:"assetId"`
}

func (Meeting) TableName() string { return "tblCustMeeting" }

// MeetingKeyTopic is a key topic discussed in a meeting.
type MeetingKeyTopic struct {
	ID        int64     `gorm:"column:fldCustMeetingKeyTopicID;primaryKey" json:"keyTopicId"`
	MeetingID int64     `gorm:"column:fldCustMeetingID;index" json:"meetingId"`
	Topic     string    `gorm:"column:fldCustMeetingKeyTopic" json:"keyTopic"`
	Position  *int64    `gorm:"column:fldCustMeetingKeyTopicPos" json:"position"`
	CreatedOn time.Time `gorm:"column:fldCreatedOn;autoCreateTime" json:"createdOn"`
	CreatedBy string    `gorm:"column:fldCreatedBy;size:50" json:"createdBy"`
}

func (MeetingKeyTopic) TableName() string { return "tblCustMeetingKeyTopic" }

// MeetingSpecOp is a special operation raised in a meeting.
type MeetingSpecOp struct {
	ID        int64     `gorm:"column:fldCustMeetingSpecOpID;primaryKey" json:"specOpId"`
	MeetingID int64     `gorm:"column:fldCustMeetingID;index" json:"meetingId"`
	SpecOp    string    `gorm:"column:fldCustMeetingSpecOp" json:"specOp"`
	Position  *int64    `gorm:"column:fldCustMeetingSpecOpPos" json:"position"`
	CreatedBy string    `gorm:"column:fldCreatedBy;size:50" json:"createdBy"`
	CreatedOn time.Time `gorm:"column:fldCreatedOn;autoCreateTime" json:"createdOn"`
}

func (MeetingSpecOp) TableName() string { return "tblCustMeetingSpecOp" }

// MeetingAction is an action item agreed in a meeting.
type MeetingAction struct {
	ID          int64     `gorm:"column:fldCustMeetingActionID;primaryKey" json:"actionId"`
	MeetingID   int64     `gorm:"column:fldCustMeetingID;index" json:"meetingId"`
	Description string    `gorm:"column:fldCustMeetingAction" json:"description"`
	Position    *int64    `gorm:"column:fldCustMeetingActionPos" json:"position"`
	CreatedBy   string    `gorm:"column:fldCreatedBy;size:50" json:"createdBy"`
	CreatedOn   time.Time `gorm:"column:fldCreatedOn;autoCreateTime" json:"createdOn"`
	Status      string    `gorm:"column:fldStatus;size:50" json:"status"`
}

func (MeetingAction) TableName() string { return "tblCustMeetingAction" }

// MeetingActionResponsible assigns an employee of a branch to an action.
// EmployeeIDBeforeMerge mirrors EmployeeID; the column predates the
// employee table merge and is still required by the reports.
type MeetingActionResponsible struct {
	ID                    int64     `gorm:"column:fldCustMeetingActionRespID;primaryKey" json:"responsibleRecordId"`
	ActionID              int64     `gorm:"column:fldCustMeetingActionID;index" json:"actionId"`
	Branch                string    `gorm:"column:fldBranch;size:20" json:"branch"`
	EmployeeID            int64     `gorm:"column:fldEmployeeID" json:"employeeId"`
	CreatedBy             string    `gorm:"column:fldCreatedBy;size:50" json:"createdBy"`
	CreatedOn             time.Time `gorm:"column:fldCreatedOn;autoCreateTime" json:"createdOn"`
	EmployeeIDBeforeMerge int64     `gorm:"column:fldEmployeeID_B4Merging" json:"-"`
}

func (MeetingActionResponsible) TableName() string { return "tblCustMeetingActionResp" }

// MeetingStaffAttendance records an internal employee attending a meeting.
type MeetingStaffAttendance struct {
	ID                    int64     `gorm:"column:fldCustMeetingAlatasAttendanceID;primaryKey" json:"alatasAttendanceId"`
	MeetingID             int64     `gorm:"column:fldCustMeetingID;index" json:"meetingId"`
	EmployeeID            int64     `gorm:"column:fldEmployeeID" json:"employeeId"`
	CreatedOn             time.Time `gorm:"column:fldCreatedOn;autoCreateTime" json:"createdOn"`
	CreatedBy             string    `gorm:"column:fldCreatedBy;size:50" json:"createdBy"`
	EmployeeIDBeforeMerge int64     `gorm:"column:fldEmployeeID_B4Merging" json:"-"`
}

func (MeetingStaffAttendance) TableName() string { return "tblCustMeetingAlatasAttendance" }

// MeetingContactAttendance records a customer contact attending a meeting.
type MeetingContactAttendance struct {
	ID        int64     `gorm:"column:fldCustMeetingAttendanceID;primaryKey" json:"custAttendanceId"`
	MeetingID int64     `gorm:"column:fldCustMeetingID;index" json:"meetingId"`
	ContactID int64     `gorm:"column:fldCustContactID" json:"contactId"`
	CreatedOn time.Time `gorm:"column:fldCreatedOn;autoCreateTime" json:"createdOn"`
	CreatedBy string    `gorm:"column:fldCreatedBy;size:50" json:"createdBy"`
}

func (MeetingContactAttendance) TableName() string { return "tblCustMeetingAttendance" }
