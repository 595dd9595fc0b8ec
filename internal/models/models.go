// Package models maps the business tables and views the API reads and writes.
package models

// All lists every mapped table and view, parents first.
func All() []any {
	return []any{
		&Customer{},
		&Contact{},
		&Asset{},
		&Quote{},
		&Meeting{},
		&MeetingKeyTopic{},
		&MeetingSpecOp{},
		&MeetingAction{},
		&MeetingActionResponsible{},
		&MeetingStaffAttendance{},
		&MeetingContactAttendance{},
		&EmailQuoteTracking{},
	}
}
