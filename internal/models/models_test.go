package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"plain date", "2025-03-14", "2025-03-14", false},
		{"rfc3339", "2025-03-14T10:30:00Z", "2025-03-14", false},
		{"sqlite timestamp", "2025-03-14 00:00:00+00:00", "2025-03-14", false},
		{"padded", "  2025-03-14 ", "2025-03-14", false},
		{"garbage", "next tuesday", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got.String() != tt.want {
				t.Errorf("ParseDate(%q) = %q, want %q", tt.in, got.String(), tt.want)
			}
		})
	}
}

func TestDate_JSON(t *testing.T) {
	d, _ := ParseDate("2025-01-02")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2025-01-02"` {
		t.Errorf("Marshal = %s", b)
	}

	var zero Date
	b, _ = json.Marshal(zero)
	if string(b) != "null" {
		t.Errorf("zero Marshal = %s, want null", b)
	}

	var back Date
	if err := json.Unmarshal([]byte(`"2025-01-02"`), &back); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("Unmarshal = %v, want %v", back, d)
	}
	if err := json.Unmarshal([]byte(`"soon"`), &back); err == nil {
		t.Error("expected error for invalid date")
	}
}

func TestDate_ScanValue(t *testing.T) {
	var d Date
	ts := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	if err := d.Scan(ts); err != nil || !d.Equal(ts) {
		t.Fatalf("Scan(time) = %v, %v", d, err)
	}
	if err := d.Scan([]byte("2024-12-30")); err != nil || d.String() != "2024-12-30" {
		t.Fatalf("Scan(bytes) = %v, %v", d, err)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("Scan(nil) = %v, %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Error("expected error scanning int")
	}
	if v, _ := d.Value(); v != nil {
		t.Errorf("zero Value() = %v, want nil", v)
	}
}

func TestTableNames(t *testing.T) {
	tests := []struct {
		model interface{ TableName() string }
		want  string
	}{
		{Customer{}, "tblCustomer"},
		{Contact{}, "vwCustContact"},
		{Asset{}, "vwCustomerAssetAffiliation"},
		{Quote{}, "vwGlobalQuotes"},
		{Meeting{}, "tblCustMeeting"},
		{MeetingKeyTopic{}, "tblCustMeetingKeyTopic"},
		{MeetingSpecOp{}, "tblCustMeetingSpecOp"},
		{MeetingAction{}, "tblCustMeetingAction"},
		{MeetingActionResponsible{}, "tblCustMeetingActionResp"},
		{MeetingStaffAttendance{}, "tblCustMeetingAlatasAttendance"},
		{MeetingContactAttendance{}, "tblCustMeetingAttendance"},
		{EmailQuoteTracking{}, "tblEmailQuoteTracking"},
	}
	for _, tt := range tests {
		if got := tt.model.TableName(); got != tt.want {
			t.Errorf("%T.TableName() = %q, want %q", tt.model, got, tt.want)
		}
	}
}

func TestAssetJSONNames(t *testing.T) {
	name := "MV Nordic"
	blocked := false
	b, err := json.Marshal(Asset{ID: 7, VesselName: &name, Blocked: &blocked})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"assetId":7`, `"vesselName":"MV Nordic"`, `"blocked":false`, `"portOfTerminal":null`} {
		if !strings.Contains(string(b), want) {
			t.Errorf("asset JSON %s missing %s", b, want)
		}
	}
}
