package Models

import (
	"time"

	"gorm.io/gorm"
)

// TimesheetRecord is one timesheet submission as stored locally after sync
// from the CRM.
type TimesheetRecord struct {
	gorm.Model
	ProjectID    int        `json:"project_id"`
	ProjectName  string     `json:"project_name"`
	UserEmail    string     `json:"user_email"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment"`
	DateReceive  time.Time  `json:"date_receive"`
	DateApproval *time.Time `json:"date_approval"`
	PeriodStart  time.Time  `json:"period_start"`
	PeriodEnd    time.Time  `json:"period_end"`
}

// TimesheetTiming is the read-side snapshot of one submission. The two
// lateness flags are filled in by Classify after construction.
type TimesheetTiming struct {
	ID             uint       `json:"id"`
	ProjectID      int        `json:"project_id"`
	ProjectName    string     `json:"project_name"`
	UserEmail      string     `json:"user_email"`
	Status         string     `json:"status"`
	Comment        string     `json:"comment,omitempty"`
	DateReceive    time.Time  `json:"date_receive"`
	DateApproval   *time.Time `json:"date_approval"`
	PeriodStart    time.Time  `json:"period_start"`
	PeriodEnd      time.Time  `json:"period_end"`
	IsReceiveLate  bool       `json:"is_receive_late"`
	IsApprovalLate bool       `json:"is_approval_late"`
}

func NewTimesheetTiming(record TimesheetRecord) TimesheetTiming {
	return TimesheetTiming{
		ID:           record.ID,
		ProjectID:    record.ProjectID,
		ProjectName:  record.ProjectName,
		UserEmail:    record.UserEmail,
		Status:       record.Status,
		Comment:      record.Comment,
		DateReceive:  record.DateReceive,
		DateApproval: record.DateApproval,
		PeriodStart:  record.PeriodStart,
		PeriodEnd:    record.PeriodEnd,
	}
}

// Classify sets the lateness flags. A submission is received late when it
// arrived more than receiveGraceDays after the reporting period end, approved
// late when the approval came more than approvalGraceDays after the period
// end. A missing approval date never counts as late.
func (t *TimesheetTiming) Classify(receiveGraceDays, approvalGraceDays int) {
	receiveDeadline := t.PeriodEnd.AddDate(0, 0, receiveGraceDays)
	t.IsReceiveLate = t.DateReceive.After(receiveDeadline)

	if t.DateApproval != nil {
		approvalDeadline := t.PeriodEnd.AddDate(0, 0, approvalGraceDays)
		t.IsApprovalLate = t.DateApproval.After(approvalDeadline)
	}
}
