package Models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimesheetTimingClassify(t *testing.T) {
	periodEnd := time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC)

	onTime := periodEnd.AddDate(0, 0, 5)
	late := periodEnd.AddDate(0, 0, 6)
	approvedLate := periodEnd.AddDate(0, 0, 11)

	tests := []struct {
		name           string
		receive        time.Time
		approval       *time.Time
		isReceiveLate  bool
		isApprovalLate bool
	}{
		{"received on the deadline day", onTime, nil, false, false},
		{"received a day past grace", late, nil, true, false},
		{"approved on the deadline day", onTime, timePtr(periodEnd.AddDate(0, 0, 10)), false, false},
		{"approved a day past grace", onTime, timePtr(approvedLate), false, true},
		{"not approved yet", late, nil, true, false},
		{"both late", late, timePtr(approvedLate), true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			timing := NewTimesheetTiming(TimesheetRecord{
				PeriodStart:  periodEnd.AddDate(0, -1, 1),
				PeriodEnd:    periodEnd,
				DateReceive:  tc.receive,
				DateApproval: tc.approval,
			})
			timing.Classify(5, 10)

			assert.Equal(t, tc.isReceiveLate, timing.IsReceiveLate)
			assert.Equal(t, tc.isApprovalLate, timing.IsApprovalLate)
		})
	}
}

func timePtr(value time.Time) *time.Time {
	return &value
}
