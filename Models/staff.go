package Models

import (
	"fmt"

	"gorm.io/gorm"
)

const (
	WorkloadTypeWork     = "work"
	WorkloadTypeIdle     = "idle"
	WorkloadTypeVacation = "vacation"
	WorkloadTypeAway     = "away"
	WorkloadTypeSick     = "sick"
)

var workloadTypeValues = []string{
	WorkloadTypeWork,
	WorkloadTypeIdle,
	WorkloadTypeVacation,
	WorkloadTypeAway,
	WorkloadTypeSick,
}

var workloadTypeLabels = map[string]string{
	WorkloadTypeWork:     "Работа",
	WorkloadTypeIdle:     "Простой",
	WorkloadTypeVacation: "Отпуск",
	WorkloadTypeAway:     "Отгул",
	WorkloadTypeSick:     "Больничный",
}

// WorkloadType is a validated workload state of a staff member.
type WorkloadType struct {
	value string
}

func NewWorkloadType(value string) (WorkloadType, error) {
	for _, known := range workloadTypeValues {
		if value == known {
			return WorkloadType{value: value}, nil
		}
	}
	return WorkloadType{}, fmt.Errorf("wrong workload type: %s", value)
}

func (t WorkloadType) Value() string {
	return t.value
}

func (t WorkloadType) Label() string {
	if label, ok := workloadTypeLabels[t.value]; ok {
		return label
	}
	return "-"
}

func WorkloadTypeLabels() map[string]string {
	labels := make(map[string]string, len(workloadTypeLabels))
	for value, label := range workloadTypeLabels {
		labels[value] = label
	}
	return labels
}

// WorkloadRestTypes returns every type except work, i.e. the states in which
// a staff member is free to be staffed somewhere.
func WorkloadRestTypes() []string {
	return workloadTypeValues[1:]
}

const (
	GradeJunior = "Junior"
	GradeMiddle = "Middle"
	GradeSenior = "Senior"
)

var basicGrades = []string{GradeJunior, GradeMiddle, GradeSenior}

// Grade is a validated skill grade.
type Grade struct {
	value string
}

func NewGrade(value string) (Grade, error) {
	for _, known := range basicGrades {
		if value == known {
			return Grade{value: value}, nil
		}
	}
	return Grade{}, fmt.Errorf("wrong grade: %s", value)
}

func (g Grade) Value() string {
	return g.value
}

func BasicGrades() []string {
	grades := make([]string, len(basicGrades))
	copy(grades, basicGrades)
	return grades
}

// StaffMember mirrors the directory record used for staffing decisions.
// IsMarked flags people the HR team tracks for placement.
type StaffMember struct {
	gorm.Model
	GivenName  string `json:"givenname"`
	FamilyName string `json:"familyname"`
	Email      string `json:"email" gorm:"index"`
	Profile    string `json:"profile"`
	Grade      string `json:"grade"`
	Resume     string `json:"resume"`
	PhotoPath  string `json:"photo_path"`
	IsMarked   bool   `json:"is_marked"`
}

// UserWorkload is the current workload state of one staff member.
type UserWorkload struct {
	gorm.Model
	StaffMemberID uint        `json:"staff_member_id" gorm:"index"`
	StaffMember   StaffMember `json:"staff_member"`
	Type          string      `json:"type"`
	PerHourPay    float64     `json:"per_hour_pay"`
}
