package Workload

import (
	"fmt"

	"Pulse/Models"

	"gorm.io/gorm"
)

// Filter narrows a staffing lookup. Empty Grade means any grade; OnlyMarked
// restricts to people HR tracks for placement.
type Filter struct {
	Profile    string
	Grade      string
	OnlyMarked bool
}

// UserWorkloadInfo is one available staff member together with the workload
// record that makes them available.
type UserWorkloadInfo struct {
	User       Models.StaffMember `json:"user"`
	Type       string             `json:"type"`
	TypeLabel  string             `json:"type_label"`
	PerHourPay float64            `json:"per_hour_pay"`
}

// Service answers "who is free for this profile and grade" questions over the
// local staff directory.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// GetUsersWorkloads returns staff matching the filter whose current workload
// is a rest type, i.e. people not placed on a project right now.
func (s *Service) GetUsersWorkloads(filter Filter) ([]UserWorkloadInfo, error) {
	var workloads []Models.UserWorkload

	query := s.DB.Preload("StaffMember").
		Joins("JOIN staff_members ON staff_members.id = user_workloads.staff_member_id").
		Where("user_workloads.type IN ?", Models.WorkloadRestTypes())

	if filter.Profile != "" {
		query = query.Where("LOWER(staff_members.profile) = LOWER(?)", filter.Profile)
	}

	if filter.Grade != "" {
		grade, err := Models.NewGrade(filter.Grade)
		if err != nil {
			return nil, err
		}
		query = query.Where("staff_members.grade = ?", grade.Value())
	}

	if filter.OnlyMarked {
		query = query.Where("staff_members.is_marked = ?", true)
	}

	if err := query.Find(&workloads).Error; err != nil {
		return nil, fmt.Errorf("error querying workloads: %v", err)
	}

	items := make([]UserWorkloadInfo, 0, len(workloads))
	for _, workload := range workloads {
		typeLabel := "-"
		if workloadType, err := Models.NewWorkloadType(workload.Type); err == nil {
			typeLabel = workloadType.Label()
		}
		items = append(items, UserWorkloadInfo{
			User:       workload.StaffMember,
			Type:       workload.Type,
			TypeLabel:  typeLabel,
			PerHourPay: workload.PerHourPay,
		})
	}

	return items, nil
}

// GetProfiles lists the distinct staff profiles known to the directory.
func (s *Service) GetProfiles() ([]string, error) {
	var profiles []string

	err := s.DB.Model(&Models.StaffMember{}).
		Where("profile <> ''").
		Distinct().
		Order("profile").
		Pluck("profile", &profiles).Error
	if err != nil {
		return nil, fmt.Errorf("error querying profiles: %v", err)
	}

	return profiles, nil
}
