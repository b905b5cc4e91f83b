package Jira

import (
	"fmt"
	"time"
)

const TypeJira = "jira"

var taskTrackSystemTypes = []string{TypeJira}

// TaskTrackSystemType names the tracker a record came from.
type TaskTrackSystemType struct {
	value string
}

func NewTaskTrackSystemType(value string) (TaskTrackSystemType, error) {
	for _, known := range taskTrackSystemTypes {
		if value == known {
			return TaskTrackSystemType{value: value}, nil
		}
	}
	return TaskTrackSystemType{}, fmt.Errorf("wrong task track system type: %s", value)
}

func (t TaskTrackSystemType) Value() string {
	return t.value
}

func jiraSystemType() TaskTrackSystemType {
	systemType, _ := NewTaskTrackSystemType(TypeJira)
	return systemType
}

// Project is the tracker project a worklog entry belongs to.
type Project struct {
	System TaskTrackSystemType `json:"system"`
	ID     int                 `json:"id"`
	Name   string              `json:"name"`
	Key    string              `json:"key"`
}

// Task is the tracker issue a worklog entry belongs to. Key is the issue
// number inside the project, not the full PROJECT-123 key.
type Task struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Key  int    `json:"key"`
}

// TaskTrack is one worked-time entry projected from the worklog join. User,
// AssignedUser, Project and Task are filled only when the source row resolves
// them.
type TaskTrack struct {
	ID            int       `json:"id"`
	Date          time.Time `json:"date"`
	WorkedMinutes int       `json:"worked_minutes"`
	Status        string    `json:"status"`
	User          string    `json:"user,omitempty"`
	AssignedUser  string    `json:"assigned_user,omitempty"`
	Project       *Project  `json:"project,omitempty"`
	Task          *Task     `json:"task,omitempty"`
}

// WorkedTimeForProject is worked minutes aggregated per (manager, project).
type WorkedTimeForProject struct {
	System        TaskTrackSystemType `json:"system"`
	WorkedMinutes int                 `json:"worked_minutes"`
	ProjectID     int                 `json:"project_id"`
	ProjectName   string              `json:"project_name"`
	ProjectKey    string              `json:"project_key"`
	Manager       string              `json:"manager"`
}

// UserMetric is worked minutes for one user in one day or month bucket.
type UserMetric struct {
	Login         string  `json:"login"`
	Date          string  `json:"date"`
	WorkedMinutes float64 `json:"worked_minutes"`
}

// UserMetricRating is one row of the top-N worked-time ranking.
type UserMetricRating struct {
	Login         string  `json:"login"`
	WorkedMinutes float64 `json:"worked_minutes"`
}

// WorkedTimeForUserAndYear is worked minutes aggregated per (user, year).
type WorkedTimeForUserAndYear struct {
	WorkedMinutes float64 `json:"worked_minutes"`
	Login         string  `json:"login"`
	Year          string  `json:"year"`
}
