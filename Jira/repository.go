package Jira

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Connect opens the tracker database. Reads only; the schema belongs to Jira.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening jira database: %v", err)
	}

	db.SetMaxOpenConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

// ReadRepository is a read-only projection over the Jira worklog join.
//
// worklog.timeworked is stored in seconds; every query divides by 60 so all
// values leaving this package are minutes.
type ReadRepository struct {
	db *sql.DB
}

func NewReadRepository(db *sql.DB) *ReadRepository {
	return &ReadRepository{db: db}
}

const trackSelect = `
SELECT wl.ID, wl.STARTDATE, wl.timeworked / 60 AS timeworked, ist.pname AS status,
	LOWER(ut.lower_user_name) AS user, LOWER(ua.lower_user_name) AS assigned_user,
	p.ID AS project_id, p.pname AS project_name, p.pkey AS project_key,
	i.ID AS task_id, i.SUMMARY AS task_name, i.issuenum AS task_key
FROM worklog wl
LEFT JOIN jiraissue i ON i.ID = wl.issueid
LEFT JOIN project p ON p.ID = i.PROJECT
LEFT JOIN issuestatus ist ON i.issuestatus = ist.ID
LEFT JOIN app_user ut ON ut.user_key = wl.AUTHOR
LEFT JOIN app_user ua ON ua.user_key = i.ASSIGNEE`

// FindByFilter returns worklog entries inside the day window
// [start 00:00:00, end 23:59:59]. projectID 0, nil taskIDs and nil users mean
// "no filter". With onlyTrackedBy the user list matches authors only,
// otherwise authors or assignees.
func (r *ReadRepository) FindByFilter(
	start, end time.Time,
	projectID int,
	taskIDs []int,
	users []string,
	onlyTrackedBy bool,
) ([]TaskTrack, error) {
	conditions := []string{"wl.STARTDATE >= ?", "wl.STARTDATE < ?"}
	args := []interface{}{dayStart(start), dayEnd(end)}

	if projectID != 0 {
		conditions = append(conditions, "p.ID = ?")
		args = append(args, projectID)
	}

	if len(taskIDs) > 0 {
		conditions = append(conditions, "i.ID IN ("+placeholders(len(taskIDs))+")")
		for _, id := range taskIDs {
			args = append(args, id)
		}
	}

	if len(users) > 0 {
		userList := placeholders(len(users))
		if onlyTrackedBy {
			conditions = append(conditions, "LOWER(ut.lower_user_name) IN ("+userList+")")
			args = append(args, lowerAll(users)...)
		} else {
			conditions = append(conditions,
				"(LOWER(ut.lower_user_name) IN ("+userList+") OR LOWER(ua.lower_user_name) IN ("+userList+"))")
			args = append(args, lowerAll(users)...)
			args = append(args, lowerAll(users)...)
		}
	}

	query := trackSelect + "\nWHERE " + strings.Join(conditions, " AND ")

	return r.queryTracks(query, args...)
}

// GetTracksByIDs returns the entries with the given worklog row ids.
func (r *ReadRepository) GetTracksByIDs(ids []int) ([]TaskTrack, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	args := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	query := trackSelect + "\nWHERE wl.ID IN (" + placeholders(len(ids)) + ")"

	return r.queryTracks(query, args...)
}

func (r *ReadRepository) queryTracks(query string, args ...interface{}) ([]TaskTrack, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying tracks: %v", err)
	}
	defer rows.Close()

	var tracks []TaskTrack

	for rows.Next() {
		var (
			id                             int
			date                           string
			timeworked                     sql.NullFloat64
			status, user, assigned         sql.NullString
			projectID, taskID, taskKey     sql.NullInt64
			projectName, projectKey, tName sql.NullString
		)

		if err := rows.Scan(
			&id, &date, &timeworked, &status,
			&user, &assigned,
			&projectID, &projectName, &projectKey,
			&taskID, &tName, &taskKey,
		); err != nil {
			return nil, fmt.Errorf("error scanning track row: %v", err)
		}

		track := TaskTrack{
			ID:            id,
			WorkedMinutes: int(timeworked.Float64),
			Status:        status.String,
		}

		if parsed, err := time.Parse("2006-01-02 15:04:05", date); err == nil {
			track.Date = parsed
		}

		if user.Valid {
			track.User = user.String
		}

		if assigned.Valid {
			track.AssignedUser = assigned.String
		}

		if projectID.Valid && projectID.Int64 != 0 {
			track.Project = &Project{
				System: jiraSystemType(),
				ID:     int(projectID.Int64),
				Name:   projectName.String,
				Key:    projectKey.String,
			}
		}

		if taskID.Valid && taskID.Int64 != 0 {
			track.Task = &Task{
				ID:   int(taskID.Int64),
				Name: tName.String,
				Key:  int(taskKey.Int64),
			}
		}

		tracks = append(tracks, track)
	}

	return tracks, rows.Err()
}

// FindWorkedTimeForProjects aggregates worked minutes per (manager, project)
// over the period, optionally narrowed to one manager. Rows whose project
// lead cannot be resolved to a login are excluded.
func (r *ReadRepository) FindWorkedTimeForProjects(start, end time.Time, manager string) ([]WorkedTimeForProject, error) {
	query := "SELECT SUM(wl.timeworked) / 60 AS worked_minutes,\n" +
		"	p.ID AS project_id, p.pname AS project_name, p.pkey AS project_key,\n" +
		"	LOWER(u.lower_user_name) AS manager\n" +
		"FROM worklog wl\n" +
		"LEFT JOIN jiraissue i ON i.ID = wl.issueid\n" +
		"LEFT JOIN project p ON p.ID = i.PROJECT\n" +
		"LEFT JOIN app_user u ON u.user_key = p.`LEAD`\n" +
		"WHERE wl.STARTDATE >= ? AND wl.STARTDATE < ? AND u.lower_user_name IS NOT NULL"
	args := []interface{}{dayStart(start), dayEnd(end)}

	if manager != "" {
		query += " AND LOWER(u.lower_user_name) = ?"
		args = append(args, strings.ToLower(manager))
	}

	query += "\nGROUP BY manager, project_id"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying worked time for projects: %v", err)
	}
	defer rows.Close()

	var items []WorkedTimeForProject

	for rows.Next() {
		var (
			workedMinutes           sql.NullFloat64
			projectID               sql.NullInt64
			projectName, projectKey sql.NullString
			managerLogin            string
		)

		if err := rows.Scan(&workedMinutes, &projectID, &projectName, &projectKey, &managerLogin); err != nil {
			return nil, fmt.Errorf("error scanning project time row: %v", err)
		}

		items = append(items, WorkedTimeForProject{
			System:        jiraSystemType(),
			WorkedMinutes: int(workedMinutes.Float64),
			ProjectID:     int(projectID.Int64),
			ProjectName:   projectName.String,
			ProjectKey:    projectKey.String,
			Manager:       managerLogin,
		})
	}

	return items, rows.Err()
}

// FindUsersWorkedTimeStatsForPeriod aggregates worked minutes per user and
// day, or per user and month when groupByMonths is set. An empty users list
// means no user filter.
func (r *ReadRepository) FindUsersWorkedTimeStatsForPeriod(users []string, start, end time.Time, groupByMonths bool) ([]UserMetric, error) {
	bucket := "DATE(wl.STARTDATE)"
	if groupByMonths {
		bucket = "DATE_FORMAT(wl.STARTDATE, '%Y-%m')"
	}

	query := "SELECT LOWER(u.lower_user_name) AS login, SUM(wl.timeworked) / 60 AS timeworked, " +
		bucket + " AS date\n" +
		userWorkedTimeFrom
	args := []interface{}{dayStart(start), dayEnd(end)}

	if len(users) > 0 {
		query += " AND LOWER(u.lower_user_name) IN (" + placeholders(len(users)) + ")"
		args = append(args, lowerAll(users)...)
	}
	query += "\nGROUP BY date, login"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user stats: %v", err)
	}
	defer rows.Close()

	var items []UserMetric

	for rows.Next() {
		var item UserMetric
		if err := rows.Scan(&item.Login, &item.WorkedMinutes, &item.Date); err != nil {
			return nil, fmt.Errorf("error scanning user stats row: %v", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// FindUsersWorkedTimeRatingForPeriod returns the top-N users by total worked
// minutes over the period, optionally restricted to a user list.
func (r *ReadRepository) FindUsersWorkedTimeRatingForPeriod(start, end time.Time, limit int, users []string) ([]UserMetricRating, error) {
	query := "SELECT LOWER(u.lower_user_name) AS login, SUM(wl.timeworked) / 60 AS timeworked\n" +
		userWorkedTimeFrom
	args := []interface{}{dayStart(start), dayEnd(end)}

	if len(users) > 0 {
		query += " AND LOWER(u.lower_user_name) IN (" + placeholders(len(users)) + ")"
		args = append(args, lowerAll(users)...)
	}

	query += "\nGROUP BY login\nORDER BY timeworked DESC\nLIMIT ?"
	args = append(args, limit)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying user rating: %v", err)
	}
	defer rows.Close()

	var items []UserMetricRating

	for rows.Next() {
		var item UserMetricRating
		if err := rows.Scan(&item.Login, &item.WorkedMinutes); err != nil {
			return nil, fmt.Errorf("error scanning user rating row: %v", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

const userWorkedTimeFrom = "FROM worklog wl\n" +
	"LEFT JOIN app_user u ON u.user_key = wl.AUTHOR\n" +
	"WHERE wl.STARTDATE >= ? AND wl.STARTDATE < ? AND u.lower_user_name IS NOT NULL"

// FindWorkedMinutesByIssueKeys maps full issue keys (PROJECT-123) to total
// worked minutes.
func (r *ReadRepository) FindWorkedMinutesByIssueKeys(issueKeys []string) (map[string]float64, error) {
	if len(issueKeys) == 0 {
		return map[string]float64{}, nil
	}

	query := "SELECT CONCAT(p.pkey, '-', i.issuenum) AS issue_key, SUM(wl.timeworked) / 60 AS worked_minutes\n" +
		"FROM worklog wl\n" +
		"LEFT JOIN jiraissue i ON i.ID = wl.issueid\n" +
		"LEFT JOIN project p ON p.ID = i.PROJECT\n" +
		"WHERE CONCAT(p.pkey, '-', i.issuenum) IN (" + placeholders(len(issueKeys)) + ")\n" +
		"GROUP BY i.ID, issue_key"

	args := make([]interface{}, 0, len(issueKeys))
	for _, key := range issueKeys {
		args = append(args, key)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying worked minutes by issue keys: %v", err)
	}
	defer rows.Close()

	result := make(map[string]float64)

	for rows.Next() {
		var (
			issueKey      string
			workedMinutes float64
		)
		if err := rows.Scan(&issueKey, &workedMinutes); err != nil {
			return nil, fmt.Errorf("error scanning issue key row: %v", err)
		}
		result[issueKey] = workedMinutes
	}

	return result, rows.Err()
}

// GetYearTrackSummaryForProjectsAndUsers aggregates worked minutes per
// (user, year). Empty projectIDs/userLogins mean "no filter"; yearFrom 0
// means no cutoff.
func (r *ReadRepository) GetYearTrackSummaryForProjectsAndUsers(projectIDs []int, userLogins []string, yearFrom int) ([]WorkedTimeForUserAndYear, error) {
	const yearExpression = "DATE_FORMAT(wl.STARTDATE, '%Y')"

	query := "SELECT LOWER(u.lower_user_name) AS login, SUM(wl.timeworked) / 60 AS timeworked, " +
		yearExpression + " AS year\n" +
		"FROM worklog wl\n" +
		"LEFT JOIN jiraissue i ON i.ID = wl.issueid\n" +
		"LEFT JOIN project p ON p.ID = i.PROJECT\n" +
		"LEFT JOIN app_user u ON u.user_key = wl.AUTHOR\n" +
		"WHERE u.lower_user_name IS NOT NULL"
	var args []interface{}

	if len(userLogins) > 0 {
		query += " AND LOWER(u.lower_user_name) IN (" + placeholders(len(userLogins)) + ")"
		args = append(args, lowerAll(userLogins)...)
	}

	if len(projectIDs) > 0 {
		query += " AND p.ID IN (" + placeholders(len(projectIDs)) + ")"
		for _, id := range projectIDs {
			args = append(args, id)
		}
	}

	if yearFrom != 0 {
		query += " AND " + yearExpression + " >= ?"
		args = append(args, strconv.Itoa(yearFrom))
	}

	query += "\nGROUP BY login, year"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying year summary: %v", err)
	}
	defer rows.Close()

	var items []WorkedTimeForUserAndYear

	for rows.Next() {
		var item WorkedTimeForUserAndYear
		if err := rows.Scan(&item.Login, &item.WorkedMinutes, &item.Year); err != nil {
			return nil, fmt.Errorf("error scanning year summary row: %v", err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func dayStart(day time.Time) string {
	return day.Format("2006-01-02") + " 00:00:00"
}

// dayEnd makes the window inclusive of the whole end day.
func dayEnd(day time.Time) string {
	return day.AddDate(0, 0, 1).Format("2006-01-02") + " 00:00:00"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func lowerAll(values []string) []interface{} {
	args := make([]interface{}, 0, len(values))
	for _, value := range values {
		args = append(args, strings.ToLower(value))
	}
	return args
}
