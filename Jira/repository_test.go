package Jira

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// newTestDB builds an in-memory database with the slice of the Jira schema
// the repository reads from.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	statements := []string{
		"CREATE TABLE project (ID INTEGER PRIMARY KEY, pname TEXT, pkey TEXT, `LEAD` TEXT)",
		"CREATE TABLE issuestatus (ID INTEGER PRIMARY KEY, pname TEXT)",
		"CREATE TABLE app_user (user_key TEXT PRIMARY KEY, lower_user_name TEXT)",
		"CREATE TABLE jiraissue (ID INTEGER PRIMARY KEY, SUMMARY TEXT, issuenum INTEGER, PROJECT INTEGER, issuestatus INTEGER, ASSIGNEE TEXT)",
		"CREATE TABLE worklog (ID INTEGER PRIMARY KEY, STARTDATE TEXT, timeworked INTEGER, issueid INTEGER, AUTHOR TEXT)",
	}
	for _, statement := range statements {
		_, err := db.Exec(statement)
		require.NoError(t, err)
	}

	return db
}

func seedTracks(t *testing.T, db *sql.DB) {
	t.Helper()

	statements := []string{
		"INSERT INTO project VALUES (10, 'Billing', 'BIL', 'key-lead')",
		"INSERT INTO project VALUES (20, 'Website', 'WEB', 'key-gone')",
		"INSERT INTO issuestatus VALUES (1, 'In Progress')",
		"INSERT INTO issuestatus VALUES (2, 'Done')",
		"INSERT INTO app_user VALUES ('key-lead', 'o.smirnov')",
		"INSERT INTO app_user VALUES ('key-dev', 'd.orlova')",
		"INSERT INTO app_user VALUES ('key-qa', 'k.frolov')",
		"INSERT INTO jiraissue VALUES (100, 'Fix invoice rounding', 1, 10, 1, 'key-qa')",
		"INSERT INTO jiraissue VALUES (101, 'Add payment provider', 2, 10, 2, 'key-dev')",
		"INSERT INTO jiraissue VALUES (200, 'Landing redesign', 7, 20, 1, 'key-dev')",
		// 120, 60 and 30 minutes on the billing project, 120 on the website.
		"INSERT INTO worklog VALUES (1, '2024-05-10 09:00:00', 7200, 100, 'key-dev')",
		"INSERT INTO worklog VALUES (2, '2024-05-11 10:00:00', 3600, 100, 'key-qa')",
		"INSERT INTO worklog VALUES (3, '2024-05-12 11:00:00', 1800, 101, 'key-dev')",
		"INSERT INTO worklog VALUES (4, '2024-05-10 12:00:00', 7200, 200, 'key-qa')",
		// Outside the test window.
		"INSERT INTO worklog VALUES (5, '2024-06-01 09:00:00', 3600, 100, 'key-dev')",
	}
	for _, statement := range statements {
		_, err := db.Exec(statement)
		require.NoError(t, err)
	}
}

func testWindow() (time.Time, time.Time) {
	return time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 31, 0, 0, 0, 0, time.UTC)
}

func TestFindByFilter_Window(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	start, end := testWindow()
	tracks, err := repo.FindByFilter(start, end, 0, nil, nil, false)

	require.NoError(t, err)
	require.Len(t, tracks, 4)

	first := tracks[0]
	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 120, first.WorkedMinutes)
	assert.Equal(t, "In Progress", first.Status)
	assert.Equal(t, "d.orlova", first.User)
	assert.Equal(t, "k.frolov", first.AssignedUser)
	assert.Equal(t, time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC), first.Date)

	require.NotNil(t, first.Project)
	assert.Equal(t, TypeJira, first.Project.System.Value())
	assert.Equal(t, 10, first.Project.ID)
	assert.Equal(t, "BIL", first.Project.Key)

	require.NotNil(t, first.Task)
	assert.Equal(t, 100, first.Task.ID)
	assert.Equal(t, "Fix invoice rounding", first.Task.Name)
	assert.Equal(t, 1, first.Task.Key)
}

func TestFindByFilter_ProjectAndTasks(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	start, end := testWindow()

	tracks, err := repo.FindByFilter(start, end, 20, nil, nil, false)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, 4, tracks[0].ID)

	tracks, err = repo.FindByFilter(start, end, 0, []int{101}, nil, false)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, 3, tracks[0].ID)
}

func TestFindByFilter_UserMatchesAuthorOrAssignee(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	start, end := testWindow()

	// k.frolov authored track 2 and 4 and is assigned to issue 100.
	tracks, err := repo.FindByFilter(start, end, 0, nil, []string{"K.Frolov"}, false)
	require.NoError(t, err)
	assert.Len(t, tracks, 3)

	tracks, err = repo.FindByFilter(start, end, 0, nil, []string{"K.Frolov"}, true)
	require.NoError(t, err)
	require.Len(t, tracks, 2)
	assert.Equal(t, "k.frolov", tracks[0].User)
	assert.Equal(t, "k.frolov", tracks[1].User)
}

func TestGetTracksByIDs(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	tracks, err := repo.GetTracksByIDs([]int{2, 3})
	require.NoError(t, err)
	assert.Len(t, tracks, 2)

	tracks, err = repo.GetTracksByIDs(nil)
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestFindWorkedTimeForProjects(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	start, end := testWindow()
	items, err := repo.FindWorkedTimeForProjects(start, end, "")

	require.NoError(t, err)
	// The website project lead has no login row, so only billing survives.
	require.Len(t, items, 1)
	assert.Equal(t, "o.smirnov", items[0].Manager)
	assert.Equal(t, 10, items[0].ProjectID)
	assert.Equal(t, "Billing", items[0].ProjectName)
	assert.Equal(t, 210, items[0].WorkedMinutes)

	items, err = repo.FindWorkedTimeForProjects(start, end, "nobody")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestFindUsersWorkedTimeStatsForPeriod_ByDay(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	start, end := testWindow()
	items, err := repo.FindUsersWorkedTimeStatsForPeriod([]string{"d.orlova"}, start, end, false)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "d.orlova", items[0].Login)
	assert.Equal(t, "2024-05-10", items[0].Date)
	assert.Equal(t, float64(120), items[0].WorkedMinutes)
	assert.Equal(t, "2024-05-12", items[1].Date)
	assert.Equal(t, float64(30), items[1].WorkedMinutes)
}

func TestFindUsersWorkedTimeStatsForPeriod_AllUsers(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	start, end := testWindow()
	items, err := repo.FindUsersWorkedTimeStatsForPeriod(nil, start, end, false)

	require.NoError(t, err)
	require.Len(t, items, 4)

	totals := map[string]float64{}
	for _, item := range items {
		totals[item.Login] += item.WorkedMinutes
	}
	assert.Equal(t, float64(150), totals["d.orlova"])
	assert.Equal(t, float64(180), totals["k.frolov"])
}

func TestFindUsersWorkedTimeRatingForPeriod(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	start, end := testWindow()
	items, err := repo.FindUsersWorkedTimeRatingForPeriod(start, end, 2, nil)

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "k.frolov", items[0].Login)
	assert.Equal(t, float64(180), items[0].WorkedMinutes)
	assert.Equal(t, "d.orlova", items[1].Login)
	assert.Equal(t, float64(150), items[1].WorkedMinutes)
}

func TestFindWorkedMinutesByIssueKeys(t *testing.T) {
	db := newTestDB(t)
	seedTracks(t, db)
	repo := NewReadRepository(db)

	result, err := repo.FindWorkedMinutesByIssueKeys([]string{"BIL-1", "WEB-7", "BIL-999"})

	require.NoError(t, err)
	assert.Equal(t, map[string]float64{
		"BIL-1": 240,
		"WEB-7": 120,
	}, result)

	result, err = repo.FindWorkedMinutesByIssueKeys(nil)
	require.NoError(t, err)
	assert.Empty(t, result)
}
