package Controllers

import (
	"strconv"
	"strings"
	"time"

	"Pulse/Jira"

	"github.com/gofiber/fiber/v2"
)

// TrackController exposes read-only worklog analytics from the tracker
// database.
type TrackController struct {
	Repo *Jira.ReadRepository
}

func NewTrackController(repo *Jira.ReadRepository) *TrackController {
	return &TrackController{Repo: repo}
}

func parseWindow(ctx *fiber.Ctx) (time.Time, time.Time, bool) {
	start, err := time.Parse("2006-01-02", ctx.Query("start"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	end, err := time.Parse("2006-01-02", ctx.Query("end"))
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	return start, end, true
}

func queryList(ctx *fiber.Ctx, name string) []string {
	raw := ctx.Query(name)
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}

	return values
}

// GetWorkedTimeForProjects aggregates worked minutes per (manager, project)
// over ?start..?end, optionally filtered by ?manager.
func (c *TrackController) GetWorkedTimeForProjects(ctx *fiber.Ctx) error {
	start, end, ok := parseWindow(ctx)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start and end are required as YYYY-MM-DD"})
	}

	items, err := c.Repo.FindWorkedTimeForProjects(start, end, ctx.Query("manager"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query tracker"})
	}

	return ctx.JSON(items)
}

// GetUserStats aggregates worked minutes per user per day, or per month with
// ?by_month=1. ?users is a comma separated login list.
func (c *TrackController) GetUserStats(ctx *fiber.Ctx) error {
	start, end, ok := parseWindow(ctx)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start and end are required as YYYY-MM-DD"})
	}

	users := queryList(ctx, "users")
	if len(users) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "users is required"})
	}

	items, err := c.Repo.FindUsersWorkedTimeStatsForPeriod(users, start, end, ctx.Query("by_month") == "1")
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query tracker"})
	}

	return ctx.JSON(items)
}

// GetUserRating returns the top users by worked time over the window.
func (c *TrackController) GetUserRating(ctx *fiber.Ctx) error {
	start, end, ok := parseWindow(ctx)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start and end are required as YYYY-MM-DD"})
	}

	limit, err := strconv.Atoi(ctx.Query("limit", "10"))
	if err != nil || limit < 1 {
		limit = 10
	}

	items, repoErr := c.Repo.FindUsersWorkedTimeRatingForPeriod(start, end, limit, queryList(ctx, "users"))
	if repoErr != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query tracker"})
	}

	return ctx.JSON(items)
}

// GetWorkedMinutesByIssueKeys maps ?keys=PRJ-1,PRJ-2 to total worked minutes.
func (c *TrackController) GetWorkedMinutesByIssueKeys(ctx *fiber.Ctx) error {
	keys := queryList(ctx, "keys")
	if len(keys) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "keys is required"})
	}

	items, err := c.Repo.FindWorkedMinutesByIssueKeys(keys)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query tracker"})
	}

	return ctx.JSON(items)
}

// GetYearSummary aggregates worked minutes per (user, year) with optional
// ?projects, ?users and ?year_from filters.
func (c *TrackController) GetYearSummary(ctx *fiber.Ctx) error {
	var projectIDs []int
	for _, value := range queryList(ctx, "projects") {
		if id, err := strconv.Atoi(value); err == nil {
			projectIDs = append(projectIDs, id)
		}
	}

	yearFrom, _ := strconv.Atoi(ctx.Query("year_from"))

	items, err := c.Repo.GetYearTrackSummaryForProjectsAndUsers(projectIDs, queryList(ctx, "users"), yearFrom)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query tracker"})
	}

	return ctx.JSON(items)
}

// GetTracks lists raw worklog entries for a window with optional filters.
func (c *TrackController) GetTracks(ctx *fiber.Ctx) error {
	start, end, ok := parseWindow(ctx)
	if !ok {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "start and end are required as YYYY-MM-DD"})
	}

	projectID, _ := strconv.Atoi(ctx.Query("project"))

	tracks, err := c.Repo.FindByFilter(
		start, end,
		projectID,
		nil,
		queryList(ctx, "users"),
		ctx.Query("only_tracked_by") == "1",
	)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to query tracker"})
	}

	return ctx.JSON(tracks)
}
