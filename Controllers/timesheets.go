package Controllers

import (
	"fmt"
	"log"
	"time"

	"Pulse/Config"
	"Pulse/Models"
	"Pulse/email"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Submissions within these many days after period end are on time.
const (
	receiveGraceDays  = 5
	approvalGraceDays = 10
)

// TimesheetController serves the timesheet review screens.
type TimesheetController struct {
	DB *gorm.DB
}

func NewTimesheetController(db *gorm.DB) *TimesheetController {
	return &TimesheetController{DB: db}
}

func (c *TimesheetController) loadTimings(ctx *fiber.Ctx) ([]Models.TimesheetTiming, error) {
	query := c.DB.Order("period_end DESC, project_name")

	if from := ctx.Query("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("period_end >= ?", parsed)
		}
	}

	if to := ctx.Query("to"); to != "" {
		if parsed, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("period_end <= ?", parsed)
		}
	}

	var records []Models.TimesheetRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}

	timings := make([]Models.TimesheetTiming, 0, len(records))
	for _, record := range records {
		timing := Models.NewTimesheetTiming(record)
		timing.Classify(receiveGraceDays, approvalGraceDays)
		timings = append(timings, timing)
	}

	return timings, nil
}

// GetTimesheetTimings lists submissions with lateness flags, optionally
// filtered by ?from and ?to period-end dates.
func (c *TimesheetController) GetTimesheetTimings(ctx *fiber.Ctx) error {
	timings, err := c.loadTimings(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve timesheets"})
	}

	return ctx.JSON(timings)
}

// ExportTimesheetTimings streams the current listing as an Excel file.
func (c *TimesheetController) ExportTimesheetTimings(ctx *fiber.Ctx) error {
	timings, err := c.loadTimings(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve timesheets"})
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	headers := []string{"Проект", "Сотрудник", "Статус", "Период", "Получен", "Утвержден", "Просрочен (сдача)", "Просрочен (утверждение)"}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, header)
	}

	for row, timing := range timings {
		approval := ""
		if timing.DateApproval != nil {
			approval = timing.DateApproval.Format("02.01.2006")
		}

		values := []interface{}{
			timing.ProjectName,
			timing.UserEmail,
			timing.Status,
			fmt.Sprintf("%s — %s", timing.PeriodStart.Format("02.01.2006"), timing.PeriodEnd.Format("02.01.2006")),
			timing.DateReceive.Format("02.01.2006"),
			approval,
			boolMark(timing.IsReceiveLate),
			boolMark(timing.IsApprovalLate),
		}

		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build export"})
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", `attachment; filename="timesheet_timings.xlsx"`)

	return ctx.Send(buffer.Bytes())
}

// RemindLateSubmitters emails everyone whose submission is flagged late.
func (c *TimesheetController) RemindLateSubmitters(ctx *fiber.Ctx) error {
	timings, err := c.loadTimings(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve timesheets"})
	}

	emailConfig := Models.EmailConfig{
		SMTPServer: Config.Current.EmailSMTPServer,
		SMTPPort:   Config.Current.EmailSMTPPort,
		Username:   Config.Current.EmailUsername,
		Password:   Config.Current.EmailPassword,
		FromEmail:  Config.Current.EmailFrom,
		FromName:   "Pulse HR",
		TLSEnabled: true,
	}

	late := 0
	for _, timing := range timings {
		if timing.IsReceiveLate {
			late++
		}
	}

	if err := email.NotifyLateSubmitters(emailConfig, timings); err != nil {
		log.Printf("Error sending late timesheet reminders: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Some reminders failed to send"})
	}

	return ctx.JSON(fiber.Map{"message": "Reminders sent", "late": late})
}

func boolMark(value bool) string {
	if value {
		return "Да"
	}
	return ""
}
