package Controllers

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"Pulse/Models"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// StaffController serves the staff directory and profile photo uploads.
type StaffController struct {
	DB *gorm.DB
}

func NewStaffController(db *gorm.DB) *StaffController {
	return &StaffController{DB: db}
}

// GetStaff lists directory members, optionally filtered by ?profile.
func (c *StaffController) GetStaff(ctx *fiber.Ctx) error {
	query := c.DB.Order("family_name, given_name")

	if profile := ctx.Query("profile"); profile != "" {
		query = query.Where("LOWER(profile) = LOWER(?)", profile)
	}

	var staff []Models.StaffMember
	if err := query.Find(&staff).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve staff"})
	}

	return ctx.JSON(staff)
}

// GetWorkloadTypes returns the workload states and grades the directory
// accepts, with Russian labels for the UI.
func (c *StaffController) GetWorkloadTypes(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"types":  Models.WorkloadTypeLabels(),
		"grades": Models.BasicGrades(),
	})
}

// UploadProfilePhoto stores a resized 256px thumbnail of the uploaded photo
// and records its path on the member.
func (c *StaffController) UploadProfilePhoto(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid staff member ID"})
	}

	var member Models.StaffMember
	if err := c.DB.First(&member, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Staff member not found"})
	}

	fileHeader, err := ctx.FormFile("photo")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "photo file is required"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read uploaded file"})
	}
	defer file.Close()

	img, err := imaging.Decode(file, imaging.AutoOrientation(true))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Uploaded file is not an image"})
	}

	thumbnail := imaging.Resize(img, 256, 0, imaging.Lanczos)

	if err := os.MkdirAll("uploads/photos", 0755); err != nil {
		log.Printf("Error creating uploads directory: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo"})
	}

	outputPath := filepath.Join("uploads/photos", fmt.Sprintf("staff_%d.jpg", member.ID))
	if err := imaging.Save(thumbnail, outputPath); err != nil {
		log.Printf("Error saving photo: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save photo"})
	}

	member.PhotoPath = outputPath
	if err := c.DB.Save(&member).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update staff member"})
	}

	return ctx.JSON(fiber.Map{"message": "Photo updated", "photo_path": outputPath})
}
