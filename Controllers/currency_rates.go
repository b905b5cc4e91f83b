package Controllers

import (
	"errors"
	"strconv"
	"time"

	"Pulse/Models"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CurrencyRateForm is the create/update payload.
type CurrencyRateForm struct {
	Code      string  `json:"code" validate:"required,len=3,uppercase"`
	Rate      float64 `json:"rate" validate:"required,gt=0"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
}

// CurrencyRateController handles currency rate management endpoints.
type CurrencyRateController struct {
	DB         *gorm.DB
	validate   *validator.Validate
	translator ut.Translator
}

func NewCurrencyRateController(db *gorm.DB) *CurrencyRateController {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")

	validate := validator.New()
	en_translations.RegisterDefaultTranslations(validate, translator)

	return &CurrencyRateController{
		DB:         db,
		validate:   validate,
		translator: translator,
	}
}

// GetCurrencyRates lists all managed rates, newest start date first.
func (c *CurrencyRateController) GetCurrencyRates(ctx *fiber.Ctx) error {
	var rates []Models.CurrencyRate
	if err := c.DB.Order("start_time DESC, code").Find(&rates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve currency rates"})
	}

	return ctx.JSON(rates)
}

// CreateCurrencyRate stores a new rate. Rates for the default currency are a
// domain violation and nothing is persisted.
func (c *CurrencyRateController) CreateCurrencyRate(ctx *fiber.Ctx) error {
	form, currency, startDate, err := c.parseForm(ctx)
	if err != nil {
		return err
	}
	if form == nil {
		return nil
	}

	updatedBy := ""
	if user, ok := ctx.Locals("user").(Models.User); ok {
		updatedBy = user.Name
	}

	rate, domainErr := Models.CreateCurrencyRate(currency, form.Rate, startDate, updatedBy)
	if domainErr != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": domainErr.Error()})
	}

	if err := c.DB.Create(rate).Error; err != nil {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "A rate for this currency and start date already exists",
		})
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Курс валюты добавлен.",
		"rate":    rate,
	})
}

// UpdateCurrencyRate edits an existing rate.
func (c *CurrencyRateController) UpdateCurrencyRate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rate ID"})
	}

	var rate Models.CurrencyRate
	if err := c.DB.First(&rate, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Currency rate not found"})
	}

	form, currency, startDate, parseErr := c.parseForm(ctx)
	if parseErr != nil {
		return parseErr
	}
	if form == nil {
		return nil
	}

	updatedBy := ""
	if user, ok := ctx.Locals("user").(Models.User); ok {
		updatedBy = user.Name
	}

	if domainErr := rate.Edit(currency, form.Rate, startDate, updatedBy); domainErr != nil {
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": domainErr.Error()})
	}

	if err := c.DB.Save(&rate).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update currency rate"})
	}

	return ctx.JSON(fiber.Map{
		"message": "Курс валюты обновлен.",
		"rate":    rate,
	})
}

// DeleteCurrencyRate removes a rate.
func (c *CurrencyRateController) DeleteCurrencyRate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid rate ID"})
	}

	var rate Models.CurrencyRate
	if err := c.DB.First(&rate, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Currency rate not found"})
	}

	c.DB.Delete(&rate)

	return ctx.JSON(fiber.Map{"message": "Курс валюты удален."})
}

// GetCurrencyBankRates lists all scraped official rates.
func (c *CurrencyRateController) GetCurrencyBankRates(ctx *fiber.Ctx) error {
	var bankRates []Models.CurrencyBankRate
	if err := c.DB.Order("code").Find(&bankRates).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve bank rates"})
	}

	return ctx.JSON(bankRates)
}

// GetCurrencyBankRate returns the scraped official rate for a code, or null
// when the bank does not quote it.
func (c *CurrencyRateController) GetCurrencyBankRate(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	if _, err := Models.NewCurrency(code); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var bankRate Models.CurrencyBankRate
	if err := c.DB.Where("code = ?", code).First(&bankRate).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.JSON(fiber.Map{"bank_rate": nil})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve bank rate"})
	}

	return ctx.JSON(fiber.Map{"bank_rate": bankRate})
}

// parseForm parses and validates the payload. On a validation failure the
// response has already been written and (nil, ..., nil) is returned.
func (c *CurrencyRateController) parseForm(ctx *fiber.Ctx) (*CurrencyRateForm, Models.Currency, time.Time, error) {
	var form CurrencyRateForm

	if err := ctx.BodyParser(&form); err != nil {
		return nil, Models.Currency{}, time.Time{}, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if err := c.validate.Struct(form); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			messages := make(map[string]string)
			for _, fieldError := range validationErrors {
				messages[fieldError.Field()] = fieldError.Translate(c.translator)
			}
			return nil, Models.Currency{}, time.Time{}, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": messages})
		}
		return nil, Models.Currency{}, time.Time{}, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	currency, err := Models.NewCurrency(form.Code)
	if err != nil {
		return nil, Models.Currency{}, time.Time{}, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	startDate, _ := time.Parse("2006-01-02", form.StartDate)

	return &form, currency, startDate, nil
}
