package Models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrDefaultCurrencyRate is returned when someone tries to store a rate for
// the default currency.
var ErrDefaultCurrencyRate = errors.New("no rates for default currency")

// CurrencyRate is a point-in-time conversion rate for one currency, keyed by
// (code, start date). Dates are stored as "2006-01-02" strings, day
// granularity.
type CurrencyRate struct {
	gorm.Model
	Code      string  `json:"code" gorm:"index:idx_currency_rates_code_start,unique"`
	Rate      float64 `json:"rate"`
	StartTime string  `json:"start_time" gorm:"index:idx_currency_rates_code_start,unique"`
	UpdatedBy string  `json:"updated_by"`
}

func CreateCurrencyRate(currency Currency, rate float64, startDate time.Time, updatedBy string) (*CurrencyRate, error) {
	if currency.IsDefault() {
		return nil, ErrDefaultCurrencyRate
	}

	model := &CurrencyRate{
		Code:      currency.Code(),
		Rate:      rate,
		StartTime: startDate.Format("2006-01-02"),
	}

	if updatedBy != "" {
		model.UpdatedBy = updatedBy
	}

	return model, nil
}

// Edit replaces the rate values. The attribution is kept as is when the
// caller passes no user name; the old behavior of clearing it on every edit
// was a defect.
func (r *CurrencyRate) Edit(currency Currency, rate float64, startDate time.Time, updatedBy string) error {
	if currency.IsDefault() {
		return ErrDefaultCurrencyRate
	}

	r.Code = currency.Code()
	r.Rate = rate
	r.StartTime = startDate.Format("2006-01-02")

	if updatedBy != "" {
		r.UpdatedBy = updatedBy
	}

	return nil
}

func (r *CurrencyRate) Currency() Currency {
	currency, _ := NewCurrency(r.Code)
	return currency
}

func (r *CurrencyRate) StartDate() time.Time {
	date, _ := time.Parse("2006-01-02", r.StartTime)
	return date
}

// CurrencyBankRate is the official bank rate scraped from the central bank
// page, used as a reference value next to the managed rates.
type CurrencyBankRate struct {
	gorm.Model
	Code      string    `json:"code" gorm:"uniqueIndex"`
	Name      string    `json:"name"`
	Rate      float64   `json:"rate"`
	FetchedAt time.Time `json:"fetched_at"`
}
