package Models

import "fmt"

// DefaultCurrencyCode is the organization's base currency. It is its own
// unit, so no conversion rate record may ever exist for it.
const DefaultCurrencyCode = "RUB"

var currencyCodes = []string{"RUB", "USD", "EUR", "KZT", "BYN", "GBP", "CNY", "AMD", "GEL"}

// Currency is a validated ISO-like currency code.
type Currency struct {
	code string
}

func NewCurrency(code string) (Currency, error) {
	for _, known := range currencyCodes {
		if code == known {
			return Currency{code: code}, nil
		}
	}
	return Currency{}, fmt.Errorf("wrong currency code: %s", code)
}

func (c Currency) Code() string {
	return c.code
}

func (c Currency) IsDefault() bool {
	return c.code == DefaultCurrencyCode
}

func CurrencyCodes() []string {
	codes := make([]string, len(currencyCodes))
	copy(codes, currencyCodes)
	return codes
}
