package Scrapper

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"time"

	"Pulse/Models"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"gorm.io/gorm"
)

// FetchBankRates crawls the central bank daily rates page and collects the
// quotation table rows.
func FetchBankRates(pageURL string) ([]Models.CurrencyBankRate, error) {
	client := colly.NewCollector()
	client.SetRequestTimeout(30 * time.Second)

	fetchedAt := time.Now()
	var rates []Models.CurrencyBankRate

	client.OnHTML("table.data tbody tr", func(row *colly.HTMLElement) {
		var cells []string
		row.ForEach("td", func(_ int, cell *colly.HTMLElement) {
			cells = append(cells, cell.Text)
		})

		if rate, ok := rateFromCells(cells, fetchedAt); ok {
			rates = append(rates, rate)
		}
	})

	if err := client.Visit(pageURL); err != nil {
		return nil, fmt.Errorf("error fetching bank rates page: %v", err)
	}

	if len(rates) == 0 {
		return nil, fmt.Errorf("no rates found on bank page")
	}

	return rates, nil
}

// ParseBankRates reads the rates table from an already fetched page.
func ParseBankRates(page io.Reader) ([]Models.CurrencyBankRate, error) {
	doc, err := goquery.NewDocumentFromReader(page)
	if err != nil {
		return nil, fmt.Errorf("error parsing bank rates page: %v", err)
	}

	fetchedAt := time.Now()
	var rates []Models.CurrencyBankRate

	doc.Find("table.data tbody tr").Each(func(i int, row *goquery.Selection) {
		var cells []string
		row.Find("td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, cell.Text())
		})

		if rate, ok := rateFromCells(cells, fetchedAt); ok {
			rates = append(rates, rate)
		}
	})

	if len(rates) == 0 {
		return nil, fmt.Errorf("no rates found on bank page")
	}

	return rates, nil
}

// rateFromCells maps one table row to a rate. Expected row shape:
// digital code | letter code | units | name | rate. The rate column uses a
// comma decimal separator; rates are normalized to one currency unit.
func rateFromCells(cells []string, fetchedAt time.Time) (Models.CurrencyBankRate, bool) {
	if len(cells) < 5 {
		return Models.CurrencyBankRate{}, false
	}

	code := strings.TrimSpace(cells[1])
	unitsText := strings.TrimSpace(cells[2])
	name := strings.TrimSpace(cells[3])
	rateText := strings.TrimSpace(cells[4])

	units, err := strconv.Atoi(strings.ReplaceAll(unitsText, " ", ""))
	if err != nil || units == 0 {
		return Models.CurrencyBankRate{}, false
	}

	rate, err := strconv.ParseFloat(strings.ReplaceAll(rateText, ",", "."), 64)
	if err != nil {
		return Models.CurrencyBankRate{}, false
	}

	return Models.CurrencyBankRate{
		Code:      code,
		Name:      name,
		Rate:      rate / float64(units),
		FetchedAt: fetchedAt,
	}, true
}

// SyncBankRates refreshes the stored bank rates from the central bank page.
func SyncBankRates(pageURL string) error {
	rates, err := FetchBankRates(pageURL)
	if err != nil {
		return err
	}

	for _, rate := range rates {
		var existing Models.CurrencyBankRate
		result := Models.DB.Where("code = ?", rate.Code).First(&existing)
		if result.Error != nil {
			if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
				log.Printf("Error looking up bank rate %s: %v", rate.Code, result.Error)
				continue
			}
			if err := Models.DB.Create(&rate).Error; err != nil {
				log.Printf("Error saving bank rate %s: %v", rate.Code, err)
			}
			continue
		}

		existing.Name = rate.Name
		existing.Rate = rate.Rate
		existing.FetchedAt = rate.FetchedAt
		if err := Models.DB.Save(&existing).Error; err != nil {
			log.Printf("Error updating bank rate %s: %v", rate.Code, err)
		}
	}

	log.Printf("Synced %d bank rates", len(rates))

	return nil
}
