package Scrapper

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"Pulse/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const ratesPage = `<html><body>
<table class="data">
<thead><tr><th>Цифр. код</th><th>Букв. код</th><th>Единиц</th><th>Валюта</th><th>Курс</th></tr></thead>
<tbody>
<tr><td>840</td><td>USD</td><td>1</td><td>Доллар США</td><td>92,5000</td></tr>
<tr><td>978</td><td>EUR</td><td>1</td><td>Евро</td><td>100,2000</td></tr>
<tr><td>398</td><td>KZT</td><td>100</td><td>Тенге</td><td>19,4000</td></tr>
<tr><td colspan="5">итого</td></tr>
</tbody>
</table>
</body></html>`

const ratesPageUpdated = `<html><body>
<table class="data">
<tbody>
<tr><td>840</td><td>USD</td><td>1</td><td>Доллар США</td><td>93,1000</td></tr>
</tbody>
</table>
</body></html>`

func TestParseBankRates(t *testing.T) {
	rates, err := ParseBankRates(strings.NewReader(ratesPage))

	require.NoError(t, err)
	require.Len(t, rates, 3)

	assert.Equal(t, "USD", rates[0].Code)
	assert.Equal(t, "Доллар США", rates[0].Name)
	assert.Equal(t, 92.5, rates[0].Rate)

	assert.Equal(t, "EUR", rates[1].Code)
	assert.Equal(t, 100.2, rates[1].Rate)

	// Rates quoted per 100 units come back normalized to one unit.
	assert.Equal(t, "KZT", rates[2].Code)
	assert.InDelta(t, 0.194, rates[2].Rate, 1e-9)
}

func TestParseBankRates_EmptyPage(t *testing.T) {
	_, err := ParseBankRates(strings.NewReader("<html><body><p>нет данных</p></body></html>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no rates found")
}

func TestFetchBankRates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(ratesPage))
	}))
	defer srv.Close()

	rates, err := FetchBankRates(srv.URL)

	require.NoError(t, err)
	require.Len(t, rates, 3)
	assert.Equal(t, "USD", rates[0].Code)
	assert.Equal(t, 92.5, rates[0].Rate)
}

func TestFetchBankRates_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := FetchBankRates(srv.URL)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Service Unavailable")
}

func TestSyncBankRates_Upsert(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "rates.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.CurrencyBankRate{}))

	previous := Models.DB
	Models.DB = db
	t.Cleanup(func() { Models.DB = previous })

	page := ratesPage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()

	require.NoError(t, SyncBankRates(srv.URL))

	var count int64
	db.Model(&Models.CurrencyBankRate{}).Count(&count)
	assert.Equal(t, int64(3), count)

	// A second sync updates existing rows instead of duplicating them.
	page = ratesPageUpdated
	require.NoError(t, SyncBankRates(srv.URL))

	db.Model(&Models.CurrencyBankRate{}).Count(&count)
	assert.Equal(t, int64(3), count)

	var usd Models.CurrencyBankRate
	require.NoError(t, db.Where("code = ?", "USD").First(&usd).Error)
	assert.Equal(t, 93.1, usd.Rate)
}
