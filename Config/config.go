package Config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Holds everything read from .env at startup. Webhook URLs for Bitrix are
// keyed by scope ("hr", "my_crm") so callers resolve a client once instead of
// re-reading the environment.
type Settings struct {
	DatabasePath string

	JiraDSN string

	OpenAiBaseURL   string
	OpenAiToken     string
	OpenAiProxyURL  string
	OpenAiProxyAuth string

	TrelloKey   string
	TrelloToken string

	BitrixWebhooks map[string]string

	BankRatesURL string

	SpreadsheetLink string

	JWTSecret string

	EmailSMTPServer string
	EmailSMTPPort   int
	EmailUsername   string
	EmailPassword   string
	EmailFrom       string
}

var Current Settings

func Load() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment as is")
	}

	Current = Settings{
		DatabasePath:    getEnv("DATABASE_PATH", "database.db"),
		JiraDSN:         os.Getenv("JIRA_DB_DSN"),
		OpenAiBaseURL:   getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1/"),
		OpenAiToken:     os.Getenv("OPENAI_TOKEN"),
		OpenAiProxyURL:  os.Getenv("OPENAI_PROXY_URL"),
		OpenAiProxyAuth: os.Getenv("OPENAI_PROXY_AUTH"),
		TrelloKey:       os.Getenv("TRELLO_KEY"),
		TrelloToken:     os.Getenv("TRELLO_TOKEN"),
		BitrixWebhooks: map[string]string{
			"hr":     os.Getenv("BITRIX_WEBHOOK_HR"),
			"my_crm": os.Getenv("BITRIX_WEBHOOK_MY_CRM"),
		},
		BankRatesURL:    getEnv("BANK_RATES_URL", "https://www.cbr.ru/currency_base/daily/"),
		SpreadsheetLink: os.Getenv("STAFF_SPREADSHEET_LINK"),
		JWTSecret:       getEnv("JWT_SECRET", "secret"),
		EmailSMTPServer: os.Getenv("SMTP_SERVER"),
		EmailSMTPPort:   587,
		EmailUsername:   os.Getenv("SMTP_USERNAME"),
		EmailPassword:   os.Getenv("SMTP_PASSWORD"),
		EmailFrom:       os.Getenv("SMTP_FROM"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
