package Trello

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Card is a Trello card, trimmed to what the counseling workflow reads.
type Card struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Desc string `json:"desc"`
}

// Api is a minimal Trello REST client authorized with the key/token query
// pair.
type Api struct {
	BaseURL    string
	Key        string
	Token      string
	httpClient *http.Client
}

func NewApi(key, token string) *Api {
	return &Api{
		BaseURL:    "https://api.trello.com/1",
		Key:        key,
		Token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// GetCard fetches one card by id.
func (a *Api) GetCard(cardID string) (*Card, error) {
	endpoint := fmt.Sprintf("%s/cards/%s?key=%s&token=%s",
		a.BaseURL, cardID, url.QueryEscape(a.Key), url.QueryEscape(a.Token))

	resp, err := a.httpClient.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("trello API error: status %d: %s", resp.StatusCode, string(body))
	}

	var card Card
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, fmt.Errorf("error unmarshaling card: %v", err)
	}

	return &card, nil
}

// CreateCardComment posts a comment onto a card.
func (a *Api) CreateCardComment(cardID, text string) error {
	endpoint := fmt.Sprintf("%s/cards/%s/actions/comments?key=%s&token=%s&text=%s",
		a.BaseURL, cardID, url.QueryEscape(a.Key), url.QueryEscape(a.Token), url.QueryEscape(text))

	resp, err := a.httpClient.Post(endpoint, "application/json", nil)
	if err != nil {
		return fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("trello API error: status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
