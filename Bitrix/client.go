package Bitrix

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	ScopeHR    = "hr"
	ScopeMyCRM = "my_crm"
)

// Client calls the Bitrix24 REST API through one inbound webhook URL. The
// webhook itself carries the identity, so there is no separate auth step.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

func NewClient(webhookURL string) *Client {
	return &Client{
		webhookURL: strings.TrimRight(webhookURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type callResponse struct {
	Result           json.RawMessage `json:"result"`
	ErrorCode        string          `json:"error"`
	ErrorDescription string          `json:"error_description"`
}

// Call invokes one REST method (e.g. "crm.deal.list") and returns the raw
// result payload.
func (c *Client) Call(method string, params map[string]interface{}) (json.RawMessage, error) {
	jsonData, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("error marshaling JSON: %v", err)
	}

	req, err := http.NewRequest("POST", c.webhookURL+"/"+method, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %v", err)
	}

	var decoded callResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("error unmarshaling response: %v", err)
	}

	if decoded.ErrorCode != "" {
		return nil, fmt.Errorf("bitrix API error %s: %s", decoded.ErrorCode, decoded.ErrorDescription)
	}

	return decoded.Result, nil
}

// ClientFactory hands out one client per webhook scope. The portal exposes
// separate webhook identities for HR lookups and CRM timeline writes, so the
// scope is resolved once per workflow instead of re-reading configuration.
type ClientFactory struct {
	webhooks map[string]string
	clients  map[string]*Client
}

func NewClientFactory(webhooks map[string]string) *ClientFactory {
	return &ClientFactory{
		webhooks: webhooks,
		clients:  make(map[string]*Client),
	}
}

func (f *ClientFactory) ClientFor(scope string) (*Client, error) {
	if client, ok := f.clients[scope]; ok {
		return client, nil
	}

	webhookURL, ok := f.webhooks[scope]
	if !ok || webhookURL == "" {
		return nil, fmt.Errorf("no bitrix webhook configured for scope %q", scope)
	}

	client := NewClient(webhookURL)
	f.clients[scope] = client

	return client, nil
}
