package OpenAi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	ModelChat                = "gpt-4"
	ModelChatExtendedContext = "gpt-3.5-turbo-16k"
	ModelText                = "text-davinci-003"
	ModelCode                = "code-davinci-002"
	ModelCodeEdit            = "code-davinci-edit-001"
)

const defaultTokenLimit = 2000

var modelTokenLimits = map[string]int{
	ModelChat:                8000,
	ModelText:                3000,
	ModelCode:                2000,
	ModelChatExtendedContext: 32000,
}

var modelTemperatures = map[string]float64{
	ModelChat:                1,
	ModelText:                1,
	ModelChatExtendedContext: 1,
	ModelCode:                0.3,
	ModelCodeEdit:            0.3,
}

// Assistant answers come back with citation markers like 【0†source】 that we
// never want in outgoing comments.
var citationMarkers = regexp.MustCompile(`【[^】]*】`)

// ApiError is the upstream error envelope, kept typed so workflows can
// degrade instead of propagating.
type ApiError struct {
	Message    string
	StatusCode int
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("openai API error: %s (status %d)", e.Message, e.StatusCode)
}

// Client talks to the OpenAI REST API. Assistant thread endpoints get the
// beta feature header attached.
type Client struct {
	BaseURL    string
	Token      string
	httpClient *http.Client
}

// NewClient builds a client. Proxy settings are optional; proxyAuth is sent
// as a Proxy-Authorization header value on the CONNECT request.
func NewClient(baseURL, token, proxyURL, proxyAuth string) *Client {
	httpClient := &http.Client{Timeout: 120 * time.Second}

	if proxyURL != "" {
		if parsed, err := url.Parse(proxyURL); err == nil {
			transport := &http.Transport{Proxy: http.ProxyURL(parsed)}
			if proxyAuth != "" {
				transport.ProxyConnectHeader = http.Header{
					"Proxy-Authorization": []string{proxyAuth},
				}
			}
			httpClient.Transport = transport
		}
	}

	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Token:      token,
		httpClient: httpClient,
	}
}

type errorBody struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

type completionResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
	Error *errorBody `json:"error"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *errorBody `json:"error"`
}

type runResponse struct {
	AssistantRun
	Error *errorBody `json:"error"`
}

type threadMessagesResponse struct {
	Data []struct {
		Content []struct {
			Text struct {
				Value string `json:"value"`
			} `json:"text"`
		} `json:"content"`
	} `json:"data"`
	Error *errorBody `json:"error"`
}

// Completion runs a one-shot text completion and returns the trimmed text of
// the first choice.
func (c *Client) Completion(model, text string, maxTokens int) (string, error) {
	payload := modelPayload(model)
	payload["prompt"] = text
	payload["max_tokens"] = maxTokens

	var response completionResponse
	status, err := c.doRequest("POST", "completions", payload, false, &response)
	if err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", &ApiError{Message: response.Error.Message, StatusCode: status}
	}
	if len(response.Choices) == 0 {
		return "", &ApiError{Message: "no choices provided", StatusCode: status}
	}

	return strings.TrimSpace(response.Choices[0].Text), nil
}

// ChatCompletion runs a chat completion over the given messages and returns
// the trimmed content of the first choice.
func (c *Client) ChatCompletion(model string, messages []ChatMessage) (string, error) {
	payload := modelPayload(model)
	payload["messages"] = chatMessagesPayload(messages)

	var response chatResponse
	status, err := c.doRequest("POST", "chat/completions", payload, false, &response)
	if err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", &ApiError{Message: response.Error.Message, StatusCode: status}
	}
	if len(response.Choices) == 0 {
		return "", &ApiError{Message: "no choices provided", StatusCode: status}
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

// Edit rewrites text following an instruction.
func (c *Client) Edit(model, text, instruction string) (string, error) {
	payload := modelPayload(model)
	if text != "" {
		payload["input"] = text
	}
	payload["instruction"] = instruction

	var response completionResponse
	status, err := c.doRequest("POST", "edits", payload, false, &response)
	if err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", &ApiError{Message: response.Error.Message, StatusCode: status}
	}
	if len(response.Choices) == 0 {
		return "", &ApiError{Message: "no choices provided", StatusCode: status}
	}

	return strings.TrimSpace(response.Choices[0].Text), nil
}

// CreateThreadAndRun starts a new assistant thread seeded with messages and
// runs it.
func (c *Client) CreateThreadAndRun(assistantID string, messages []ChatMessage) (*AssistantRun, error) {
	payload := map[string]interface{}{
		"assistant_id": assistantID,
		"thread": map[string]interface{}{
			"messages": chatMessagesPayload(messages),
		},
	}

	var response runResponse
	status, err := c.doRequest("POST", "threads/runs", payload, true, &response)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, &ApiError{Message: response.Error.Message, StatusCode: status}
	}

	run := response.AssistantRun
	return &run, nil
}

// CreateMessage appends a message to an existing thread.
func (c *Client) CreateMessage(threadID string, message ChatMessage) error {
	payload := map[string]interface{}{
		"role":    message.Role.Value(),
		"content": message.Content,
	}
	if message.FileID != "" {
		payload["file_ids"] = []string{message.FileID}
	}

	var response runResponse
	status, err := c.doRequest("POST", "threads/"+threadID+"/messages", payload, true, &response)
	if err != nil {
		return err
	}
	if response.Error != nil {
		return &ApiError{Message: response.Error.Message, StatusCode: status}
	}

	return nil
}

// CreateRun starts a run of the assistant on an existing thread.
func (c *Client) CreateRun(assistantID, threadID string) (*AssistantRun, error) {
	payload := map[string]interface{}{"assistant_id": assistantID}

	var response runResponse
	status, err := c.doRequest("POST", "threads/"+threadID+"/runs", payload, true, &response)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, &ApiError{Message: response.Error.Message, StatusCode: status}
	}

	run := response.AssistantRun
	return &run, nil
}

// RetrieveRun polls the status of a run.
func (c *Client) RetrieveRun(threadID, runID string) (*AssistantRun, error) {
	var response runResponse
	status, err := c.doRequest("GET", "threads/"+threadID+"/runs/"+runID, nil, true, &response)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, &ApiError{Message: response.Error.Message, StatusCode: status}
	}

	run := response.AssistantRun
	return &run, nil
}

// GetAssistantAnswer fetches the newest message of a thread with citation
// markers stripped out.
func (c *Client) GetAssistantAnswer(threadID string) (string, error) {
	var response threadMessagesResponse
	status, err := c.doRequest("GET", "threads/"+threadID+"/messages", nil, true, &response)
	if err != nil {
		return "", err
	}
	if response.Error != nil {
		return "", &ApiError{Message: response.Error.Message, StatusCode: status}
	}
	if len(response.Data) == 0 || len(response.Data[0].Content) == 0 {
		return "", &ApiError{Message: "no messages in thread", StatusCode: status}
	}

	text := response.Data[0].Content[0].Text.Value

	return citationMarkers.ReplaceAllString(text, ""), nil
}

func (c *Client) doRequest(method, path string, payload interface{}, beta bool, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return 0, fmt.Errorf("error marshaling JSON: %v", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, c.BaseURL+"/"+path, body)
	if err != nil {
		return 0, fmt.Errorf("error creating request: %v", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if beta {
		req.Header.Set("OpenAI-Beta", "assistants=v1")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("error sending request: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("error reading response: %v", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return resp.StatusCode, fmt.Errorf("error unmarshaling response: %v", err)
	}

	return resp.StatusCode, nil
}

func modelPayload(model string) map[string]interface{} {
	payload := map[string]interface{}{"model": model}
	if temperature, ok := modelTemperatures[model]; ok {
		payload["temperature"] = temperature
	}
	return payload
}

func chatMessagesPayload(messages []ChatMessage) []map[string]string {
	items := make([]map[string]string, 0, len(messages))
	for _, message := range messages {
		items = append(items, map[string]string{
			"role":    message.Role.Value(),
			"content": message.Content,
		})
	}
	return items
}

// GetModelTokenLimit returns the context window of a model, falling back to a
// conservative default for unknown models.
func GetModelTokenLimit(model string) int {
	if limit, ok := modelTokenLimits[model]; ok {
		return limit
	}
	return defaultTokenLimit
}

// GetEstimateTokenCount is a crude pre-flight sizing check, not a tokenizer.
// Latin-alphabet text tokenizes about four times cheaper per character.
func GetEstimateTokenCount(text string, latinText bool) int {
	factor := 1.1
	if latinText {
		factor = 0.25
	}

	return int(math.Round(float64(utf8.RuneCountInString(text)) * factor))
}
