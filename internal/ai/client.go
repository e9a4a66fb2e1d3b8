package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrNoAPIKey is returned by GenerateItinerary when no key is configured.
// SummarizeChat degrades to a placeholder instead.
var ErrNoAPIKey = errors.New("generative AI key not configured")

// Client talks to the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      "gemini-1.5-flash",
		baseURL:    "https://generativelanguage.googleapis.com/v1beta",
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Activity is one generated itinerary entry.
type Activity struct {
	Title       string `json:"title"`
	Time        string `json:"time"`
	Description string `json:"description"`
	Day         int    `json:"day"`
}

// ChatLine is one message of the chat log being summarized.
type ChatLine struct {
	Sender string
	Text   string
}

type generateRequest struct {
	Contents []requestContent `json:"contents"`
}

type requestContent struct {
	Parts []requestPart `json:"parts"`
}

type requestPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GenerateItinerary asks the model for a day-by-day plan and parses the
// strict-JSON reply. Models occasionally wrap the array in markdown code
// fences despite the prompt, so those are stripped before parsing. Any
// failure is returned to the caller; itinerary generation never degrades
// silently.
func (c *Client) GenerateItinerary(ctx context.Context, destination string, days int) ([]Activity, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if days <= 0 {
		days = 3
	}

	prompt := fmt.Sprintf(`You are a travel assistant. Create a fun, realistic %d-day itinerary for %s.
Return strictly a JSON array of objects. Do not wrap in markdown code blocks. Each object must have:
- "title" (short activity name)
- "time" (e.g. "10:00 AM")
- "description" (one sentence detail)
- "day" (number 1 to %d)
Generate about 2-3 activities per day.`, days, destination, days)

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("generate itinerary: %w", err)
	}

	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	var activities []Activity
	if err := json.Unmarshal([]byte(text), &activities); err != nil {
		return nil, fmt.Errorf("generate itinerary: parse model reply: %w", err)
	}
	return activities, nil
}

// SummarizeChat condenses the chat log into a few bullet points. Failures
// here never surface as errors; the caller always gets displayable text.
func (c *Client) SummarizeChat(ctx context.Context, messages []ChatLine) string {
	if len(messages) == 0 {
		return "No messages to summarize."
	}
	if c.apiKey == "" {
		return "AI summary unavailable."
	}

	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, m.Sender+": "+m.Text)
	}
	prompt := "Summarize the following group chat travel plans and key decisions in 3 bullet points:\n\n" +
		strings.Join(lines, "\n")

	text, err := c.generate(ctx, prompt)
	if err != nil {
		return "Unable to summarize at this time."
	}
	return text
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []requestContent{{Parts: []requestPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model API returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("model reply has no candidates")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
