// Package assist answers free-text questions about the camera fleet by
// sending a snapshot of the caller's visible devices to the Gemini API.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cammanager/internal/database"
	"cammanager/internal/logger"
)

const endpoint = "https://generativelanguage.googleapis.com/v1beta/models/%s:generateContent"

// Fallback messages shown to the user instead of raw errors.
const (
	msgNoKey   = "Error: API key not configured. Please set the assistant API key."
	msgFailure = "Sorry, I encountered an error analyzing your system."
)

type Client struct {
	apiKey string
	model  string
	client *http.Client
	sem    chan struct{} // concurrency limiter
}

func New(apiKey, model string) *Client {
	return &Client{
		apiKey: apiKey,
		model:  model,
		client: &http.Client{Timeout: 30 * time.Second},
		sem:    make(chan struct{}, 2), // max 2 concurrent queries
	}
}

func (c *Client) Enabled() bool { return c.apiKey != "" }

// Analyze answers a question against the given device snapshot and
// returns a markdown answer. Failures degrade to a fixed apology string
// rather than an error: a broken assistant never breaks the dashboard.
func (c *Client) Analyze(ctx context.Context, query string, cameras []database.Camera, recorders []database.Recorder) string {
	if c.apiKey == "" {
		return msgNoKey
	}

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return msgFailure
	}

	answer, err := c.generate(ctx, buildPrompt(cameras, recorders), query)
	if err != nil {
		logger.Assist.Warn().Err(err).Msg("assistant query failed")
		return msgFailure
	}
	if answer == "" {
		return "I couldn't generate a response."
	}
	return answer
}

// buildPrompt serializes the visible devices into the system context.
// Only display fields go over the wire; recorder credentials never do.
func buildPrompt(cameras []database.Camera, recorders []database.Recorder) string {
	type recView struct {
		Name     string `json:"name"`
		IP       string `json:"ip"`
		Location string `json:"location"`
	}
	type camView struct {
		Name        string `json:"name"`
		Status      string `json:"status"`
		Location    string `json:"location"`
		InstallDate string `json:"installDate"`
		Type        string `json:"type"`
		IP          string `json:"ip"`
	}

	recs := make([]recView, 0, len(recorders))
	for _, r := range recorders {
		recs = append(recs, recView{Name: r.Name, IP: r.IP, Location: r.Location})
	}
	cams := make([]camView, 0, len(cameras))
	for _, c := range cameras {
		cams = append(cams, camView{
			Name: c.Name, Status: c.Status, Location: c.Location,
			InstallDate: c.InstallDate, Type: c.Type, IP: c.IP,
		})
	}

	recJSON, _ := json.Marshal(recs)
	camJSON, _ := json.Marshal(cams)

	return fmt.Sprintf(`You are an expert Security System Administrator assistant.
You have access to the following system data in JSON format:

Recorders: %s
Cameras: %s

Answer the user's question based strictly on this data.
If you suggest technical actions, keep them brief.
Format the response in Markdown.
If the user asks for a summary, provide a breakdown by status and location.`, recJSON, camJSON)
}

func (c *Client) generate(ctx context.Context, systemContext, query string) (string, error) {
	type part struct {
		Text string `json:"text"`
	}
	type content struct {
		Role  string `json:"role"`
		Parts []part `json:"parts"`
	}
	reqBody := struct {
		Contents []content `json:"contents"`
	}{
		Contents: []content{
			{Role: "user", Parts: []part{{Text: systemContext}}},
			{Role: "user", Parts: []part{{Text: query}}},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, 25*time.Second)
	defer cancel()

	url := fmt.Sprintf(endpoint, c.model)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini http: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini read: %w", err)
	}
	return parseResponse(body)
}

// parseResponse extracts the answer text from the first candidate.
func parseResponse(body []byte) (string, error) {
	var resp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse gemini json: %w", err)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return strings.TrimSpace(sb.String()), nil
}
