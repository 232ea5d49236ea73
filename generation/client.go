package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/launchlab/productforge/models"
)

const defaultRequestTimeout = 120 * time.Second

// Request is the outbound generation contract: one intent plus the
// task-specific context it needs.
type Request struct {
	Intent  models.GenerationIntent `json:"intent"`
	Context RequestContext          `json:"context"`
}

// RequestContext carries the task-specific fields; unused fields are omitted.
type RequestContext struct {
	ProductName        string             `json:"productName,omitempty"`
	ProductType        models.ProductType `json:"productType,omitempty"`
	Description        string             `json:"description,omitempty"`
	TargetAudience     string             `json:"targetAudience,omitempty"`
	ChapterID          string             `json:"chapterId,omitempty"`
	ChapterTitle       string             `json:"chapterTitle,omitempty"`
	ChapterDescription string             `json:"chapterDescription,omitempty"`
	KeyPoints          []string           `json:"keyPoints,omitempty"`
}

// Response is the inbound contract. Which field is populated depends on the
// intent: outline for outline, structure for structure, chapter for
// chapter-content, outline (with content fields filled) for all-chapters.
type Response struct {
	Outline   *models.ContentOutline   `json:"outline,omitempty"`
	Structure *models.ProductStructure `json:"structure,omitempty"`
	Chapter   *models.ChapterContent   `json:"chapter,omitempty"`
	Stats     *Stats                   `json:"stats,omitempty"`
}

// Stats are optional generation metrics reported by the service.
type Stats struct {
	ChaptersGenerated int `json:"chaptersGenerated"`
	TotalWordCount    int `json:"totalWordCount"`
	EstimatedPages    int `json:"estimatedPages"`
}

// Client is the boundary to the external generation service.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

type httpClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewHTTPClient creates a Client speaking JSON over HTTP to the generation
// service.
func NewHTTPClient(baseURL, apiKey string) Client {
	return &httpClient{
		client:  &http.Client{Timeout: defaultRequestTimeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *httpClient) Generate(ctx context.Context, req Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generation request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build generation request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generation request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generation response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp struct {
			Error string `json:"error"`
		}
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != "" {
			return nil, fmt.Errorf("generation service returned status %d: %s", resp.StatusCode, errResp.Error)
		}
		return nil, fmt.Errorf("generation service returned status %d", resp.StatusCode)
	}

	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode generation response: %w", err)
	}
	return &result, nil
}
