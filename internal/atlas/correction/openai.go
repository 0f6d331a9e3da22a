package correction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ClientConfig configures the OpenAI responses endpoint and HTTP behavior.
type ClientConfig struct {
	ResponsesURL string
	APIKey       string
	Model        string
	HTTPClient   *http.Client
}

// Client implements Service against the OpenAI Responses API.
type Client struct {
	cfg ClientConfig
}

// NewClient builds an OpenAI-backed correction client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	if strings.TrimSpace(cfg.ResponsesURL) == "" {
		cfg.ResponsesURL = "https://api.openai.com/v1/responses"
	}
	return &Client{cfg: cfg}
}

// InferParent asks for the most plausible existing parent of a node.
func (c *Client) InferParent(ctx context.Context, req ParentInferenceRequest) (ParentResult, error) {
	prompt := buildParentInferencePrompt(req)
	result := ParentResult{Exchange: Exchange{Kind: KindParentInference, Prompt: prompt}}

	output, err := c.invoke(ctx, prompt)
	if err != nil {
		result.Exchange.Err = err.Error()
		return result, err
	}
	result.Exchange.Response = output
	result.ParentName = firstLine(output)
	if result.ParentName == "" {
		err := fmt.Errorf("parent inference reply is empty")
		result.Exchange.Err = err.Error()
		return result, err
	}
	return result, nil
}

// ResolveNodeRef asks for the best-matching existing node name for an
// unresolved reference.
func (c *Client) ResolveNodeRef(ctx context.Context, req NodeResolveRequest) (ResolveResult, error) {
	prompt := buildNodeResolvePrompt(req)
	result := ResolveResult{Exchange: Exchange{Kind: KindNodeResolve, Prompt: prompt}}

	output, err := c.invoke(ctx, prompt)
	if err != nil {
		result.Exchange.Err = err.Error()
		return result, err
	}
	result.Exchange.Response = output
	result.NodeName = firstLine(output)
	if result.NodeName == "" {
		err := fmt.Errorf("node resolution reply is empty")
		result.Exchange.Err = err.Error()
		return result, err
	}
	return result, nil
}

// RefineChains asks for thematic names and descriptions for the connector
// chains of one turn.
func (c *Client) RefineChains(ctx context.Context, reqs []ChainRequest) (ChainResult, error) {
	prompt := buildChainRefinePrompt(reqs)
	result := ChainResult{Exchange: Exchange{Kind: KindChainRefine, Prompt: prompt}}

	output, err := c.invoke(ctx, prompt)
	if err != nil {
		result.Exchange.Err = err.Error()
		return result, err
	}
	result.Exchange.Response = output

	payload := extractJSON(output)
	if payload == "" {
		err := fmt.Errorf("chain refinement reply contains no JSON object")
		result.Exchange.Err = err.Error()
		return result, err
	}
	if err := json.Unmarshal([]byte(payload), &result.Reply); err != nil {
		err = fmt.Errorf("decode chain refinement reply: %w", err)
		result.Exchange.Err = err.Error()
		return result, err
	}
	return result, nil
}

// invoke posts one prompt to the responses endpoint and returns the output
// text. Non-2xx statuses come back as *TransportError for retry
// classification.
func (c *Client) invoke(ctx context.Context, prompt string) (string, error) {
	apiKey := strings.TrimSpace(c.cfg.APIKey)
	model := strings.TrimSpace(c.cfg.Model)
	if apiKey == "" {
		return "", fmt.Errorf("api key is required")
	}
	if model == "" {
		return "", fmt.Errorf("model is required")
	}

	requestBody, err := json.Marshal(map[string]any{
		"model": model,
		"input": prompt,
	})
	if err != nil {
		return "", fmt.Errorf("marshal correction request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ResponsesURL, bytes.NewReader(requestBody))
	if err != nil {
		return "", fmt.Errorf("build correction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// Credential material is sent only as an Authorization header and is
	// never echoed in errors or trace records.
	req.Header.Set("Authorization", "Bearer "+apiKey)

	res, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("correction request failed: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, readErr := io.ReadAll(io.LimitReader(res.Body, 4096))
		if readErr != nil {
			return "", fmt.Errorf("read correction error body: %w", readErr)
		}
		return "", &TransportError{StatusCode: res.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode correction response: %w", err)
	}
	outputText := strings.TrimSpace(payload.OutputText)
	if outputText == "" {
		for _, item := range payload.Output {
			for _, content := range item.Content {
				if strings.TrimSpace(content.Text) != "" {
					outputText = strings.TrimSpace(content.Text)
					break
				}
			}
			if outputText != "" {
				break
			}
		}
	}
	if outputText == "" {
		return "", fmt.Errorf("correction response missing output text")
	}
	return outputText, nil
}

// firstLine trims a model reply down to its first non-empty line with any
// quoting stripped, the expected shape for single-name answers.
func firstLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		line = strings.Trim(strings.TrimSpace(line), "`\"'")
		if line != "" {
			return line
		}
	}
	return ""
}

// extractJSON pulls the outermost JSON object out of a reply that may be
// wrapped in code fences or prose.
func extractJSON(output string) string {
	start := strings.Index(output, "{")
	end := strings.LastIndex(output, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return output[start : end+1]
}
