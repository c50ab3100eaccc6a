package research

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"logic-agent-backend/config"
	"logic-agent-backend/utils"
	"net/http"
	"time"
)

const systemInstruction = "Be as detailed as possible."

// Client 外部搜索问答服务（Perplexity 兼容的 chat/completions 接口）
// 只读调用，不落任何本地状态
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

func NewClient() *Client {
	return &Client{
		httpClient: utils.NewHTTPClient(
			utils.WithTimeout(60 * time.Second),
		),
		baseURL: config.Cfg.Research.BaseURL,
		apiKey:  config.Cfg.Research.APIKey,
		model:   config.Cfg.Research.Model,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionRequest struct {
	Model               string        `json:"model"`
	Messages            []chatMessage `json:"messages"`
	Temperature         float64       `json:"temperature"`
	TopP                float64       `json:"top_p"`
	ReturnCitations     bool          `json:"return_citations"`
	SearchRecencyFilter string        `json:"search_recency_filter"`
	TopK                int           `json:"top_k"`
	Stream              bool          `json:"stream"`
	PresencePenalty     float64       `json:"presence_penalty"`
	FrequencyPenalty    float64       `json:"frequency_penalty"`
}

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// SearchWeb 检索实时外部信息
func (c *Client) SearchWeb(ctx context.Context, query string) (string, error) {
	return c.complete(ctx, query)
}

// SuggestThinkingModels 针对给定问题推荐适用的思维模型
func (c *Client) SuggestThinkingModels(ctx context.Context, problem string) (string, error) {
	prompt := "I'm facing the following problem: " + problem +
		". Please suggest some thinking models that can help me approach it."
	return c.complete(ctx, prompt)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body := completionRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemInstruction},
			{Role: "user", Content: prompt},
		},
		Temperature:         0.2,
		TopP:                0.9,
		ReturnCitations:     true,
		SearchRecencyFilter: "month",
		FrequencyPenalty:    1,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Add("Authorization", "Bearer "+c.apiKey)
	req.Header.Add("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call research api: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("research api returned %d: %s", resp.StatusCode, string(data))
	}

	var result completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("research api returned no choices")
	}

	return result.Choices[0].Message.Content, nil
}
