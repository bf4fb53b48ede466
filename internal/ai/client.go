package ai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pathwai/pathwai-backend/internal/domain/entity"
)

// ErrNotConfigured возвращается, если не задан адрес API.
var ErrNotConfigured = errors.New("ai: baseURL не задан")

const defaultModel = "gpt-4o-mini"

// Client работает с OpenAI-совместимым API (chat/completions).
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient создаёт экземпляр клиента.
func NewClient(baseURL, apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Model возвращает имя используемой модели.
func (c *Client) Model() string {
	return c.model
}

func (c *Client) newRequest(ctx context.Context, payload map[string]any) (*http.Request, error) {
	if c.baseURL == "" {
		return nil, ErrNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errorBody map[string]any
		_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&errorBody)
		return nil, fmt.Errorf("ai: код ответа %d: %v", resp.StatusCode, errorBody)
	}
	return resp, nil
}

// chatCompletion выполняет обычный (не потоковый) запрос.
func (c *Client) chatCompletion(ctx context.Context, messages []entity.ChatMessage, maxTokens int, temperature float64) (string, error) {
	req, err := c.newRequest(ctx, map[string]any{
		"model":       c.model,
		"messages":    messages,
		"max_tokens":  maxTokens,
		"temperature": temperature,
	})
	if err != nil {
		return "", err
	}

	resp, err := c.do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("ai: decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("ai: пустой ответ")
	}
	return result.Choices[0].Message.Content, nil
}

// streamChat выполняет запрос со stream=true и передаёт текст в onDelta.
// Мелкие чанки копятся в буфере, чтобы не дёргать клиента на каждый токен.
func (c *Client) streamChat(ctx context.Context, messages []entity.ChatMessage, onDelta func(chunk string) error) error {
	req, err := c.newRequest(ctx, map[string]any{
		"model":    c.model,
		"messages": messages,
		"stream":   true,
	})
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	const flushThreshold = 20
	var buffer strings.Builder
	flush := func() error {
		if buffer.Len() == 0 {
			return nil
		}
		content := strings.ToValidUTF8(buffer.String(), "")
		buffer.Reset()
		if content == "" {
			return nil
		}
		return onDelta(content)
	}

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 64<<10), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}
		if data == "[DONE]" {
			return flush()
		}

		text := deltaText(data)
		if text == "" {
			continue
		}
		buffer.WriteString(text)
		if buffer.Len() >= flushThreshold {
			if err := flush(); err != nil {
				return err
			}
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("ai: read stream: %w", err)
	}
	return flush()
}

// deltaText достаёт choices[0].delta.content из события потока.
func deltaText(data string) string {
	var event struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal([]byte(data), &event); err != nil {
		if utf8.ValidString(data) && !strings.HasPrefix(data, "{") {
			return data
		}
		return ""
	}
	if len(event.Choices) == 0 {
		return ""
	}
	return event.Choices[0].Delta.Content
}
