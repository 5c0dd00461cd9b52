package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/lucianjoshualj-cmyk/meu-faz-tudo/internal/domain"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4.1-mini"
	requestTimeout = 15 * time.Second
)

const systemPrompt = `Você é o "Meu Faz Tudo", um assistente pessoal via WhatsApp.
Personalidade: amigável, humano e claro.
Organiza agenda, finanças básicas e rotina saudável
(esportes, medicações, suplementação e alimentação).
Nunca prescreve nem dá diagnóstico.`

// nudgeText covers the odd empty completion so the user always hears back.
const nudgeText = "Entendi 😊 Me diz só mais um detalhe pra eu organizar certinho?"

// Client talks to the OpenAI Responses API.
type Client struct {
	// BaseURL is overridable for tests.
	BaseURL string

	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient creates a client for the given key; an empty model falls back
// to the default.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = defaultModel
	}
	return &Client{
		BaseURL:    defaultBaseURL,
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

type inputItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responsesRequest struct {
	Model string      `json:"model"`
	Input []inputItem `json:"input"`
}

type responsesReply struct {
	Output []struct {
		Type    string `json:"type"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"output"`
}

// Complete generates a reply from recent history plus the latest message.
// Errors are returned to the caller, which substitutes a fixed apology;
// nothing here ever reaches the user raw.
func (c *Client) Complete(ctx context.Context, history []domain.Turn, message string) (string, error) {
	input := make([]inputItem, 0, len(history)+2)
	input = append(input, inputItem{Role: "system", Content: systemPrompt})
	for _, t := range history {
		input = append(input, inputItem{Role: t.Role, Content: t.Content})
	}
	input = append(input, inputItem{Role: "user", Content: message})

	body, err := json.Marshal(responsesRequest{Model: c.model, Input: input})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/v1/responses", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call openai: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai error %d: %s", resp.StatusCode, string(raw))
	}

	var out responsesReply
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	var parts []string
	for _, item := range out.Output {
		if item.Type != "message" {
			continue
		}
		for _, part := range item.Content {
			if part.Type == "output_text" {
				parts = append(parts, part.Text)
			}
		}
	}
	text := strings.TrimSpace(strings.Join(parts, "\n"))
	if text == "" {
		return nudgeText, nil
	}
	return text, nil
}
