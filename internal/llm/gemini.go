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
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Client возвращает имена товаров-дополнений к позиции корзины.
type Client interface {
	Suggest(ctx context.Context, productName string, price float64, exclude []string) ([]string, error)
}

// GeminiClient ходит в Gemini generateContent по REST.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) Suggest(ctx context.Context, productName string, price float64, exclude []string) ([]string, error) {
	prompt := buildPrompt(productName, price, exclude)

	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("llm: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm: generateContent: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("llm: generateContent status %d: %s", resp.StatusCode, string(b))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("llm: decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("llm: empty response")
	}

	return ParseProductNames(out.Candidates[0].Content.Parts[0].Text), nil
}

func buildPrompt(productName string, price float64, exclude []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A user added the following product to their cart:\n")
	fmt.Fprintf(&b, "Product: %s | Price: %.2f$\n\n", productName, price)
	b.WriteString("Recommend exactly 5 complementary products that pair well with this item.\n\n")
	b.WriteString("Format your response as a clean numbered list:\n")
	b.WriteString("1. Product Name, Price\n2. ...\n3. ...\n4. ...\n5. ...\n\n")
	b.WriteString("Only list product name, price. Do not include descriptions, explanations, or extra text.\n")
	if len(exclude) > 0 {
		fmt.Fprintf(&b, "Last instruction: Do not include these products in your recommendation: %s",
			strings.Join(exclude, ", "))
	}
	return b.String()
}
