package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultLLMEndpoint points to a local OpenAI-compatible endpoint.
	DefaultLLMEndpoint = "http://127.0.0.1:8845/v1"
	// DefaultLLMModel is the default judge model name.
	DefaultLLMModel = "Qwen/Qwen2.5-7B-Instruct"

	defaultLLMTimeout = 30 * time.Second
)

const judgePrompt = `Sen bir veri kalite denetçisisin.
Aşağıdaki metin kurumsal chatbot pretrain datasına girecek.
Risk skoru: %.2f (0.0 = güvenli, 1.0 = yüksek risk)

Kurallar:
- Metni yeniden yazma
- Yeni bilgi ekleme
- Sadece hata varsa minimal temizlik yap

Kararlar:
- PII → CLEAN veya DROP
- Boilerplate / policy / footer → DROP
- Spam / SEO / anlamsız tekrar → DROP
- Toxic / adult / hate → DROP
- Temiz → KEEP

Sadece JSON döndür:
{
  "action": "KEEP" | "DROP" | "CLEAN",
  "reason": "ok|pii|boilerplate|spam|toxic|low_info",
  "clean_text": ""
}

Metin:
<<<%s>>>`

// LLMJudge asks an OpenAI-compatible chat completions endpoint to review a
// document. The model must answer with a single JSON object.
type LLMJudge struct {
	endpointURL string
	model       string
	client      *http.Client
}

// NewLLMJudge builds a judge for the given endpoint and model. A zero timeout
// falls back to the default.
func NewLLMJudge(endpoint, model string, timeout time.Duration) *LLMJudge {
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = DefaultLLMModel
	}
	return &LLMJudge{
		endpointURL: chatCompletionsURL(normalizeEndpoint(endpoint)),
		model:       trimmedModel,
		client:      &http.Client{Timeout: timeout},
	}
}

func (j *LLMJudge) Name() string {
	return "llm"
}

// ModelName returns the configured model identifier.
func (j *LLMJudge) ModelName() string {
	if j == nil {
		return ""
	}
	return j.model
}

func (j *LLMJudge) Judge(ctx context.Context, text string, riskScore float64) (Verdict, error) {
	if j == nil {
		return Verdict{}, fmt.Errorf("llm judge is nil")
	}
	if strings.TrimSpace(text) == "" {
		return Verdict{}, fmt.Errorf("text is required")
	}

	body, err := json.Marshal(chatRequest{
		Model: j.model,
		Messages: []chatMessage{
			{Role: "user", Content: fmt.Sprintf(judgePrompt, riskScore, text)},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal judge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, j.endpointURL, bytes.NewReader(body))
	if err != nil {
		return Verdict{}, fmt.Errorf("build judge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := j.client.Do(httpReq)
	if err != nil {
		return Verdict{}, fmt.Errorf("send judge request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Verdict{}, fmt.Errorf("read judge response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errPayload chatErrorResponse
		if unmarshalErr := json.Unmarshal(respBody, &errPayload); unmarshalErr == nil {
			if msg := strings.TrimSpace(errPayload.Error.Message); msg != "" {
				return Verdict{}, fmt.Errorf("judge endpoint status %d: %s", resp.StatusCode, msg)
			}
		}
		return Verdict{}, fmt.Errorf("judge endpoint status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return Verdict{}, fmt.Errorf("decode judge response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Verdict{}, fmt.Errorf("judge response missing choices")
	}

	return parseVerdict(text, parsed.Choices[0].Message.Content)
}

// parseVerdict maps the model's JSON answer to a Verdict. CLEAN collapses to
// KEEP with the cleaned text; unknown actions are an error so the caller can
// fail closed.
func parseVerdict(original, content string) (Verdict, error) {
	content = strings.TrimSpace(content)

	// Some models wrap the object in a markdown fence.
	if start, end := strings.Index(content, "{"), strings.LastIndex(content, "}"); start >= 0 && end > start {
		content = content[start : end+1]
	}

	var answer struct {
		Action    string `json:"action"`
		Reason    string `json:"reason"`
		CleanText string `json:"clean_text"`
	}
	if err := json.Unmarshal([]byte(content), &answer); err != nil {
		return Verdict{}, fmt.Errorf("decode judge verdict: %w", err)
	}

	reason := strings.TrimSpace(answer.Reason)
	if reason == "" {
		reason = "unknown"
	}

	switch strings.ToUpper(strings.TrimSpace(answer.Action)) {
	case "KEEP":
		return Verdict{Action: ActionKeep, Text: original, Reason: reason}, nil
	case "CLEAN":
		cleaned := strings.TrimSpace(answer.CleanText)
		if cleaned == "" {
			return Verdict{}, fmt.Errorf("judge returned CLEAN without clean_text")
		}
		return Verdict{Action: ActionKeep, Text: cleaned, Reason: reason}, nil
	case "DROP":
		return Verdict{Action: ActionDrop, Reason: reason}, nil
	default:
		return Verdict{}, fmt.Errorf("judge returned unknown action %q", answer.Action)
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

func normalizeEndpoint(raw string) string {
	endpoint := strings.TrimSpace(raw)
	if endpoint == "" {
		return DefaultLLMEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}

	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultLLMEndpoint
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/")
	if parsed.Path == "" {
		parsed.Path = "/v1"
	}
	return parsed.String()
}

func chatCompletionsURL(endpoint string) string {
	parsed, err := url.Parse(endpoint)
	if err != nil || strings.TrimSpace(parsed.Host) == "" {
		return DefaultLLMEndpoint + "/chat/completions"
	}

	path := strings.TrimRight(parsed.Path, "/")
	switch {
	case strings.HasSuffix(path, "/chat/completions"):
		parsed.Path = path
	case strings.HasSuffix(path, "/v1"):
		parsed.Path = path + "/chat/completions"
	case path == "":
		parsed.Path = "/v1/chat/completions"
	default:
		parsed.Path = path + "/v1/chat/completions"
	}

	return parsed.String()
}
