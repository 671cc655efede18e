package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/danilofortes/stackhabit/internal"
	"github.com/danilofortes/stackhabit/internal/config"
)

// Source tags assistant output so callers can tell model responses from
// the deterministic fallback.
type Source string

const (
	SourceModel    Source = "model"
	SourceFallback Source = "fallback"
)

// Assistant wraps the chat-completions endpoint. Whether it is live is
// decided once from config at construction; requests never re-check the
// environment. Upstream failures are absorbed: every call succeeds and
// degrades to the static fallback.
type Assistant struct {
	cfg     config.OpenAI
	enabled bool
	client  *http.Client
	logger  internal.Logger
}

func New(cfg config.OpenAI, logger internal.Logger) *Assistant {
	return &Assistant{
		cfg:     cfg,
		enabled: cfg.Enabled(),
		client:  &http.Client{Timeout: 20 * time.Second},
		logger:  logger,
	}
}

// Enabled reports whether a live model backs this assistant.
func (a *Assistant) Enabled() bool { return a.enabled }

type HabitProgress struct {
	Title          string  `json:"title"`
	CompletedDays  int     `json:"completedDays"`
	TotalDays      int     `json:"totalDays"`
	CompletionRate float64 `json:"completionRate"`
}

type UnmetGoal struct {
	Description string `json:"description"`
	IsDone      bool   `json:"isDone"`
}

type GuidanceRequest struct {
	Month        string          `json:"month"`
	Habits       []HabitProgress `json:"habits"`
	MonthlyMetas []string        `json:"monthlyMetas"`
	UnmetGoals   []UnmetGoal     `json:"unmetGoals"`
}

type Guidance struct {
	Questions          []string `json:"questions"`
	Tips               []string `json:"tips"`
	SuggestedStructure string   `json:"suggestedStructure"`
	PendingReasons     []string `json:"pendingReasons"`
	UnmetGoalsReasons  []string `json:"unmetGoalsReasons"`
	Source             Source   `json:"source"`
}

type ImproveRequest struct {
	CurrentText  string          `json:"currentText"`
	Month        string          `json:"month"`
	Habits       []HabitProgress `json:"habits"`
	MonthlyMetas []string        `json:"monthlyMetas"`
}

type Improved struct {
	Text   string `json:"improvedText"`
	Source Source `json:"source"`
}

// ReviewGuidance returns a writing guide for the month's review. The
// model path asks for structured JSON; anything short of a clean parse
// falls back to the static guide.
func (a *Assistant) ReviewGuidance(ctx context.Context, req *GuidanceRequest) *Guidance {
	if !a.enabled {
		return fallbackGuidance(req)
	}

	content, err := a.complete(ctx, guidanceSystemPrompt, guidancePrompt(req), 600, 0.7)
	if err != nil {
		a.logger.Warnf("ai: guidance call failed, using fallback: %v", err)
		return fallbackGuidance(req)
	}

	var parsed struct {
		Questions          []string `json:"questions"`
		Tips               []string `json:"tips"`
		SuggestedStructure string   `json:"suggestedStructure"`
		PendingReasons     []string `json:"pendingReasons"`
		UnmetGoalsReasons  []string `json:"unmetGoalsReasons"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		a.logger.Warnf("ai: guidance response was not valid JSON, using fallback: %v", err)
		return fallbackGuidance(req)
	}

	g := &Guidance{
		Questions:          parsed.Questions,
		Tips:               parsed.Tips,
		SuggestedStructure: parsed.SuggestedStructure,
		PendingReasons:     parsed.PendingReasons,
		UnmetGoalsReasons:  parsed.UnmetGoalsReasons,
		Source:             SourceModel,
	}
	fb := fallbackGuidance(req)
	if len(g.Questions) == 0 {
		g.Questions = fb.Questions
	}
	if len(g.Tips) == 0 {
		g.Tips = fb.Tips
	}
	if g.SuggestedStructure == "" {
		g.SuggestedStructure = fb.SuggestedStructure
	}
	if len(g.PendingReasons) == 0 {
		g.PendingReasons = fb.PendingReasons
	}
	if len(g.UnmetGoalsReasons) == 0 {
		g.UnmetGoalsReasons = fb.UnmetGoalsReasons
	}
	return g
}

// ImproveReview rewrites review text into clean paragraphs. Without a
// live model the fallback is whitespace normalization only.
func (a *Assistant) ImproveReview(ctx context.Context, req *ImproveRequest) *Improved {
	if !a.enabled {
		return &Improved{Text: NormalizeParagraphs(req.CurrentText), Source: SourceFallback}
	}

	content, err := a.complete(ctx, improveSystemPrompt, improvePrompt(req), 1500, 0.6)
	if err != nil {
		a.logger.Warnf("ai: improve call failed, using fallback: %v", err)
		return &Improved{Text: NormalizeParagraphs(req.CurrentText), Source: SourceFallback}
	}
	return &Improved{Text: extractText(content), Source: SourceModel}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (a *Assistant) complete(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: a.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion endpoint returned %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("completion response had no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// extractText tolerates models that wrap output in JSON or code fences.
func extractText(content string) string {
	trimmed := strings.TrimSpace(content)

	var wrapped map[string]string
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil {
		if t, ok := wrapped["text"]; ok {
			return NormalizeParagraphs(t)
		}
		if t, ok := wrapped["content"]; ok {
			return NormalizeParagraphs(t)
		}
	}
	return NormalizeParagraphs(stripCodeFence(trimmed))
}

func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	lines := strings.Split(trimmed, "\n")
	var kept []string
	for _, line := range lines[1:] {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			break
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}
