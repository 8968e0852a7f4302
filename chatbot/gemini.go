package chatbot

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"google.golang.org/genai"
)

// GeminiClassifier asks a generative model to label the utterance. Anything
// going wrong here (network, quota, malformed reply) is swallowed by the
// fallback wrapper; the dialogue engine never sees a classifier error.
type GeminiClassifier struct {
	client *genai.Client
	model  string
}

func NewGeminiClassifier(ctx context.Context) (*GeminiClassifier, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClassifier{client: client, model: "gemini-2.5-flash-lite"}, nil
}

func (g *GeminiClassifier) Classify(ctx context.Context, utterance string, free, occupied []string) (Classification, error) {
	prompt := fmt.Sprintf(`You are the intent classifier of a parking chatbot.
Free slots: %s
Occupied unbooked slots: %s
User message: %q

Classify the message. Return ONLY valid JSON, no prose:
{"intent": one of "greet","book","leave","extend","list","report","manage","unknown",
 "slot": slot name mentioned by the user or "",
 "confidence": number between 0 and 1}`,
		strings.Join(free, ", "), strings.Join(occupied, ", "), utterance)

	content := &genai.Content{
		Parts: []*genai.Part{{Text: prompt}},
	}

	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{content},
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr(float32(0.1)),
		},
	)
	if err != nil {
		return Classification{}, fmt.Errorf("generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return Classification{}, fmt.Errorf("empty response")
	}
	text := result.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return Classification{}, fmt.Errorf("empty response text")
	}

	var c Classification
	if err := json.Unmarshal([]byte(extractJSON(text)), &c); err != nil {
		return Classification{}, fmt.Errorf("malformed classifier reply: %w", err)
	}
	switch c.Intent {
	case IntentGreet, IntentBook, IntentLeave, IntentExtend, IntentList, IntentReport, IntentManage, IntentUnknown:
	default:
		return Classification{}, fmt.Errorf("unknown intent %q", c.Intent)
	}
	c.Slot = strings.ToUpper(strings.TrimSpace(c.Slot))
	return c, nil
}

// extractJSON strips a markdown code fence if the model wrapped its reply.
func extractJSON(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		if i := strings.LastIndex(text, "```"); i >= 0 {
			text = text[:i]
		}
	}
	return strings.TrimSpace(text)
}

// fallbackClassifier tries remote first and silently falls back to rules.
type fallbackClassifier struct {
	remote Classifier
	local  Classifier
}

func (f fallbackClassifier) Classify(ctx context.Context, utterance string, free, occupied []string) (Classification, error) {
	if f.remote != nil {
		if c, err := f.remote.Classify(ctx, utterance, free, occupied); err == nil {
			return c, nil
		}
	}
	return f.local.Classify(ctx, utterance, free, occupied)
}

// NewClassifier wires the configured strategy: Gemini with rule fallback when
// an API key is present, plain rules otherwise.
func NewClassifier(ctx context.Context) Classifier {
	local := RuleClassifier{}
	remote, err := NewGeminiClassifier(ctx)
	if err != nil {
		log.Printf("[chatbot] remote classifier disabled: %v", err)
		return local
	}
	return fallbackClassifier{remote: remote, local: local}
}
