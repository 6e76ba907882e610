package classify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Classifier is the primary (remote) classification path.
type Classifier interface {
	Classify(ctx context.Context, text string) (ServiceClassification, error)
}

const classifierPrompt = `Classify this home-services request into ONE category. Respond with JSON only.

Categories: plumbing, electrical, hvac, roofing, painting, locksmith, glazier, cleaning, pest_control, appliance_repair, garage_door, handyman, general_maintenance

Urgency levels: low, medium, high, emergency

Request: %s

Respond with: {"service_type": "<category>", "urgency": "<level>", "confidence": <0..1>, "reasoning": "<one sentence>", "estimated_duration_minutes": <minutes>}`

// GeminiClassifier classifies requests with Google's Gemini API.
type GeminiClassifier struct {
	client  *genai.Client
	modelID string
}

// NewGeminiClassifier creates a Gemini-backed classifier.
func NewGeminiClassifier(ctx context.Context, apiKey, modelID string) (*GeminiClassifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("classify: gemini api key is required")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = "gemini-2.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("classify: failed to create gemini client: %w", err)
	}
	return &GeminiClassifier{client: client, modelID: modelID}, nil
}

// Classify sends the request text to Gemini and parses the structured
// answer. Category names are fuzzy-normalized onto the service enum
// because the model occasionally drifts from the exact spelling.
func (c *GeminiClassifier) Classify(ctx context.Context, text string) (ServiceClassification, error) {
	model := c.client.GenerativeModel(c.modelID)
	model.SetTemperature(0)
	model.SetMaxOutputTokens(200)

	prompt := strings.Replace(classifierPrompt, "%s", text, 1)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return ServiceClassification{}, fmt.Errorf("classify: gemini call failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ServiceClassification{}, errors.New("classify: gemini returned no candidates")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			raw.WriteString(string(t))
		}
	}

	return parseClassification(raw.String())
}

// Close releases the underlying API client.
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// parseClassification extracts the JSON object from the model output,
// tolerating surrounding prose, and normalizes fields into range.
func parseClassification(text string) (ServiceClassification, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ServiceClassification{}, fmt.Errorf("classify: no JSON object in response %q", text)
	}

	var payload struct {
		ServiceType              string  `json:"service_type"`
		Urgency                  string  `json:"urgency"`
		Confidence               float64 `json:"confidence"`
		Reasoning                string  `json:"reasoning"`
		EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &payload); err != nil {
		return ServiceClassification{}, fmt.Errorf("classify: malformed response: %w", err)
	}

	serviceType, _ := NormalizeServiceType(payload.ServiceType)

	urgency := Urgency(strings.ToLower(payload.Urgency))
	switch urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyEmergency:
	default:
		urgency = UrgencyMedium
	}

	confidence := payload.Confidence
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}

	minutes := payload.EstimatedDurationMinutes
	if minutes <= 0 {
		minutes = estimateMinutes(serviceType)
	}

	return ServiceClassification{
		ServiceType:              serviceType,
		Urgency:                  urgency,
		Confidence:               confidence,
		Reasoning:                payload.Reasoning,
		EstimatedDurationMinutes: minutes,
		Source:                   SourceLLM,
	}, nil
}
