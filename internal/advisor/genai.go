package advisor

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/genai"

	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/models"
)

const DefaultModel = "gemini-2.5-flash"

// generateFunc sends a prompt and returns the raw JSON text of the reply.
type generateFunc func(ctx context.Context, prompt string, schema *genai.Schema) (string, error)

// GenAIAdvisor asks Gemini for structured JSON answers.
type GenAIAdvisor struct {
	generate generateFunc
	logger   *log.Logger
}

// New returns a Gemini-backed advisor, or Unavailable when apiKey is empty.
func New(ctx context.Context, apiKey, model string, logger *log.Logger) (Advisor, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	if apiKey == "" {
		logger.Warn("AI API key is not set, AI features are disabled")
		return Unavailable{}, nil
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	generate := func(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
		resp, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   schema,
		})
		if err != nil {
			return "", err
		}
		return resp.Text(), nil
	}
	return &GenAIAdvisor{generate: generate, logger: logger}, nil
}

func (a *GenAIAdvisor) Advice(ctx context.Context, car models.Car, serviceType string, lang models.Language) (*models.AIAdviceResponse, error) {
	var out models.AIAdviceResponse
	if err := a.ask(ctx, "advice", promptsFor(lang).advice(car, serviceType), adviceSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *GenAIAdvisor) Diagnose(ctx context.Context, car models.Car, problem string, lang models.Language) (*models.AIDiagnosisResponse, error) {
	var out models.AIDiagnosisResponse
	if err := a.ask(ctx, "diagnosis", promptsFor(lang).diagnosis(car, problem), diagnosisSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *GenAIAdvisor) ask(ctx context.Context, kind, prompt string, schema *genai.Schema, out any) error {
	text, err := a.generate(ctx, prompt, schema)
	if err != nil {
		a.logger.WithError(err).WithField("kind", kind).Error("AI request failed")
		return apperror.AIFailed(err)
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		a.logger.WithError(err).WithField("kind", kind).Error("AI response is not valid JSON")
		return apperror.AIFailed(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

var adviceSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"estimatedCost":         {Type: genai.TypeString, Description: "Estimated cost in EUR."},
		"nextServiceSuggestion": {Type: genai.TypeString, Description: "When the next service is due, in kilometers."},
		"additionalTips": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"estimatedCost", "nextServiceSuggestion", "additionalTips"},
}

var diagnosisSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"analysis": {
			Type:        genai.TypeArray,
			Description: "Two or three possible causes.",
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"possibleCause": {Type: genai.TypeString},
					"estimatedCost": {Type: genai.TypeString, Description: "Repair cost range in EUR."},
					"complexity":    {Type: genai.TypeString, Description: "Low, Medium or High."},
				},
				Required: []string{"possibleCause", "estimatedCost", "complexity"},
			},
		},
		"recommendation": {Type: genai.TypeString},
	},
	Required: []string{"analysis", "recommendation"},
}
