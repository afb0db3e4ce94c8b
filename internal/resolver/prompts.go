package resolver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/clubhousegolfcanada/ClubOS/internal/models"
	"gopkg.in/yaml.v3"
)

// PromptConfig holds the prompts sent to the completion service.
type PromptConfig struct {
	System       string `yaml:"system"`
	UserTemplate string `yaml:"user_template"`
}

// LoadPrompts loads prompt configuration from a YAML file.
func LoadPrompts(promptsPath string) (*PromptConfig, error) {
	data, err := os.ReadFile(promptsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}

	var prompts PromptConfig
	if err := yaml.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal prompts: %w", err)
	}

	if prompts.System == "" || prompts.UserTemplate == "" {
		return nil, fmt.Errorf("prompts file missing system or user_template")
	}

	return &prompts, nil
}

// promptData is the template context for the user prompt.
type promptData struct {
	Task          string
	Priority      string
	Operation     string
	Toggles       string
	Context       string
	LocationNote  string
	PriceNote     string
	EquipmentNote string
}

// BuildTaskPrompt renders the user prompt for one request. Scenario notes
// (price cap, equipment escalation) are injected so the model sees the same
// hints the rule table encodes.
func (p *PromptConfig) BuildTaskPrompt(req *models.TaskRequest, taskContext map[string]interface{}, priceCeiling int) (string, error) {
	togglesJSON, err := json.MarshalIndent(req.Toggles, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal toggles: %w", err)
	}
	contextJSON, err := json.MarshalIndent(taskContext, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal context: %w", err)
	}

	data := promptData{
		Task:      req.Task,
		Priority:  req.Priority,
		Operation: req.Operation,
		Toggles:   string(togglesJSON),
		Context:   string(contextJSON),
	}

	taskLower := strings.ToLower(req.Task)

	if strings.Contains(taskLower, "price") || strings.Contains(taskLower, "pricing") {
		if price, ok := numericContext(taskContext, "current_price"); ok && price > float64(priceCeiling) {
			data.PriceNote = fmt.Sprintf(
				"IMPORTANT: Current price $%.0f/hr exceeds corporate cap of $%d/hr", price, priceCeiling)
		}
	}

	for _, term := range []string{"trackman", "projector", "simulator", "bay"} {
		if strings.Contains(taskLower, term) {
			data.EquipmentNote = "NOTE: Equipment issues require immediate ticket generation for technical support"
			break
		}
	}

	if loc, ok := taskContext["location"].(string); ok && loc != "" {
		data.LocationNote = fmt.Sprintf("Location: %s", loc)
	}

	return renderTemplate(p.UserTemplate, data)
}

// renderTemplate renders a template with provided data.
func renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("prompt").Parse(templateStr)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}

	return buf.String(), nil
}

func numericContext(ctx map[string]interface{}, key string) (float64, bool) {
	switch v := ctx[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
