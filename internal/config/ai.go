package config

import "strings"

// AIConfig describes the configured text-generation providers and per-task
// model assignments.
type AIConfig struct {
	Providers      []AIProvider       `yaml:"providers" json:"providers"`
	NotesModel     *AIModelAssignment `yaml:"notes_model" json:"notes_model,omitempty"`
	TransformModel *AIModelAssignment `yaml:"transform_model" json:"transform_model,omitempty"`
	QuizModel      *AIModelAssignment `yaml:"quiz_model" json:"quiz_model,omitempty"`
	TargetLanguage string             `yaml:"target_language" json:"target_language"`
	RetryMax       int                `yaml:"retry_max" json:"retry_max"`
	RetryBackoffMS int                `yaml:"retry_backoff_ms" json:"retry_backoff_ms"`
}

// AIModelAssignment pins a task to a provider and optional model override.
type AIModelAssignment struct {
	ProviderID string `yaml:"provider_id" json:"provider_id"`
	Model      string `yaml:"model" json:"model"`
}

type AIProvider struct {
	ID           string `yaml:"id" json:"id"`
	Name         string `yaml:"name" json:"name"`
	Type         string `yaml:"type" json:"type"` // OpenAI | OpenAI-Compatible | Anthropic | OpenRouter
	APIKey       string `yaml:"api_key" json:"api_key"`
	Endpoint     string `yaml:"endpoint" json:"endpoint,omitempty"`
	DefaultModel string `yaml:"default_model" json:"default_model"`
	Enabled      bool   `yaml:"enabled" json:"enabled"`
}

func defaultAIConfig() AIConfig {
	return AIConfig{
		Providers:      []AIProvider{},
		TargetLanguage: "auto",
		RetryMax:       2,
		RetryBackoffMS: 1500,
	}
}

func mergeAIConfig(current, raw AIConfig) AIConfig {
	next := current
	if raw.Providers != nil {
		next.Providers = raw.Providers
	}
	if raw.NotesModel != nil {
		next.NotesModel = raw.NotesModel
	}
	if raw.TransformModel != nil {
		next.TransformModel = raw.TransformModel
	}
	if raw.QuizModel != nil {
		next.QuizModel = raw.QuizModel
	}
	if v := strings.TrimSpace(raw.TargetLanguage); v != "" {
		next.TargetLanguage = v
	}
	if raw.RetryMax > 0 {
		next.RetryMax = raw.RetryMax
	}
	if raw.RetryBackoffMS > 0 {
		next.RetryBackoffMS = raw.RetryBackoffMS
	}
	return next
}

// SelectProvider resolves the provider for an assignment, falling back to the
// first enabled provider. Returns nil when nothing is enabled.
func (c AIConfig) SelectProvider(assignment *AIModelAssignment) *AIProvider {
	var providerID string
	var overrideModel string
	if assignment != nil {
		providerID = strings.TrimSpace(assignment.ProviderID)
		overrideModel = strings.TrimSpace(assignment.Model)
	}

	pick := func(provider AIProvider) *AIProvider {
		selected := provider
		if overrideModel != "" {
			selected.DefaultModel = overrideModel
		}
		return &selected
	}

	if providerID != "" {
		for _, provider := range c.Providers {
			if !provider.Enabled {
				continue
			}
			if strings.TrimSpace(provider.ID) != providerID {
				continue
			}
			return pick(provider)
		}
	}

	for _, provider := range c.Providers {
		if !provider.Enabled {
			continue
		}
		return pick(provider)
	}

	return nil
}
