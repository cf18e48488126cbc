package model

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// EngineMode selects the answer style the simulated engine writes in.
type EngineMode string

const (
	EngineModeChat       EngineMode = "chat"        // conversational
	EngineModeSearchCard EngineMode = "search_card" // compact
	EngineModeEnterprise EngineMode = "enterprise"  // formal
)

// Valid reports whether m is one of the known engine modes.
func (m EngineMode) Valid() bool {
	switch m {
	case EngineModeChat, EngineModeSearchCard, EngineModeEnterprise:
		return true
	}
	return false
}

// BrandContent is a brand name paired with its page text.
type BrandContent struct {
	Brand   string `json:"brand" yaml:"brand"`
	Content string `json:"content" yaml:"content"`
}

// AnalyzeRequest is the inbound request for a single pipeline run.
type AnalyzeRequest struct {
	Query                        string         `json:"query" yaml:"query"`
	Target                       BrandContent   `json:"target" yaml:"target"`
	Competitors                  []BrandContent `json:"competitors" yaml:"competitors"`
	EngineMode                   EngineMode     `json:"engine_mode" yaml:"engine_mode"`
	GenerateSyntheticCompetitors bool           `json:"generate_synthetic_competitors" yaml:"generate_synthetic_competitors"`
}

// Validate rejects requests that cannot start a run. An empty engine mode
// defaults to chat.
func (r *AnalyzeRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return &ValidationError{Field: "query", Message: "Query is required"}
	}
	if strings.TrimSpace(r.Target.Brand) == "" {
		return &ValidationError{Field: "target.brand", Message: "Brand name is required"}
	}
	if strings.TrimSpace(r.Target.Content) == "" {
		return &ValidationError{Field: "target.content", Message: "Target content is required"}
	}
	if r.EngineMode == "" {
		r.EngineMode = EngineModeChat
	}
	if !r.EngineMode.Valid() {
		return &ValidationError{Field: "engine_mode", Message: "engine_mode must be chat, search_card or enterprise"}
	}
	return nil
}

// LoadRequestFile reads an AnalyzeRequest from a .json, .yaml or .yml file.
func LoadRequestFile(path string) (*AnalyzeRequest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "model: read request %s", path)
	}

	var req AnalyzeRequest
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &req); err != nil {
			return nil, eris.Wrap(err, "model: parse yaml request")
		}
	default:
		if err := json.Unmarshal(data, &req); err != nil {
			return nil, eris.Wrap(err, "model: parse json request")
		}
	}
	return &req, nil
}
