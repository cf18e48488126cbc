package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() AnalyzeRequest {
	return AnalyzeRequest{
		Query:  "best CRM",
		Target: BrandContent{Brand: "Acme", Content: "Acme is a CRM..."},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(r *AnalyzeRequest)
		field  string
	}{
		{"missing query", func(r *AnalyzeRequest) { r.Query = "  " }, "query"},
		{"missing brand", func(r *AnalyzeRequest) { r.Target.Brand = "" }, "target.brand"},
		{"missing content", func(r *AnalyzeRequest) { r.Target.Content = "\n\t" }, "target.content"},
		{"bad mode", func(r *AnalyzeRequest) { r.EngineMode = "voice" }, "engine_mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := validRequest()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestValidate_DefaultsEngineMode(t *testing.T) {
	t.Parallel()

	req := validRequest()
	require.NoError(t, req.Validate())
	assert.Equal(t, EngineModeChat, req.EngineMode)
}

func TestLoadRequestFile_YAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "req.yaml")
	body := `
query: best CRM
target:
  brand: Acme
  content: Acme is a CRM.
competitors:
  - brand: Other
    content: Other is also a CRM.
engine_mode: enterprise
generate_synthetic_competitors: true
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	req, err := LoadRequestFile(path)
	require.NoError(t, err)
	assert.Equal(t, "best CRM", req.Query)
	assert.Equal(t, "Acme", req.Target.Brand)
	require.Len(t, req.Competitors, 1)
	assert.Equal(t, "Other", req.Competitors[0].Brand)
	assert.Equal(t, EngineModeEnterprise, req.EngineMode)
	assert.True(t, req.GenerateSyntheticCompetitors)
}

func TestLoadRequestFile_JSON(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "req.json")
	body := `{"query":"q","target":{"brand":"b","content":"c"},"competitors":[],"engine_mode":"search_card"}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	req, err := LoadRequestFile(path)
	require.NoError(t, err)
	assert.Equal(t, EngineModeSearchCard, req.EngineMode)
	assert.Empty(t, req.Competitors)
}

func TestLoadRequestFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := LoadRequestFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
