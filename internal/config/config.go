package config

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm" mapstructure:"llm"`
	OpenAI     OpenAIConfig     `yaml:"openai" mapstructure:"openai"`
	Azure      AzureConfig      `yaml:"azure" mapstructure:"azure"`
	Groq       GroqConfig       `yaml:"groq" mapstructure:"groq"`
	Ollama     OllamaConfig     `yaml:"ollama" mapstructure:"ollama"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Perplexity PerplexityConfig `yaml:"perplexity" mapstructure:"perplexity"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Breaker    BreakerConfig    `yaml:"breaker" mapstructure:"breaker"`
	Scrape     ScrapeConfig     `yaml:"scrape" mapstructure:"scrape"`
	Jina       JinaConfig       `yaml:"jina" mapstructure:"jina"`
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl" mapstructure:"firecrawl"`
	Search     SearchConfig     `yaml:"search" mapstructure:"search"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// Supported LLM providers.
const (
	ProviderOpenAI     = "openai"
	ProviderAzure      = "azure"
	ProviderGroq       = "groq"
	ProviderOllama     = "ollama"
	ProviderAnthropic  = "anthropic"
	ProviderPerplexity = "perplexity"
)

// LLMConfig selects the backend and its shared sampling parameters.
type LLMConfig struct {
	Provider           string  `yaml:"provider" mapstructure:"provider"`
	Temperature        float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens          int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	ReasoningMaxTokens int     `yaml:"reasoning_max_tokens" mapstructure:"reasoning_max_tokens"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// OpenAIConfig holds OpenAI API settings.
type OpenAIConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// AzureConfig holds Azure OpenAI settings. Deployment doubles as the model name.
type AzureConfig struct {
	Endpoint   string `yaml:"endpoint" mapstructure:"endpoint"`
	Key        string `yaml:"key" mapstructure:"key"`
	Deployment string `yaml:"deployment" mapstructure:"deployment"`
	APIVersion string `yaml:"api_version" mapstructure:"api_version"`
}

// GroqConfig holds Groq settings (OpenAI-compatible API).
type GroqConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	Model   string `yaml:"model" mapstructure:"model"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// OllamaConfig holds local Ollama settings.
type OllamaConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key   string `yaml:"key" mapstructure:"key"`
	Model string `yaml:"model" mapstructure:"model"`
}

// PerplexityConfig holds Perplexity API settings.
type PerplexityConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Model   string `yaml:"model" mapstructure:"model"`
}

// PipelineConfig configures stage execution.
type PipelineConfig struct {
	MaxContentChars      int `yaml:"max_content_chars" mapstructure:"max_content_chars"`
	MaxAttempts          int `yaml:"max_attempts" mapstructure:"max_attempts"`
	RetryBackoffMs       int `yaml:"retry_backoff_ms" mapstructure:"retry_backoff_ms"`
	RunTimeoutSecs       int `yaml:"run_timeout_secs" mapstructure:"run_timeout_secs"`
	SyntheticCompetitors int `yaml:"synthetic_competitors" mapstructure:"synthetic_competitors"`
}

// BreakerConfig configures the circuit breaker around each backend.
type BreakerConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
}

// ScrapeConfig configures URL extraction.
type ScrapeConfig struct {
	TimeoutSecs       int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxChars          int     `yaml:"max_chars" mapstructure:"max_chars"`
	MinChars          int     `yaml:"min_chars" mapstructure:"min_chars"`
	UserAgent         string  `yaml:"user_agent" mapstructure:"user_agent"`
	Headless          bool    `yaml:"headless" mapstructure:"headless"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	DetectLanguage    bool    `yaml:"detect_language" mapstructure:"detect_language"`
}

// JinaConfig holds Jina AI Reader settings.
type JinaConfig struct {
	Key           string `yaml:"key" mapstructure:"key"`
	BaseURL       string `yaml:"base_url" mapstructure:"base_url"`
	SearchBaseURL string `yaml:"search_base_url" mapstructure:"search_base_url"`
}

// FirecrawlConfig holds Firecrawl API settings (fallback only).
type FirecrawlConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// SearchConfig configures competitor discovery.
type SearchConfig struct {
	Provider   string `yaml:"provider" mapstructure:"provider"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// envOnlyKeys have no default, so AutomaticEnv alone would never surface
// them to Unmarshal.
var envOnlyKeys = []string{
	"azure.endpoint",
	"azure.key",
	"openai.key",
	"openai.base_url",
	"groq.key",
	"anthropic.key",
	"perplexity.key",
	"jina.key",
	"firecrawl.key",
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("AEO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envOnlyKeys {
		_ = v.BindEnv(key)
	}

	// Defaults
	v.SetDefault("llm.provider", ProviderAzure)
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 4096)
	v.SetDefault("llm.reasoning_max_tokens", 16384)
	v.SetDefault("llm.timeout_secs", 90)
	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("azure.deployment", "gpt-5-mini")
	v.SetDefault("azure.api_version", "2025-04-01-preview")
	v.SetDefault("groq.model", "llama-3.1-70b-versatile")
	v.SetDefault("groq.base_url", "https://api.groq.com/openai/v1")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.model", "llama3.1")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("perplexity.base_url", "https://api.perplexity.ai")
	v.SetDefault("perplexity.model", "sonar-pro")
	v.SetDefault("pipeline.max_content_chars", 6000)
	v.SetDefault("pipeline.max_attempts", 3)
	v.SetDefault("pipeline.retry_backoff_ms", 1000)
	v.SetDefault("pipeline.run_timeout_secs", 120)
	v.SetDefault("pipeline.synthetic_competitors", 2)
	v.SetDefault("breaker.failure_threshold", 5)
	v.SetDefault("breaker.reset_timeout_secs", 30)
	v.SetDefault("scrape.timeout_secs", 15)
	v.SetDefault("scrape.max_chars", 8000)
	v.SetDefault("scrape.min_chars", 20)
	v.SetDefault("scrape.user_agent", "Mozilla/5.0 (compatible; AEO-Analyzer/1.0)")
	v.SetDefault("scrape.headless", false)
	v.SetDefault("scrape.requests_per_second", 2.0)
	v.SetDefault("scrape.detect_language", true)
	v.SetDefault("jina.base_url", "https://r.jina.ai")
	v.SetDefault("jina.search_base_url", "https://s.jina.ai")
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v2")
	v.SetDefault("search.provider", "duckduckgo")
	v.SetDefault("search.max_results", 5)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks that the settings needed by mode are present. Modes are
// analyze, serve, mcp, scrape and search.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "analyze":
		errs = append(errs, c.validateLLM()...)
		errs = append(errs, c.validatePipeline()...)
	case "serve":
		errs = append(errs, c.validateLLM()...)
		errs = append(errs, c.validatePipeline()...)
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
	case "mcp":
		errs = append(errs, c.validateLLM()...)
		errs = append(errs, c.validatePipeline()...)
	case "scrape":
		errs = append(errs, c.validateScrape()...)
	case "search":
		errs = append(errs, c.validateScrape()...)
		switch c.Search.Provider {
		case "duckduckgo":
		case "jina":
			if c.Jina.Key == "" {
				errs = append(errs, "jina.key is required for search.provider=jina")
			}
		default:
			errs = append(errs, fmt.Sprintf("search.provider %q is not supported", c.Search.Provider))
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateLLM() []string {
	var errs []string
	switch c.LLM.Provider {
	case ProviderOpenAI:
		if c.OpenAI.Key == "" {
			errs = append(errs, "openai.key is required")
		}
	case ProviderAzure:
		if c.Azure.Endpoint == "" {
			errs = append(errs, "azure.endpoint is required")
		}
		if c.Azure.Key == "" {
			errs = append(errs, "azure.key is required")
		}
		if c.Azure.Deployment == "" {
			errs = append(errs, "azure.deployment is required")
		}
	case ProviderGroq:
		if c.Groq.Key == "" {
			errs = append(errs, "groq.key is required")
		}
	case ProviderOllama:
		if c.Ollama.BaseURL == "" {
			errs = append(errs, "ollama.base_url is required")
		}
	case ProviderAnthropic:
		if c.Anthropic.Key == "" {
			errs = append(errs, "anthropic.key is required")
		}
	case ProviderPerplexity:
		if c.Perplexity.Key == "" {
			errs = append(errs, "perplexity.key is required")
		}
	default:
		errs = append(errs, fmt.Sprintf("llm.provider %q is not supported", c.LLM.Provider))
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errs = append(errs, "llm.temperature must be between 0 and 2")
	}
	return errs
}

func (c *Config) validatePipeline() []string {
	var errs []string
	if c.Pipeline.MaxAttempts < 1 || c.Pipeline.MaxAttempts > 10 {
		errs = append(errs, "pipeline.max_attempts must be between 1 and 10")
	}
	if c.Pipeline.MaxContentChars <= 0 {
		errs = append(errs, "pipeline.max_content_chars must be > 0")
	}
	if c.Pipeline.SyntheticCompetitors < 0 {
		errs = append(errs, "pipeline.synthetic_competitors must be >= 0")
	}
	return errs
}

func (c *Config) validateScrape() []string {
	var errs []string
	if c.Scrape.TimeoutSecs <= 0 {
		errs = append(errs, "scrape.timeout_secs must be > 0")
	}
	if c.Scrape.RequestsPerSecond <= 0 {
		errs = append(errs, "scrape.requests_per_second must be > 0")
	}
	return errs
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	// stdout carries reports and the MCP stdio transport.
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
