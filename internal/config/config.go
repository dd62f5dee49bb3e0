package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	//===============
	// Sanitization
	//===============
	// Path to a JSON pattern document. Empty means the embedded default bundle.
	patternFile string
	// Literal phrases redacted from every newsletter after sanitization
	stripPhrases []string

	//===============
	// Sources
	//===============
	// Path to a JSON source-mapping document (sender address -> source).
	// Empty means mappings come only from the store.
	mappingFile string

	//===============
	// Politeness
	//===============
	// Minimum, fixed waiting time enforced between two HTTP requests to the same host.
	baseDelay time.Duration
	// Randomized variation added on top of the base delay.
	jitter time.Duration
	// Controls the random number generator
	randomSeed int64
	// maximum attempt during retry
	maxAttempt int
	// initial delay for backoff
	backoffInitialDuration time.Duration
	// multiplier during exponential backoff
	backoffMultiplier float64
	// capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration

	//===============
	// Fetch
	//===============
	// Maximum time of a single fetch request
	timeout time.Duration
	// User agent that will be used in the request header. In raw string
	userAgent string
	// Maximum number of archive pages fetched per scrape run
	maxPages int

	//===============
	// Topics
	//===============
	// Base URL of an OpenAI-compatible chat completion endpoint.
	// Empty means the upstream default.
	llmBaseURL string
	// API key for the completion endpoint. May be empty for local servers.
	llmAPIKey string
	// Model identifier passed to the completion endpoint
	llmModel string
	// Maximum time of a single topic extraction call
	llmTimeout time.Duration
	// Upper bound on topics extracted per newsletter
	maxTopics int

	//===============
	// Output
	//===============
	// Root directory for digests and unmapped-sender reports
	outputDir string
	// Whether the program simulates what it would do without
	// actually performing any irreversible or side-effecting actions
	dryRun bool
}

type configDTO struct {
	PatternFile            string        `json:"patternFile,omitempty"`
	StripPhrases           []string      `json:"stripPhrases,omitempty"`
	MappingFile            string        `json:"mappingFile,omitempty"`
	BaseDelay              time.Duration `json:"baseDelay,omitempty"`
	Jitter                 time.Duration `json:"jitter,omitempty"`
	RandomSeed             int64         `json:"randomSeed,omitempty"`
	MaxAttempt             int           `json:"maxAttempt,omitempty"`
	BackoffInitialDuration time.Duration `json:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64       `json:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration `json:"backoffMaxDuration,omitempty"`
	Timeout                time.Duration `json:"timeout,omitempty"`
	UserAgent              string        `json:"userAgent,omitempty"`
	MaxPages               int           `json:"maxPages,omitempty"`
	LLMBaseURL             string        `json:"llmBaseUrl,omitempty"`
	LLMAPIKey              string        `json:"llmApiKey,omitempty"`
	LLMModel               string        `json:"llmModel,omitempty"`
	LLMTimeout             time.Duration `json:"llmTimeout,omitempty"`
	MaxTopics              int           `json:"maxTopics,omitempty"`
	OutputDir              string        `json:"outputDir,omitempty"`
	DryRun                 bool          `json:"dryRun,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	// Start with default config
	cfg, err := WithDefault().Build()
	if err != nil {
		return Config{}, err
	}

	if dto.PatternFile != "" {
		cfg.patternFile = dto.PatternFile
	}
	// StripPhrases can be empty - always use DTO values when present
	if dto.StripPhrases != nil {
		cfg.stripPhrases = dto.StripPhrases
	}
	if dto.MappingFile != "" {
		cfg.mappingFile = dto.MappingFile
	}

	// For other fields, only override if non-zero value is provided
	if dto.BaseDelay != 0 {
		cfg.baseDelay = dto.BaseDelay
	}
	if dto.Jitter != 0 {
		cfg.jitter = dto.Jitter
	}
	if dto.RandomSeed != 0 {
		cfg.randomSeed = dto.RandomSeed
	}
	if dto.MaxAttempt != 0 {
		cfg.maxAttempt = dto.MaxAttempt
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	if dto.Timeout != 0 {
		cfg.timeout = dto.Timeout
	}
	if dto.UserAgent != "" {
		cfg.userAgent = dto.UserAgent
	}
	if dto.MaxPages != 0 {
		cfg.maxPages = dto.MaxPages
	}
	if dto.LLMBaseURL != "" {
		cfg.llmBaseURL = dto.LLMBaseURL
	}
	if dto.LLMAPIKey != "" {
		cfg.llmAPIKey = dto.LLMAPIKey
	}
	if dto.LLMModel != "" {
		cfg.llmModel = dto.LLMModel
	}
	if dto.LLMTimeout != 0 {
		cfg.llmTimeout = dto.LLMTimeout
	}
	if dto.MaxTopics != 0 {
		cfg.maxTopics = dto.MaxTopics
	}
	if dto.OutputDir != "" {
		cfg.outputDir = dto.OutputDir
	}
	// DryRun is a boolean; the DTO value is used as-is since bool zero value is false
	cfg.dryRun = dto.DryRun

	return cfg, nil
}

func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	err = json.Unmarshal(configContent, &cfgDTO)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	cfg, err := newConfigFromDTO(cfgDTO)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WithDefault creates a new Config with default values for all fields.
// No field is mandatory: the embedded pattern bundle sanitizes, topics are
// skipped without a model, and output lands under ./output.
func WithDefault() *Config {
	defaultConfig := Config{
		patternFile:            "",
		stripPhrases:           nil,
		mappingFile:            "",
		baseDelay:              time.Second,
		jitter:                 time.Millisecond * 500,
		randomSeed:             time.Now().UnixNano(),
		maxAttempt:             5,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     10 * time.Second,
		timeout:                time.Second * 10,
		userAgent:              "wardpost/1.0",
		maxPages:               20,
		llmBaseURL:             "",
		llmAPIKey:              "",
		llmModel:               "",
		llmTimeout:             time.Second * 60,
		maxTopics:              5,
		outputDir:              "output",
		dryRun:                 false,
	}
	return &defaultConfig
}

func (c *Config) WithPatternFile(path string) *Config {
	c.patternFile = path
	return c
}

func (c *Config) WithStripPhrases(phrases []string) *Config {
	c.stripPhrases = phrases
	return c
}

func (c *Config) WithMappingFile(path string) *Config {
	c.mappingFile = path
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithMaxPages(pages int) *Config {
	c.maxPages = pages
	return c
}

func (c *Config) WithLLMBaseURL(baseURL string) *Config {
	c.llmBaseURL = baseURL
	return c
}

func (c *Config) WithLLMAPIKey(key string) *Config {
	c.llmAPIKey = key
	return c
}

func (c *Config) WithLLMModel(model string) *Config {
	c.llmModel = model
	return c
}

func (c *Config) WithLLMTimeout(timeout time.Duration) *Config {
	c.llmTimeout = timeout
	return c
}

func (c *Config) WithMaxTopics(max int) *Config {
	c.maxTopics = max
	return c
}

func (c *Config) WithOutputDir(outputDir string) *Config {
	c.outputDir = outputDir
	return c
}

func (c *Config) WithDryRun(dryRun bool) *Config {
	c.dryRun = dryRun
	return c
}

func (c *Config) Build() (Config, error) {
	if c.maxAttempt < 1 {
		return Config{}, fmt.Errorf("%w: maxAttempt must be at least 1", ErrInvalidConfig)
	}
	if c.backoffMultiplier < 1 {
		return Config{}, fmt.Errorf("%w: backoffMultiplier must be at least 1", ErrInvalidConfig)
	}
	if c.maxTopics < 1 {
		return Config{}, fmt.Errorf("%w: maxTopics must be at least 1", ErrInvalidConfig)
	}
	if c.timeout <= 0 {
		return Config{}, fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}

	return *c, nil
}

func (c Config) PatternFile() string {
	return c.patternFile
}

func (c Config) StripPhrases() []string {
	phrases := make([]string, len(c.stripPhrases))
	copy(phrases, c.stripPhrases)
	return phrases
}

func (c Config) MappingFile() string {
	return c.mappingFile
}

func (c Config) BaseDelay() time.Duration {
	return c.baseDelay
}

func (c Config) Jitter() time.Duration {
	return c.jitter
}

func (c Config) RandomSeed() int64 {
	return c.randomSeed
}

func (c Config) MaxAttempt() int {
	return c.maxAttempt
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}

func (c Config) Timeout() time.Duration {
	return c.timeout
}

func (c Config) UserAgent() string {
	return c.userAgent
}

func (c Config) MaxPages() int {
	return c.maxPages
}

func (c Config) LLMBaseURL() string {
	return c.llmBaseURL
}

func (c Config) LLMAPIKey() string {
	return c.llmAPIKey
}

func (c Config) LLMModel() string {
	return c.llmModel
}

func (c Config) LLMTimeout() time.Duration {
	return c.llmTimeout
}

func (c Config) MaxTopics() int {
	return c.maxTopics
}

func (c Config) OutputDir() string {
	return c.outputDir
}

func (c Config) DryRun() bool {
	return c.dryRun
}
