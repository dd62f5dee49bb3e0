package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/wardpost/wardpost/internal/config"
	"github.com/wardpost/wardpost/internal/privacy"
)

var (
	cfgFile      string
	patternFile  string
	mappingFile  string
	stripPhrases string
	outputDir    string
	dryRun       bool
	maxPages     int
	userAgent    string
	timeout      time.Duration
	baseDelay    time.Duration
	jitter       time.Duration
	randomSeed   int64
	maxAttempt   int
	llmBaseURL   string
	llmAPIKey    string
	llmModel     string
	llmTimeout   time.Duration
	maxTopics    int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "wardpost",
	Short: "A privacy-first ward newsletter sanitizer and digest builder.",
	Long: `wardpost ingests alderman and ward newsletters, strips the tracking
and personalization artifacts they carry (tracking pixels, wrapped links,
recipient-specific unsubscribe URLs, mail-merge remnants), and stores the
sanitized content for rule matching and daily digest delivery.

Running the bare command prints the effective configuration; the actual
work lives in the sanitize, scrape, and digest subcommands.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := InitConfig()

		// Display configuration for verification
		fmt.Printf("Configuration initialized successfully\n")
		if cfg.PatternFile() != "" {
			fmt.Printf("Pattern File: %s\n", cfg.PatternFile())
		} else {
			fmt.Printf("Pattern File: (embedded defaults)\n")
		}
		if cfg.MappingFile() != "" {
			fmt.Printf("Mapping File: %s\n", cfg.MappingFile())
		}
		fmt.Printf("Strip Phrases: %d configured\n", len(cfg.StripPhrases()))
		fmt.Printf("Max Pages: %d\n", cfg.MaxPages())
		fmt.Printf("Base Delay: %v\n", cfg.BaseDelay())
		fmt.Printf("Jitter: %v\n", cfg.Jitter())
		fmt.Printf("Random Seed: %d\n", cfg.RandomSeed())
		fmt.Printf("Max Attempt: %d\n", cfg.MaxAttempt())
		fmt.Printf("Timeout: %v\n", cfg.Timeout())
		fmt.Printf("User Agent: %s\n", cfg.UserAgent())
		if cfg.LLMModel() != "" {
			fmt.Printf("LLM Base URL: %s\n", cfg.LLMBaseURL())
			fmt.Printf("LLM Model: %s\n", cfg.LLMModel())
			fmt.Printf("LLM Timeout: %v\n", cfg.LLMTimeout())
			fmt.Printf("Max Topics: %d\n", cfg.MaxTopics())
		} else {
			fmt.Printf("LLM Model: (not configured, topic extraction disabled)\n")
		}
		fmt.Printf("Output Directory: %s\n", cfg.OutputDir())
		fmt.Printf("Dry Run: %t\n", cfg.DryRun())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	// Here you will define your flags and configuration settings.
	// Cobra supports persistent flags, which, if defined here,
	// will be available to all subcommands in the wardpost application.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path (e.g., /home/myuser/config.json)")
	rootCmd.PersistentFlags().StringVar(&patternFile, "pattern-file", "", "JSON pattern bundle overriding the embedded sanitization patterns")
	rootCmd.PersistentFlags().StringVar(&mappingFile, "mapping-file", "", "JSON file mapping sender email patterns to source IDs")
	rootCmd.PersistentFlags().StringVar(&stripPhrases, "strip-phrases", "", "comma-separated literal phrases to redact from every newsletter")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "output", "root output directory for reports and sanitized content")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "process without writing output")
	rootCmd.PersistentFlags().IntVar(&maxPages, "max-pages", 0, "maximum number of archive entries to fetch per run (0 for default)")
	rootCmd.PersistentFlags().StringVar(&userAgent, "user-agent", "", "user agent string for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "timeout for HTTP requests")
	rootCmd.PersistentFlags().DurationVar(&baseDelay, "base-delay", 0, "base delay between HTTP requests to the same host")
	rootCmd.PersistentFlags().DurationVar(&jitter, "jitter", 0, "random jitter added to base delay")
	rootCmd.PersistentFlags().Int64Var(&randomSeed, "random-seed", 0, "seed for random number generation (0 for current time)")
	rootCmd.PersistentFlags().IntVar(&maxAttempt, "max-attempt", 0, "maximum fetch attempts per URL (0 for default)")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "OpenAI-compatible API base URL (e.g., http://localhost:11434/v1)")
	rootCmd.PersistentFlags().StringVar(&llmAPIKey, "llm-api-key", "", "API key for the LLM endpoint (or WARDPOST_LLM_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "model name for topic extraction (empty disables extraction)")
	rootCmd.PersistentFlags().DurationVar(&llmTimeout, "llm-timeout", 0, "timeout for LLM requests")
	rootCmd.PersistentFlags().IntVar(&maxTopics, "max-topics", 0, "maximum topics to keep per newsletter (0 for default)")
}

// InitConfig reads in config file and ENV variables if set.
func InitConfig() config.Config {
	cfg, err := InitConfigWithError()
	if err != nil {
		fmt.Printf("Error: %s\n", err)
		os.Exit(1)
	}
	return cfg
}

// InitConfigWithError reads in config file and ENV variables if set, returning any errors.
// This makes it easier to test error cases.
func InitConfigWithError() (config.Config, error) {
	// Local .env values are overlaid into the process environment first so
	// the env fallbacks below see them.
	_ = godotenv.Load()

	if cfgFile != "" {
		fmt.Printf("Initializing config from file: %s\n", cfgFile)
		cfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return cfg, fmt.Errorf("error initializing config from file: %w", err)
		}
		return cfg, nil
	}

	// Build config from CLI flags using the With... functions with method chaining
	fmt.Println("No config file specified. Using default flag values or environment variables")

	// Start with default config and apply overrides using method chaining
	configBuilder := config.WithDefault()

	// Override with CLI flag values where provided
	if patternFile != "" {
		configBuilder = configBuilder.WithPatternFile(patternFile)
	}

	if mappingFile != "" {
		configBuilder = configBuilder.WithMappingFile(mappingFile)
	}

	phrases := privacy.SplitPhraseList(stripPhrases)
	if len(phrases) == 0 {
		phrases = privacy.SplitPhraseList(os.Getenv("WARDPOST_STRIP_PHRASES"))
	}
	if len(phrases) > 0 {
		configBuilder = configBuilder.WithStripPhrases(phrases)
	}

	if outputDir != "" && outputDir != "output" {
		configBuilder = configBuilder.WithOutputDir(outputDir)
	}

	if dryRun {
		configBuilder = configBuilder.WithDryRun(dryRun)
	}

	if maxPages > 0 {
		configBuilder = configBuilder.WithMaxPages(maxPages)
	}

	if userAgent != "" {
		configBuilder = configBuilder.WithUserAgent(userAgent)
	}

	if timeout > 0 {
		configBuilder = configBuilder.WithTimeout(timeout)
	}

	if baseDelay > 0 {
		configBuilder = configBuilder.WithBaseDelay(baseDelay)
	}

	if jitter > 0 {
		configBuilder = configBuilder.WithJitter(jitter)
	}

	if randomSeed != 0 {
		configBuilder = configBuilder.WithRandomSeed(randomSeed)
	}

	if maxAttempt > 0 {
		configBuilder = configBuilder.WithMaxAttempt(maxAttempt)
	}

	if llmBaseURL != "" {
		configBuilder = configBuilder.WithLLMBaseURL(llmBaseURL)
	}

	apiKey := llmAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("WARDPOST_LLM_API_KEY")
	}
	if apiKey != "" {
		configBuilder = configBuilder.WithLLMAPIKey(apiKey)
	}

	if llmModel != "" {
		configBuilder = configBuilder.WithLLMModel(llmModel)
	}

	if llmTimeout > 0 {
		configBuilder = configBuilder.WithLLMTimeout(llmTimeout)
	}

	if maxTopics > 0 {
		configBuilder = configBuilder.WithMaxTopics(maxTopics)
	}

	cfg, err := configBuilder.Build()
	if err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func ResetFlags() {
	cfgFile = ""
	patternFile = ""
	mappingFile = ""
	stripPhrases = ""
	outputDir = ""
	dryRun = false
	maxPages = 0
	userAgent = ""
	timeout = 0
	baseDelay = 0
	jitter = 0
	randomSeed = 0
	maxAttempt = 0
	llmBaseURL = ""
	llmAPIKey = ""
	llmModel = ""
	llmTimeout = 0
	maxTopics = 0
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetPatternFileForTest(path string) {
	patternFile = path
}

func SetMappingFileForTest(path string) {
	mappingFile = path
}

func SetStripPhrasesForTest(phrases string) {
	stripPhrases = phrases
}

func SetOutputDirForTest(dir string) {
	outputDir = dir
}

func SetDryRunForTest(dry bool) {
	dryRun = dry
}

func SetMaxPagesForTest(pages int) {
	maxPages = pages
}

func SetUserAgentForTest(agent string) {
	userAgent = agent
}

func SetTimeoutForTest(t time.Duration) {
	timeout = t
}

func SetBaseDelayForTest(delay time.Duration) {
	baseDelay = delay
}

func SetJitterForTest(j time.Duration) {
	jitter = j
}

func SetRandomSeedForTest(seed int64) {
	randomSeed = seed
}

func SetMaxAttemptForTest(attempts int) {
	maxAttempt = attempts
}

func SetLLMBaseURLForTest(baseURL string) {
	llmBaseURL = baseURL
}

func SetLLMModelForTest(model string) {
	llmModel = model
}

func SetLLMTimeoutForTest(t time.Duration) {
	llmTimeout = t
}

func SetMaxTopicsForTest(max int) {
	maxTopics = max
}
