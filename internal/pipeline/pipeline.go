package pipeline

import (
	"time"

	"github.com/wardpost/wardpost/internal/config"
	"github.com/wardpost/wardpost/internal/mailparse"
	"github.com/wardpost/wardpost/internal/metadata"
	"github.com/wardpost/wardpost/internal/privacy"
	"github.com/wardpost/wardpost/internal/scrape"
	"github.com/wardpost/wardpost/internal/store"
	"github.com/wardpost/wardpost/internal/textconvert"
	"github.com/wardpost/wardpost/internal/topics"
	"github.com/wardpost/wardpost/pkg/failure"
	"github.com/wardpost/wardpost/pkg/limiter"
	"github.com/wardpost/wardpost/pkg/retry"
	"github.com/wardpost/wardpost/pkg/timeutil"
)

/*
 Pipeline is the sole control-plane authority of ingestion.

 Determinism and admission guarantees:
 - Pipeline is the ONLY component allowed to decide whether a message
   enters the store.
 - Dedup checks (email UID, content fingerprint) MUST be completed
   before a record is saved.
 - Downstream stages may detect and classify failure, but must never
   decide retry, continuation, or abortion.
 - A single failing message never aborts the run; it is counted and
   the run continues.

 Metadata emission is observational only and MUST NOT influence
 dedup, rule matching, or run termination.

 Pipeline Responsibilities:
 - Coordinate the ingest lifecycle for both mail and archive sources
 - Enforce sanitize-before-convert ordering via the parser
 - Aggregate run statistics and record them exactly once
 - Write the unmapped-sender report
 - The sole authority on:
	- skip
	- continue
	- abort
*/

type Pipeline struct {
	metadataSink    metadata.MetadataSink
	ingestFinalizer metadata.IngestFinalizer
	sanitizer       privacy.ContentSanitizer
	converter       textconvert.TextConverter
	parser          *mailparse.Parser
	extractor       topics.Extractor
	dataStore       store.Store
	scraper         *scrape.Scraper
	cfg             config.Config
}

func NewPipeline(cfg config.Config) Pipeline {
	recorder := metadata.NewRecorder("wardpost-ingest-worker")
	return newPipeline(cfg, &recorder, &recorder, nil)
}

// NewPipelineWithDeps creates a Pipeline with injected observability and
// storage for testing. A nil extractor disables LLM analysis; a nil
// dataStore falls back to a fresh in-memory store.
func NewPipelineWithDeps(
	cfg config.Config,
	ingestFinalizer metadata.IngestFinalizer,
	metadataSink metadata.MetadataSink,
	dataStore store.Store,
	extractor topics.Extractor,
) Pipeline {
	p := newPipeline(cfg, ingestFinalizer, metadataSink, dataStore)
	p.extractor = extractor
	return p
}

func newPipeline(
	cfg config.Config,
	ingestFinalizer metadata.IngestFinalizer,
	metadataSink metadata.MetadataSink,
	dataStore store.Store,
) Pipeline {
	engine := privacy.NewEngine(metadataSink)
	converter := textconvert.NewRule(metadataSink)
	parser := mailparse.NewParser(&engine, converter, metadataSink)

	if dataStore == nil {
		memStore := store.NewMemoryStore(metadataSink)
		dataStore = &memStore
	}

	var extractor topics.Extractor
	if cfg.LLMModel() != "" {
		openAIExtractor := topics.NewOpenAIExtractor(
			cfg.LLMBaseURL(),
			cfg.LLMAPIKey(),
			cfg.LLMModel(),
			cfg.LLMTimeout(),
			cfg.MaxTopics(),
			metadataSink,
		)
		extractor = &openAIExtractor
	}

	rateLimiter := limiter.NewConcurrentRateLimiter()
	rateLimiter.SetBaseDelay(cfg.BaseDelay())
	rateLimiter.SetJitter(cfg.Jitter())
	rateLimiter.SetRandomSeed(cfg.RandomSeed())

	fetcher := scrape.NewHtmlFetcher(metadataSink, cfg.Timeout())
	retryParam := retry.NewRetryParam(
		cfg.BaseDelay(),
		cfg.Jitter(),
		cfg.RandomSeed(),
		cfg.MaxAttempt(),
		timeutil.NewBackoffParam(
			cfg.BackoffInitialDuration(),
			cfg.BackoffMultiplier(),
			cfg.BackoffMaxDuration(),
		),
	)
	scraper := scrape.NewScraper(&fetcher, rateLimiter, metadataSink, cfg.UserAgent(), retryParam)

	return Pipeline{
		metadataSink:    metadataSink,
		ingestFinalizer: ingestFinalizer,
		sanitizer:       &engine,
		converter:       converter,
		parser:          parser,
		extractor:       extractor,
		dataStore:       dataStore,
		scraper:         scraper,
		cfg:             cfg,
	}
}

// Store exposes the pipeline's store for seeding mappings, sources and
// rules before a run, and for post-run inspection.
func (p *Pipeline) Store() store.Store {
	return p.dataStore
}

// loadPatterns resolves the active pattern set: the configured pattern
// file when one is set, the compiled-in defaults otherwise.
func (p *Pipeline) loadPatterns() (privacy.PatternSet, failure.ClassifiedError) {
	if p.cfg.PatternFile() == "" {
		return privacy.DefaultPatternSet(), nil
	}

	patterns, err := privacy.LoadPatternFile(p.cfg.PatternFile())
	if err != nil {
		p.metadataSink.RecordError(
			time.Now(),
			"pipeline",
			"loadPatterns",
			metadata.CausePatternInvalid,
			err.Error(),
			nil,
		)
		return privacy.PatternSet{}, err
	}
	return patterns, nil
}
