// Package config loads and validates the settings of one analysis run.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/cognicore/sentir/pkg/sentir/classify"
	"github.com/cognicore/sentir/pkg/sentir/extract"
	"github.com/cognicore/sentir/pkg/sentir/internalerr"
)

// Environment variable names.
const (
	EnvFolder            = "PDF_FOLDER_PATH"
	EnvMaxWorkers        = "MAX_WORKERS"
	EnvPositiveThreshold = "SENTIMENT_POSITIVE_THRESHOLD"
	EnvNegativeThreshold = "SENTIMENT_NEGATIVE_THRESHOLD"
	EnvExtensions        = "DOCUMENT_EXTENSIONS"
	EnvScorer            = "SENTIMENT_SCORER"
	EnvLexiconPath       = "SENTIMENT_LEXICON_PATH"
	EnvSubstitutionsPath = "SUBSTITUTIONS_PATH"
	EnvLLMBaseURL        = "LLM_BASE_URL"
	EnvLLMModel          = "LLM_MODEL"
	EnvLLMAPIKey         = "LLM_API_KEY"
	EnvNLCredentials     = "NATURAL_LANGUAGE_CREDENTIALS"
	EnvNLLanguage        = "NATURAL_LANGUAGE_LANGUAGE"
	EnvJSONPath          = "REPORT_JSON_PATH"
	EnvDBPath            = "REPORT_DB_PATH"
)

// Scorer backends.
const (
	ScorerLexicon = "lexicon"
	ScorerLLM     = "llm"
	ScorerCloudNL = "cloudnl"
)

// Default thresholds.
const (
	DefaultPositiveThreshold = 0.1
	DefaultNegativeThreshold = -0.1
)

// Config holds the settings of one run.
type Config struct {
	Folder     string
	MaxWorkers int
	Thresholds classify.Thresholds
	Extensions []string

	Scorer            string
	LexiconPath       string
	SubstitutionsPath string

	LLMBaseURL string
	LLMModel   string
	LLMAPIKey  string

	NLCredentials string
	NLLanguage    string

	JSONPath string
	DBPath   string
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		MaxWorkers: runtime.NumCPU(),
		Thresholds: classify.Thresholds{
			Negative: DefaultNegativeThreshold,
			Positive: DefaultPositiveThreshold,
		},
		Extensions: []string{".pdf"},
		Scorer:     ScorerLexicon,
	}
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. It reports whether any file was loaded;
// a missing file is not an error.
func LoadEnv(paths ...string) (bool, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	loaded := false
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return loaded, fmt.Errorf("%w: load %s: %v", internalerr.ErrInvalidConfig, p, err)
		}
		loaded = true
	}
	return loaded, nil
}

// FromEnv builds a Config from Default overridden by the variables that
// lookup reports as set. Pass os.LookupEnv for the process environment.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	str(EnvFolder, &cfg.Folder)
	str(EnvScorer, &cfg.Scorer)
	str(EnvLexiconPath, &cfg.LexiconPath)
	str(EnvSubstitutionsPath, &cfg.SubstitutionsPath)
	str(EnvLLMBaseURL, &cfg.LLMBaseURL)
	str(EnvLLMModel, &cfg.LLMModel)
	str(EnvLLMAPIKey, &cfg.LLMAPIKey)
	str(EnvNLCredentials, &cfg.NLCredentials)
	str(EnvNLLanguage, &cfg.NLLanguage)
	str(EnvJSONPath, &cfg.JSONPath)
	str(EnvDBPath, &cfg.DBPath)

	if v, ok := lookup(EnvMaxWorkers); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q is not an integer", internalerr.ErrInvalidConfig, EnvMaxWorkers, v)
		}
		cfg.MaxWorkers = n
	}
	for key, dst := range map[string]*float64{
		EnvPositiveThreshold: &cfg.Thresholds.Positive,
		EnvNegativeThreshold: &cfg.Thresholds.Negative,
	} {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: %s=%q is not a number", internalerr.ErrInvalidConfig, key, v)
		}
		*dst = f
	}
	if v, ok := lookup(EnvExtensions); ok && strings.TrimSpace(v) != "" {
		cfg.Extensions = SplitList(v)
	}
	return cfg, nil
}

// BindFlags registers command-line flags on fs that override c when parsed.
// The current values of c become the flag defaults.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Folder, "folder", c.Folder, "folder containing the documents ("+EnvFolder+")")
	fs.IntVar(&c.MaxWorkers, "workers", c.MaxWorkers, "number of concurrent workers ("+EnvMaxWorkers+")")
	fs.Float64Var(&c.Thresholds.Positive, "positive", c.Thresholds.Positive, "polarity above which a document is Positive")
	fs.Float64Var(&c.Thresholds.Negative, "negative", c.Thresholds.Negative, "polarity below which a document is Negative")
	fs.Func("ext", "comma-separated document extensions (default "+strings.Join(c.Extensions, ",")+")", func(s string) error {
		c.Extensions = SplitList(s)
		return nil
	})
	fs.StringVar(&c.Scorer, "scorer", c.Scorer, "sentiment scorer: lexicon, llm or cloudnl")
	fs.StringVar(&c.LexiconPath, "lexicon", c.LexiconPath, "path to a lexicon YAML file")
	fs.StringVar(&c.SubstitutionsPath, "substitutions", c.SubstitutionsPath, "path to a substitutions YAML file")
	fs.StringVar(&c.LLMBaseURL, "llm-base", c.LLMBaseURL, "OpenAI-compatible base URL for the llm scorer")
	fs.StringVar(&c.LLMModel, "llm-model", c.LLMModel, "model name for the llm scorer")
	fs.StringVar(&c.JSONPath, "json", c.JSONPath, "write the report as JSON to this path")
	fs.StringVar(&c.DBPath, "db", c.DBPath, "export the report to this SQLite database")
}

// Validate checks every constraint of the configuration, including that each
// extension has an extractor in extract.DefaultRegistry. Violations wrap
// internalerr.ErrInvalidConfig.
func (c Config) Validate() error {
	return c.ValidateFor(extract.DefaultRegistry().Supports)
}

// ValidateFor is Validate with the extension check delegated to supports.
// A nil supports accepts every extension.
func (c Config) ValidateFor(supports func(ext string) bool) error {
	if c.Folder == "" {
		return fmt.Errorf("%w: folder is required (%s)", internalerr.ErrInvalidConfig, EnvFolder)
	}
	info, err := os.Stat(c.Folder)
	if err != nil {
		return fmt.Errorf("%w: folder %s: %v", internalerr.ErrInvalidConfig, c.Folder, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", internalerr.ErrInvalidConfig, c.Folder)
	}
	dir, err := os.Open(c.Folder)
	if err != nil {
		return fmt.Errorf("%w: folder %s is not readable: %v", internalerr.ErrInvalidConfig, c.Folder, err)
	}
	dir.Close()

	if c.MaxWorkers < 1 {
		return fmt.Errorf("%w: max workers must be at least 1, got %d", internalerr.ErrInvalidConfig, c.MaxWorkers)
	}
	if err := c.Thresholds.Validate(); err != nil {
		return err
	}
	if len(c.Extensions) == 0 {
		return fmt.Errorf("%w: no document extensions", internalerr.ErrInvalidConfig)
	}
	if supports != nil {
		for _, ext := range c.Extensions {
			if !supports(ext) {
				return fmt.Errorf("%w: no extractor for extension %q", internalerr.ErrInvalidConfig, ext)
			}
		}
	}

	switch c.Scorer {
	case ScorerLexicon:
	case ScorerLLM:
		if c.LLMBaseURL == "" || c.LLMModel == "" {
			return fmt.Errorf("%w: llm scorer needs %s and %s", internalerr.ErrInvalidConfig, EnvLLMBaseURL, EnvLLMModel)
		}
	case ScorerCloudNL:
		if c.NLCredentials == "" {
			return fmt.Errorf("%w: cloudnl scorer needs %s", internalerr.ErrInvalidConfig, EnvNLCredentials)
		}
	default:
		return fmt.Errorf("%w: unknown scorer %q", internalerr.ErrInvalidConfig, c.Scorer)
	}
	return nil
}

// SplitList splits a comma-separated list, dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
