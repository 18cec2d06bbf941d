package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cognicore/sentir/internal/llm"
	"github.com/cognicore/sentir/pkg/sentir"
	"github.com/cognicore/sentir/pkg/sentir/config"
	"github.com/cognicore/sentir/pkg/sentir/report"
	"github.com/cognicore/sentir/pkg/sentir/score"
	"github.com/cognicore/sentir/pkg/sentir/score/cloudnl"
	"github.com/cognicore/sentir/pkg/sentir/store/sqlite"
)

func main() {
	loaded, err := config.LoadEnv()
	if err != nil {
		log.Fatalf("load .env: %v", err)
	}
	if !loaded {
		log.Println("No .env file found, using environment and flags")
	}

	cfg, err := config.FromEnv(os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.BindFlags(flag.CommandLine)
	var (
		progress = flag.Bool("progress", false, "Show a progress bar on stderr")
		strict   = flag.Bool("strict", false, "Exit with status 2 when any document failed")
	)
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()

	components, err := cfg.Loader().Load()
	if err != nil {
		log.Fatalf("load configs: %v", err)
	}

	scorer, closeScorer, err := buildScorer(ctx, cfg, components)
	if err != nil {
		log.Fatalf("scorer: %v", err)
	}
	defer closeScorer()

	var observer sentir.Observer = logObserver{}
	if *progress {
		observer = newProgressObserver(os.Stderr)
	}

	an := sentir.New(sentir.Options{
		Config:     cfg,
		Normalizer: components.Normalizer,
		Scorer:     scorer,
		Observer:   observer,
	})

	rep, err := an.Run(ctx)
	if err != nil {
		log.Fatalf("run: %v", err)
	}
	if p, ok := observer.(*progressObserver); ok {
		p.Wait()
	}

	if err := report.WriteText(os.Stdout, rep); err != nil {
		log.Fatalf("write report: %v", err)
	}

	if cfg.JSONPath != "" {
		if err := writeFile(cfg.JSONPath, func(w io.Writer) error { return report.WriteJSON(w, rep) }); err != nil {
			log.Fatalf("write json report: %v", err)
		}
		log.Printf("JSON report written to %s", cfg.JSONPath)
	}

	if cfg.DBPath != "" {
		st, err := sqlite.OpenSQLite(ctx, cfg.DBPath)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		if err := an.Export(ctx, st, rep); err != nil {
			st.Close()
			log.Fatalf("export: %v", err)
		}
		st.Close()
		log.Printf("Run %s exported to %s", rep.RunID, cfg.DBPath)
	}

	if *strict && len(rep.Failures) > 0 {
		closeScorer()
		fmt.Fprintf(os.Stderr, "%d of %d documents failed\n", len(rep.Failures), rep.Documents)
		os.Exit(2)
	}
}

// buildScorer picks the scorer backend. Remote backends are wrapped in a
// cache so identical texts get identical polarities within the run.
func buildScorer(ctx context.Context, cfg config.Config, comp *config.Components) (score.Scorer, func(), error) {
	nop := func() {}
	switch cfg.Scorer {
	case config.ScorerLLM:
		client := &llm.Client{
			BaseURL: cfg.LLMBaseURL,
			APIKey:  cfg.LLMAPIKey,
			Model:   cfg.LLMModel,
		}
		return score.NewCached(client), nop, nil
	case config.ScorerCloudNL:
		nl, err := cloudnl.New(ctx, cfg.NLCredentials, cfg.NLLanguage)
		if err != nil {
			return nil, nop, err
		}
		return score.NewCached(nl), func() { nl.Close() }, nil
	default:
		return score.NewLexicon(comp.Lexicon), nop, nil
	}
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
