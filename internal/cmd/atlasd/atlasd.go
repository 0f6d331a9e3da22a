// Package atlasd parses atlas daemon flags and wires the MCP server to the
// reconciliation engine.
package atlasd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/marlowe-games/cartograph/internal/atlas/correction"
	"github.com/marlowe-games/cartograph/internal/atlas/mcpapi"
	"github.com/marlowe-games/cartograph/internal/atlas/reconcile"
	"github.com/marlowe-games/cartograph/internal/atlas/storage/sqlite"
	"github.com/marlowe-games/cartograph/internal/atlas/trace"
	"github.com/marlowe-games/cartograph/internal/platform/config"
	"github.com/marlowe-games/cartograph/internal/platform/otel"
)

// Config holds atlas daemon configuration.
type Config struct {
	ResponsesURL string `env:"CARTOGRAPH_RESPONSES_URL" envDefault:"https://api.openai.com/v1/responses"`
	APIKey       string `env:"CARTOGRAPH_API_KEY"`
	Model        string `env:"CARTOGRAPH_MODEL"         envDefault:"gpt-4o-mini"`
	TraceDBPath  string `env:"CARTOGRAPH_TRACE_DB"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.ResponsesURL, "responses-url", cfg.ResponsesURL, "correction service responses endpoint")
	fs.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "correction service API key")
	fs.StringVar(&cfg.Model, "model", cfg.Model, "correction service model")
	fs.StringVar(&cfg.TraceDBPath, "trace-db", cfg.TraceDBPath, "path to the batch trace database (empty disables persistence)")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the atlas MCP server on stdio until the context ends.
func Run(ctx context.Context, cfg Config) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("correction service API key is required")
	}

	shutdown, err := otel.Setup(ctx, "atlasd")
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			log.Printf("otel shutdown: %v", err)
		}
	}()

	var opts []reconcile.Option
	if cfg.TraceDBPath != "" {
		store, err := sqlite.Open(cfg.TraceDBPath)
		if err != nil {
			return fmt.Errorf("open trace store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				log.Printf("close trace store: %v", err)
			}
		}()
		opts = append(opts, reconcile.WithTraceEmitter(trace.NewEmitter(store)))
	}

	corr := correction.NewClient(correction.ClientConfig{
		ResponsesURL: cfg.ResponsesURL,
		APIKey:       cfg.APIKey,
		Model:        cfg.Model,
	})
	engine := reconcile.New(corr, opts...)

	server, err := mcpapi.New(engine, nil)
	if err != nil {
		return fmt.Errorf("configure MCP server: %w", err)
	}
	return server.Run(ctx)
}
