package atlasd

import (
	"flag"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("atlasd", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.ResponsesURL != "https://api.openai.com/v1/responses" {
		t.Fatalf("expected default responses url, got %q", cfg.ResponsesURL)
	}
	if cfg.Model != "gpt-4o-mini" {
		t.Fatalf("expected default model, got %q", cfg.Model)
	}
	if cfg.TraceDBPath != "" {
		t.Fatalf("expected persistence off by default, got %q", cfg.TraceDBPath)
	}
}

func TestParseConfigEnvAndFlagOverrides(t *testing.T) {
	t.Setenv("CARTOGRAPH_MODEL", "env-model")
	t.Setenv("CARTOGRAPH_API_KEY", "env-key")

	fs := flag.NewFlagSet("atlasd", flag.ContinueOnError)
	args := []string{"-model", "flag-model", "-trace-db", "/tmp/traces.db"}
	cfg, err := ParseConfig(fs, args)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Model != "flag-model" {
		t.Fatalf("expected flag to override env, got %q", cfg.Model)
	}
	if cfg.APIKey != "env-key" {
		t.Fatalf("expected env api key, got %q", cfg.APIKey)
	}
	if cfg.TraceDBPath != "/tmp/traces.db" {
		t.Fatalf("expected flag trace db path, got %q", cfg.TraceDBPath)
	}
}
