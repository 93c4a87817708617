package integration

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/eugenenazirov/yamlenv"
	"github.com/eugenenazirov/yamlenv/codec"
	"github.com/eugenenazirov/yamlenv/envstate"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func cleanupVars(t *testing.T, names ...string) {
	t.Helper()

	for _, name := range names {
		name := name
		t.Cleanup(func() { os.Unsetenv(name) })
	}
}

func TestLoadPopulatesProcessEnvironment(t *testing.T) {
	path := writeConfig(t, "database:\n  host: localhost\n  port: 5432\ndebug: true\n")
	cleanupVars(t, "ITCFG_DATABASE_HOST", "ITCFG_DATABASE_PORT", "ITCFG_DEBUG")

	res, err := yamlenv.Load(path,
		yamlenv.WithPrefix("ITCFG"),
		yamlenv.WithEnvironment(envstate.NewProcessEnvironment()),
		yamlenv.WithLogger(zaptest.NewLogger(t)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("ITCFG_DATABASE_HOST"); got != "localhost" {
		t.Fatalf("expected host exported, got %q", got)
	}
	if got := os.Getenv("ITCFG_DATABASE_PORT"); got != "5432" {
		t.Fatalf("expected port exported, got %q", got)
	}
	if got := os.Getenv("ITCFG_DEBUG"); got != "true" {
		t.Fatalf("expected debug exported, got %q", got)
	}
	if len(res.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", res.Issues)
	}
}

func TestLoadRespectsExplicitEnvironment(t *testing.T) {
	path := writeConfig(t, "database:\n  host: localhost\n  port: 5432\n")
	t.Setenv("ITCFG_DATABASE_HOST", "db.internal")
	cleanupVars(t, "ITCFG_DATABASE_PORT")

	res, err := yamlenv.Load(path,
		yamlenv.WithPrefix("ITCFG"),
		yamlenv.WithEnvironment(envstate.NewProcessEnvironment()),
		yamlenv.WithLogger(zaptest.NewLogger(t)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("ITCFG_DATABASE_HOST"); got != "db.internal" {
		t.Fatalf("explicit variable was clobbered: %q", got)
	}
	db := res.Config["database"].(map[string]any)
	if db["host"] != "db.internal" {
		t.Fatalf("expected explicit value in resolved tree, got %v", db["host"])
	}
	if db["port"] != 5432 {
		t.Fatalf("expected file value for sibling key, got %v", db["port"])
	}
}

func TestLoadOverrideReplacesExplicitValue(t *testing.T) {
	path := writeConfig(t, "database:\n  host: localhost\n")
	t.Setenv("ITCFG_DATABASE_HOST", "db.internal")

	_, err := yamlenv.Load(path,
		yamlenv.WithPrefix("ITCFG"),
		yamlenv.WithOverride(true),
		yamlenv.WithEnvironment(envstate.NewProcessEnvironment()),
		yamlenv.WithLogger(zaptest.NewLogger(t)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("ITCFG_DATABASE_HOST"); got != "localhost" {
		t.Fatalf("expected file value to win under override, got %q", got)
	}
}

func TestLoadWithSchemaDefaultsAndValidation(t *testing.T) {
	path := writeConfig(t, "database:\n  host: localhost\n")
	cleanupVars(t, "ITCFG_DATABASE_HOST", "ITCFG_DATABASE_PORT", "ITCFG_TIMEOUT")

	sch := yamlenv.Schema{
		"database.host": {Type: codec.KindString, Required: true},
		"database.port": {Type: codec.KindInt, Default: 5432},
		"timeout":       {Type: codec.KindFloat, Default: 1.5},
	}

	res, err := yamlenv.Load(path,
		yamlenv.WithPrefix("ITCFG"),
		yamlenv.WithSchema(sch),
		yamlenv.WithStrict(true),
		yamlenv.WithEnvironment(envstate.NewProcessEnvironment()),
		yamlenv.WithLogger(zaptest.NewLogger(t)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("ITCFG_DATABASE_PORT"); got != "5432" {
		t.Fatalf("expected default port exported, got %q", got)
	}
	if res.Config["timeout"] != 1.5 {
		t.Fatalf("expected default timeout in resolved tree, got %v", res.Config["timeout"])
	}
	db := res.Config["database"].(map[string]any)
	if db["port"] != 5432 {
		t.Fatalf("expected default port in resolved tree, got %v", db["port"])
	}
}

func TestLoadStructuredValuesRoundTrip(t *testing.T) {
	path := writeConfig(t, "tags:\n  - alpha\n  - beta\nweights:\n  - 1\n  - 2.5\n")
	cleanupVars(t, "ITCFG_TAGS", "ITCFG_WEIGHTS")

	if _, err := yamlenv.Load(path,
		yamlenv.WithPrefix("ITCFG"),
		yamlenv.WithEnvironment(envstate.NewProcessEnvironment()),
		yamlenv.WithLogger(zaptest.NewLogger(t)),
	); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := os.Getenv("ITCFG_TAGS"); got != `["alpha","beta"]` {
		t.Fatalf("unexpected list encoding: %q", got)
	}

	// A second load with no file must reconstruct the tree from the
	// variables the first load wrote.
	res, err := yamlenv.Load("",
		yamlenv.WithPrefix("ITCFG"),
		yamlenv.WithMode(yamlenv.ReturnObject),
		yamlenv.WithEnvironment(envstate.NewProcessEnvironment()),
		yamlenv.WithLogger(zaptest.NewLogger(t)),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tags, ok := res.Config["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "alpha" {
		t.Fatalf("unexpected tags: %#v", res.Config["tags"])
	}
	weights, ok := res.Config["weights"].([]any)
	if !ok || len(weights) != 2 || weights[0] != 1 || weights[1] != 2.5 {
		t.Fatalf("unexpected weights: %#v", res.Config["weights"])
	}
}
