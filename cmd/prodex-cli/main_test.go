package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/kailas-cloud/prodex"
)

const testCatalog = `[
  {"id": 1, "title": "Mens Cotton Jacket", "price": 55.99, "category": "men's clothing",
   "description": "Outerwear", "rating": {"rate": 4.7, "count": 500}},
  {"id": 2, "title": "Silver Ring", "price": 10.99, "category": "jewelery",
   "description": "Classic band", "rating": 3.0},
  {"id": 3, "title": "Gaming Monitor", "price": 999.99, "category": "electronics",
   "description": "Curved display"}
]`

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func runApp(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("OPENROUTER_API_KEY", "")
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	app.ExitErrHandler = func(*cli.Context, error) {}
	err := app.Run(append([]string{"prodex"}, args...))
	return out.String(), err
}

func TestSearchCommand_Table(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := runApp(t, "search", "-c", path, "-q", "jacket under $100")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if !strings.Contains(out, `2 result(s) for "jacket under $100" via keyword scorer (not_configured)`) {
		t.Errorf("unexpected header:\n%s", out)
	}
	jacket, ring := strings.Index(out, "Mens Cotton Jacket"), strings.Index(out, "Silver Ring")
	if jacket < 0 || ring < jacket || strings.Contains(out, "Gaming Monitor") {
		t.Errorf("unexpected rows:\n%s", out)
	}
}

func TestSearchCommand_JSON(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := runApp(t, "search", "--catalog", path, "--query", "accessories", "--json", "--keyword-only")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var res prodex.Result
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !res.Fallback || len(res.Products) != 1 || res.Products[0].ID != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestSearchCommand_RequiredFlags(t *testing.T) {
	_, err := runApp(t, "search", "--query", "shoes")
	if err == nil || !strings.Contains(err.Error(), "catalog") {
		t.Errorf("err = %v, want missing catalog flag", err)
	}
}

func TestSearchCommand_BadCatalog(t *testing.T) {
	path := writeCatalog(t, `{"not": "an array"}`)
	if _, err := runApp(t, "search", "-c", path, "-q", "shoes"); err == nil {
		t.Error("expected error for malformed catalog")
	}
	if _, err := runApp(t, "search", "-c", filepath.Join(t.TempDir(), "missing.json"), "-q", "shoes"); err == nil {
		t.Error("expected error for missing catalog file")
	}
}

func TestPromptCommand(t *testing.T) {
	path := writeCatalog(t, testCatalog)

	out, err := runApp(t, "prompt", "-c", path, "-q", "gift ideas")
	if err != nil {
		t.Fatalf("prompt: %v", err)
	}
	for _, want := range []string{
		`User Query: "gift ideas"`,
		"ID: 3, Title: Gaming Monitor, Price: $999.99, Category: electronics, Rating: N/A",
		"SYSTEM:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("prompt missing %q:\n%s", want, out)
		}
	}
}

func TestSetupLogger_InvalidLevel(t *testing.T) {
	path := writeCatalog(t, testCatalog)
	if _, err := runApp(t, "--log-level", "loud", "search", "-c", path, "-q", "x"); err == nil {
		t.Error("expected invalid log level error")
	}
}
