package main

import (
	"os"
	"path/filepath"
	"testing"

	"starttls-hq/everywhere/pkg/config"
)

const testPolicy = `{
  "author": "Electronic Frontier Foundation",
  "timestamp": 1401093333,
  "expires": "2100-01-01T00:00:00+0000",
  "policy-aliases": {
    "gmail": {"mode": "enforce", "mxs": [".gmail-smtp-in.l.google.com"]}
  },
  "policies": {
    "eff.org": {"mode": "enforce", "mxs": [".eff.org"]},
    "gmail.com": {"policy-alias": "gmail"}
  }
}`

const testOverrides = `{
  "timestamp": 1401093334,
  "expires": "2100-01-01T00:00:00+0000",
  "policies": {
    "example.com": {"mxs": ["mx.example.com"]}
  }
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Policy.Dir = t.TempDir()
	return cfg
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
