package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"starttls-hq/everywhere/pkg/policy/update"
)

func TestRunUpdate_Once(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testPolicy))
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Policy.RemoteURL = server.URL
	cfg.History.Enabled = true
	cfg.History.Driver = "sqlite"
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	var out bytes.Buffer
	if err := runUpdate(context.Background(), cfg, false, &out); err != nil {
		t.Fatalf("runUpdate() error = %v", err)
	}
	if !strings.Contains(out.String(), "Policy updated") {
		t.Errorf("output = %q", out.String())
	}

	data, err := os.ReadFile(cfg.PolicyPath())
	if err != nil || string(data) != testPolicy {
		t.Fatalf("cached policy = %q, %v", data, err)
	}

	out.Reset()
	if err := runUpdate(context.Background(), cfg, false, &out); err != nil {
		t.Fatalf("second runUpdate() error = %v", err)
	}
	if !strings.Contains(out.String(), "Policy up to date") {
		t.Errorf("output = %q", out.String())
	}

	history, err := update.OpenHistory(&cfg.History)
	if err != nil {
		t.Fatal(err)
	}
	defer history.Close()

	records, err := history.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 || records[0].Result != update.ResultUnchanged || records[1].Result != update.ResultReplaced {
		t.Errorf("history = %+v", records)
	}
}

func TestRunUpdate_Failure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Policy.RemoteURL = server.URL

	if err := runUpdate(context.Background(), cfg, false, &bytes.Buffer{}); err == nil {
		t.Fatal("expected error")
	}
	if _, err := os.Stat(cfg.PolicyPath()); !os.IsNotExist(err) {
		t.Errorf("policy should not be written on failure: %v", err)
	}
}

func TestRunUpdate_Scheduled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(testPolicy))
	}))
	defer server.Close()

	cfg := testConfig(t)
	cfg.Policy.RemoteURL = server.URL

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runUpdate(ctx, cfg, true, &bytes.Buffer{})
	}()

	if !waitForFile(cfg.PolicyPath()) {
		cancel()
		t.Fatal("scheduled update did not write the policy")
	}
	cancel()

	if err := <-done; err != nil {
		t.Errorf("runUpdate() error = %v", err)
	}
}
