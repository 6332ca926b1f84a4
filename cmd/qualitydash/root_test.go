package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/qualitydash/internal/adapters/http/api"
	service "github.com/okian/qualitydash/internal/app"
	"github.com/okian/qualitydash/internal/probe"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootHelp(t *testing.T) {
	out, err := execute(t, "--help")
	if err != nil {
		t.Fatalf("root --help failed: %v", err)
	}
	for _, want := range []string{"national", "serve", "report", "check", "version"} {
		if !strings.Contains(out, want) {
			t.Errorf("root help missing %q, got:\n%s", want, out)
		}
	}
}

func TestGlobalFlags(t *testing.T) {
	for _, name := range []string{"verbose", "quiet", "no-color", "json-logs", "config"} {
		if rootCmd.PersistentFlags().Lookup(name) == nil {
			t.Errorf("global flag --%s not registered", name)
		}
	}
	if v := rootCmd.PersistentFlags().ShorthandLookup("v"); v == nil || v.Name != "verbose" {
		t.Error("-v shorthand not registered for --verbose")
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if out != "qualitydash dev\n" {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestReportText(t *testing.T) {
	out, err := execute(t, "report", "--no-color", "--quiet", "--section", "priorities", "--limit", "3")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(out, "Priorities") {
		t.Errorf("report missing priorities section:\n%s", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("report contains ANSI escapes with --no-color:\n%s", out)
	}
	if strings.Contains(out, "Summary") {
		t.Errorf("report printed an unselected section:\n%s", out)
	}
}

func TestReportJSON(t *testing.T) {
	out, err := execute(t, "report", "--quiet", "--format", "json", "--section", "summary,slopes", "--domain", "Readmission")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("report output is not JSON: %v\n%s", err, out)
	}
	if _, ok := doc["summary"]; !ok {
		t.Error("json report missing summary")
	}
	if _, ok := doc["slopes"]; !ok {
		t.Error("json report missing slopes")
	}
}

func TestReportUnknownDomain(t *testing.T) {
	_, err := execute(t, "report", "--quiet", "--format", "text", "--section", "summary", "--domain", "Oncology")
	if err == nil {
		t.Fatal("expected an error for an unknown domain")
	}
	// Reset for later tests sharing the global command.
	reportOpts.domain = ""
}

func TestCheck(t *testing.T) {
	ctx := context.Background()
	svc := service.New()
	if err := svc.Start(ctx); err != nil {
		t.Fatalf("start service: %v", err)
	}
	defer svc.Stop()
	mux := http.NewServeMux()
	api.NewServer(svc, svc, 0).Register(ctx, mux)
	srv := httptest.NewServer(mux)
	defer srv.Close()

	out, err := execute(t, "check", "--quiet", "--no-color", "--url", srv.URL, "--workers", "2")
	if err != nil {
		t.Fatalf("check failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Dashboard checks") || !strings.Contains(out, "rank_lookup") {
		t.Errorf("check output missing results:\n%s", out)
	}
	if !strings.Contains(out, " 0 failed") {
		t.Errorf("check reported a failure:\n%s", out)
	}
}

func TestCheckUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := execute(t, "check", "--quiet", "--url", url, "--timeout", "1s")
	if !errors.Is(err, probe.ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
}

func TestSystemMetricsUpdaterStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runSystemMetricsUpdater(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("updater did not stop after cancel")
	}
}
