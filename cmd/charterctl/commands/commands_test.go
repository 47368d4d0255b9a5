package commands

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"yacht_automate/internal/domain"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dsn, tenantID, verbose = "", demoTenant, false
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestFleet(t *testing.T) {
	out, err := run(t, "fleet", "--area", "bahamas")
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	if !strings.Contains(out, "10 of 10 yachts") || strings.Contains(out, "Mediterranean") {
		t.Fatalf("output:\n%s", out)
	}
	if _, err := run(t, "fleet", "--area", "arctic"); err == nil {
		t.Fatal("expected unknown area error")
	}
}

func TestMatch(t *testing.T) {
	out, err := run(t, "match", "--party", "10", "--location", "Monaco", "--explain", "luxury", "motor", "yacht")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	if !strings.Contains(out, "regions: Mediterranean") || !strings.Contains(out, "SPECTRE") || !strings.Contains(out, "LUX") {
		t.Fatalf("output:\n%s", out)
	}
	if _, err := run(t, "match", "anything"); err == nil {
		t.Fatal("expected --party error")
	}
}

func TestQuote(t *testing.T) {
	out, err := run(t, "quote", "--weeks", "2", "spectre")
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !strings.Contains(out, "TOTAL:            EUR 514,500") {
		t.Fatalf("output:\n%s", out)
	}
	if _, err := run(t, "quote", "no such boat"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
