package shared_test

import (
	"testing"

	"yacht_automate/internal/domain"
	"yacht_automate/internal/shared"
)

func TestRedactEmail(t *testing.T) {
	cases := map[string]string{
		"john.smith@example.com": "j********h@example.com",
		"ab@x.io":                "**@x.io",
		"nobody":                 "***",
	}
	for in, want := range cases {
		if got := shared.RedactEmail(in); got != want {
			t.Fatalf("RedactEmail(%q) = %q, want %q", in, got, want)
		}
	}
	if len(shared.HashPII("a@b.c")) != 12 {
		t.Fatalf("expected 12-char fingerprint")
	}
}

func TestDemoFleet(t *testing.T) {
	counts := map[domain.Region]int{}
	for _, y := range shared.DemoFleet {
		counts[y.Region]++
		if y.WeeklyRate <= 0 || y.Guests <= 0 || y.Name == "" {
			t.Fatalf("invalid demo yacht: %+v", y)
		}
	}
	if counts[domain.RegionMediterranean] != 20 || counts[domain.RegionCaribbean] != 10 || counts[domain.RegionBahamas] != 10 {
		t.Fatalf("unexpected fleet distribution: %v", counts)
	}
}
