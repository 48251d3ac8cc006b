package applications

import "testing"

func TestCanTransitionMatrix(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusApplied, StatusInterview}:  true,
		{StatusApplied, StatusOffer}:      true,
		{StatusApplied, StatusRejected}:   true,
		{StatusInterview, StatusOffer}:    true,
		{StatusInterview, StatusHired}:    true,
		{StatusInterview, StatusRejected}: true,
		{StatusOffer, StatusHired}:        true,
		{StatusOffer, StatusRejected}:     true,
	}
	count := 0
	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			count++
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Fatalf("CanTransition(%s, %s)=%v want %v", from, to, got, want)
			}
		}
	}
	if count != 25 {
		t.Fatalf("expected 25 pairs, got %d", count)
	}
}

func TestCanTransitionUnknownStatus(t *testing.T) {
	if CanTransition("ARCHIVED", StatusRejected) {
		t.Fatalf("unknown source must be rejected")
	}
	if CanTransition(StatusApplied, "ghosted") {
		t.Fatalf("unknown target must be rejected")
	}
}

func TestTerminalStatusesHaveNoTargets(t *testing.T) {
	for _, s := range []Status{StatusHired, StatusRejected} {
		if !s.IsTerminal() {
			t.Fatalf("%s should be terminal", s)
		}
		if got := AllowedTargets(s); len(got) != 0 {
			t.Fatalf("%s targets=%v want none", s, got)
		}
	}
	got := AllowedTargets(StatusApplied)
	want := []Status{StatusInterview, StatusOffer, StatusRejected}
	if len(got) != len(want) {
		t.Fatalf("targets=%v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("targets=%v want %v", got, want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" interview ")
	if err != nil || s != StatusInterview {
		t.Fatalf("ParseStatus: %v %v", s, err)
	}
	if _, err := ParseStatus("ghosted"); err == nil {
		t.Fatalf("expected error for unknown status")
	}
	if StatusOffer.Label() != "Offer Received" {
		t.Fatalf("label=%q", StatusOffer.Label())
	}
}
