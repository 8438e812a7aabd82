package chat

import "testing"

func TestComposePrompt_NoContext(t *testing.T) {
	if got := ComposePrompt("I have a headache", nil, nil); got != "I have a headache" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestComposePrompt_Conditions(t *testing.T) {
	got := ComposePrompt("What else?", []string{"diabetes"}, nil)
	if got != "User has diabetes. What else?" {
		t.Fatalf("unexpected prompt %q", got)
	}
	got = ComposePrompt("Advice?", []string{"asthma", "hypertension"}, nil)
	if got != "User has asthma, hypertension. Advice?" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestComposePrompt_ReportOverridesConditions(t *testing.T) {
	report := "LDL 190"
	got := ComposePrompt("Diet tips?", []string{"diabetes"}, &report)
	want := "User has the following health conditions based on the report: LDL 190 Diet tips?"
	if got != want {
		t.Fatalf("unexpected prompt:\n got %q\nwant %q", got, want)
	}
}

func TestComposePrompt_EmptyReportStillWins(t *testing.T) {
	empty := ""
	got := ComposePrompt("Hi", []string{"diabetes"}, &empty)
	if got != "User has the following health conditions based on the report:  Hi" {
		t.Fatalf("unexpected prompt %q", got)
	}
}

func TestJoinConditions(t *testing.T) {
	if got := JoinConditions(nil); got != "" {
		t.Fatalf("expected empty, got %q", got)
	}
	if got := JoinConditions([]string{"a", "b"}); got != "a, b" {
		t.Fatalf("unexpected %q", got)
	}
}
