package chatbot

import (
	"context"
	"testing"
)

func TestRuleClassifier(t *testing.T) {
	cases := []struct {
		in     string
		intent Intent
		slot   string
	}{
		{"hi", IntentGreet, ""},
		{"Hello there", IntentGreet, ""},
		{"park at A42", IntentBook, "A42"},
		{"book b-7 please", IntentBook, "B7"},
		{"A12", IntentBook, "A12"}, // bare slot token implies booking
		{"I'm leaving now", IntentLeave, ""},
		{"release my slot", IntentLeave, ""},
		{"can I extend my booking", IntentExtend, ""},
		{"show free slots", IntentList, ""},
		{"usage report please", IntentReport, ""},
		{"manage my vehicles", IntentManage, ""},
		{"what is the meaning of life", IntentUnknown, ""},
		{"", IntentUnknown, ""},
	}

	var rc RuleClassifier
	for _, c := range cases {
		got, err := rc.Classify(context.Background(), c.in, nil, nil)
		if err != nil {
			t.Errorf("Classify(%q): %v", c.in, err)
			continue
		}
		if got.Intent != c.intent {
			t.Errorf("Classify(%q).Intent = %s, want %s", c.in, got.Intent, c.intent)
		}
		if got.Slot != c.slot {
			t.Errorf("Classify(%q).Slot = %q, want %q", c.in, got.Slot, c.slot)
		}
	}
}

func TestKeywordBoundaries(t *testing.T) {
	// "hi" inside "vehicle" must not read as a greeting.
	var rc RuleClassifier
	got, _ := rc.Classify(context.Background(), "my vehicle broke down", nil, nil)
	if got.Intent == IntentGreet {
		t.Fatalf("greeting matched inside a word: %+v", got)
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`{"intent":"book"}`, `{"intent":"book"}`},
		{"```json\n{\"intent\":\"book\"}\n```", `{"intent":"book"}`},
		{"```\n{\"intent\":\"leave\"}\n```", `{"intent":"leave"}`},
		{"  {\"intent\":\"list\"}\n", `{"intent":"list"}`},
	}
	for _, c := range cases {
		if got := extractJSON(c.in); got != c.want {
			t.Errorf("extractJSON(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
