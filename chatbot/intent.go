package chatbot

import (
	"context"
	"regexp"
	"strings"
)

type Intent string

const (
	IntentGreet   Intent = "greet"
	IntentBook    Intent = "book"
	IntentLeave   Intent = "leave"
	IntentExtend  Intent = "extend"
	IntentList    Intent = "list"
	IntentReport  Intent = "report"
	IntentManage  Intent = "manage"
	IntentUnknown Intent = "unknown"
)

type Classification struct {
	Intent     Intent  `json:"intent"`
	Slot       string  `json:"slot,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Classifier maps a free-text utterance to an intent, optionally carrying a
// slot token. The free/occupied lists give remote implementations context;
// the local one ignores them.
type Classifier interface {
	Classify(ctx context.Context, utterance string, free, occupied []string) (Classification, error)
}

// RuleClassifier is the always-available keyword fallback. It never errors.
type RuleClassifier struct{}

var slotTokenRe = regexp.MustCompile(`\b([A-Za-z]{1,2}-?[0-9]{1,3})\b`)

var intentKeywords = []struct {
	intent Intent
	words  []string
}{
	{IntentLeave, []string{"leave", "leaving", "release", "vacate", "check out", "checkout", "unpark"}},
	{IntentExtend, []string{"extend", "extension", "longer", "more time"}},
	{IntentBook, []string{"book", "park", "reserve", "take slot", "claim"}},
	{IntentList, []string{"list", "show", "free", "available", "empty", "vacant", "which slot"}},
	{IntentReport, []string{"report", "usage", "summary", "statistics", "stats"}},
	{IntentManage, []string{"vehicle", "vehicles", "my car", "my bike", "manage", "register"}},
	{IntentGreet, []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening"}},
}

func (RuleClassifier) Classify(_ context.Context, utterance string, _, _ []string) (Classification, error) {
	text := strings.ToLower(strings.TrimSpace(utterance))
	if text == "" {
		return Classification{Intent: IntentUnknown}, nil
	}

	c := Classification{Intent: IntentUnknown, Confidence: 0.5}
	for _, entry := range intentKeywords {
		for _, kw := range entry.words {
			if matchesKeyword(text, kw) {
				c.Intent = entry.intent
				break
			}
		}
		if c.Intent != IntentUnknown {
			break
		}
	}

	if m := slotTokenRe.FindString(utterance); m != "" {
		c.Slot = strings.ToUpper(strings.ReplaceAll(m, "-", ""))
		// A bare slot token is as good as asking for it.
		if c.Intent == IntentUnknown {
			c.Intent = IntentBook
		}
	}
	return c, nil
}

// matchesKeyword looks for the keyword on word boundaries so that "hi"
// does not fire inside "vehicle".
func matchesKeyword(text, kw string) bool {
	idx := strings.Index(text, kw)
	for idx >= 0 {
		before := idx == 0 || !isWordRune(rune(text[idx-1]))
		afterIdx := idx + len(kw)
		after := afterIdx >= len(text) || !isWordRune(rune(text[afterIdx]))
		if before && after {
			return true
		}
		next := strings.Index(text[idx+1:], kw)
		if next < 0 {
			return false
		}
		idx = idx + 1 + next
	}
	return false
}

func isWordRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
