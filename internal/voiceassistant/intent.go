// ============================================================================
// Lauscher - Sprachgesteuerter Browser-Assistent
// ============================================================================
//
// Package:     voiceassistant
// Description: Voice Assistant - Command classification
// Author:      Mike Stoffels with Claude
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package voiceassistant

import (
	"fmt"
	"strings"
)

// IntentKind identifies what a spoken command asks for
type IntentKind int

const (
	Unrecognized IntentKind = iota
	AnalyzePage
	NavigateBack
	NavigateForward
	OpenURL
	FreeFormQuery
)

// String returns the string representation of the kind
func (k IntentKind) String() string {
	switch k {
	case AnalyzePage:
		return "analyze-page"
	case NavigateBack:
		return "navigate-back"
	case NavigateForward:
		return "navigate-forward"
	case OpenURL:
		return "open-url"
	case FreeFormQuery:
		return "free-form-query"
	default:
		return "unrecognized"
	}
}

// Intent is a classified command. Target is set for OpenURL, Text for
// FreeFormQuery.
type Intent struct {
	Kind   IntentKind
	Target string
	Text   string
}

// Command phrases, matched in this order
const (
	phraseAnalyze = "analyze this page"
	phraseBack    = "go back"
	phraseForward = "go forward"
	phraseOpen    = "open"
)

// Classify maps transcribed text to an intent. Matching is plain
// substring containment on the lower-cased text; the first match wins.
func Classify(text string) Intent {
	command := strings.ToLower(strings.TrimSpace(text))

	switch {
	case command == "":
		return Intent{Kind: Unrecognized}
	case strings.Contains(command, phraseAnalyze):
		return Intent{Kind: AnalyzePage}
	case strings.Contains(command, phraseBack):
		return Intent{Kind: NavigateBack}
	case strings.Contains(command, phraseForward):
		return Intent{Kind: NavigateForward}
	case strings.Contains(command, phraseOpen):
		i := strings.LastIndex(command, phraseOpen)
		return Intent{Kind: OpenURL, Target: strings.TrimSpace(command[i+len(phraseOpen):])}
	default:
		return Intent{Kind: FreeFormQuery, Text: command}
	}
}

// NormalizeURL turns a spoken target into an address. Targets without an
// http or https scheme get "https://www." in front.
func NormalizeURL(target string) string {
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return "https://www." + target
}

// NormalizeTypedURL turns a typed address bar entry into an address.
// Entries without a scheme get "http://".
func NormalizeTypedURL(input string) string {
	input = strings.TrimSpace(input)
	if input == "" || strings.Contains(input, "://") {
		return input
	}
	return "http://" + input
}

// BuildAnalysisPrompt builds the page summarization prompt. Content is cut
// to limit runes.
func BuildAnalysisPrompt(url, question, content string, limit int) string {
	return fmt.Sprintf("Based on the following webpage content from URL: %s, please %s\n\nWebpage content:\n%s",
		url, question, truncate(content, limit))
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
