package chatbot

import (
	"strings"
	"unicode"
)

type GrammarAnalysis struct {
	SentenceCount   int      `json:"sentenceCount"`
	WordCount       int      `json:"wordCount"`
	AverageSentence float64  `json:"averageSentenceLength"`
	Issues          []string `json:"issues"`
}

type SentimentAnalysis struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type Analysis struct {
	Grammar   GrammarAnalysis   `json:"grammar"`
	Sentiment SentimentAnalysis `json:"sentiment"`
}

var positiveWords = map[string]struct{}{
	"good": {}, "great": {}, "love": {}, "like": {}, "happy": {},
	"thanks": {}, "thank": {}, "awesome": {}, "excellent": {}, "fun": {},
}

var negativeWords = map[string]struct{}{
	"bad": {}, "hate": {}, "sad": {}, "angry": {}, "difficult": {},
	"hard": {}, "confused": {}, "wrong": {}, "boring": {}, "terrible": {},
}

func splitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, strings.TrimSpace(p))
		}
	}
	return out
}

func AnalyzeGrammar(message string) GrammarAnalysis {
	sentences := splitSentences(message)
	words := strings.Fields(message)

	analysis := GrammarAnalysis{
		SentenceCount: len(sentences),
		WordCount:     len(words),
	}
	if len(sentences) > 0 {
		analysis.AverageSentence = float64(len(words)) / float64(len(sentences))
	}

	trimmed := strings.TrimSpace(message)
	if trimmed != "" {
		first := []rune(trimmed)[0]
		if unicode.IsLetter(first) && !unicode.IsUpper(first) {
			analysis.Issues = append(analysis.Issues, "sentence should start with a capital letter")
		}
		last := trimmed[len(trimmed)-1]
		if last != '.' && last != '!' && last != '?' {
			analysis.Issues = append(analysis.Issues, "sentence should end with punctuation")
		}
	}
	if strings.Contains(message, "  ") {
		analysis.Issues = append(analysis.Issues, "contains repeated spaces")
	}
	return analysis
}

func AnalyzeSentiment(message string) SentimentAnalysis {
	var positive, negative int
	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.TrimFunc(word, func(r rune) bool { return !unicode.IsLetter(r) })
		if _, ok := positiveWords[word]; ok {
			positive++
		}
		if _, ok := negativeWords[word]; ok {
			negative++
		}
	}

	total := positive + negative
	if total == 0 {
		return SentimentAnalysis{Label: "neutral", Score: 0}
	}
	score := float64(positive-negative) / float64(total)
	label := "neutral"
	switch {
	case score > 0.2:
		label = "positive"
	case score < -0.2:
		label = "negative"
	}
	return SentimentAnalysis{Label: label, Score: score}
}

func AnalyzeMessage(message string) Analysis {
	return Analysis{
		Grammar:   AnalyzeGrammar(message),
		Sentiment: AnalyzeSentiment(message),
	}
}
