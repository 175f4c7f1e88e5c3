package generator

import (
	"strings"

	"github.com/shaiso/Ghostwriter/internal/domain"
)

// Ориентиры длины поста.
const (
	LengthShort    = "Short, punchy, Twitter-like"
	LengthLong     = "Deep storytelling, long-reads"
	LengthStandard = "Standard Instagram/Telegram caption size"
	LengthUnknown  = "Standard blog post"
)

const (
	// minSampleWords — примеры короче не учитываются в средней длине.
	minSampleWords = 6

	shortThreshold = 40
	longThreshold  = 150

	sampleSeparator = "\n---\n"
)

// LengthGuide выводит ориентир длины из примеров стиля.
//
// Средняя длина считается по примерам длиннее пяти слов,
// а делится на общее число примеров.
func LengthGuide(samples []string) string {
	if len(samples) == 0 {
		return LengthUnknown
	}

	total := 0
	for _, s := range samples {
		if n := len(strings.Fields(s)); n >= minSampleWords {
			total += n
		}
	}
	avg := float64(total) / float64(len(samples))

	switch {
	case avg < shortThreshold:
		return LengthShort
	case avg > longThreshold:
		return LengthLong
	default:
		return LengthStandard
	}
}

// StyleText склеивает примеры стиля для промпта.
func StyleText(examples []domain.StyleExample) string {
	if len(examples) == 0 {
		return DefaultStyle
	}
	return strings.Join(styleBodies(examples), sampleSeparator)
}

func styleBodies(examples []domain.StyleExample) []string {
	bodies := make([]string, 0, len(examples))
	for _, e := range examples {
		bodies = append(bodies, e.Body)
	}
	return bodies
}

// HistoryText склеивает начала последних постов.
func HistoryText(bodies []string) string {
	if len(bodies) == 0 {
		return "No previous posts."
	}
	parts := make([]string, 0, len(bodies))
	for _, b := range bodies {
		parts = append(parts, excerpt(b, historyExcerpt)+"...")
	}
	return strings.Join(parts, sampleSeparator)
}

// excerpt обрезает строку до n символов (рун).
func excerpt(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
