package generator

import "fmt"

const splitSystemTemplate = `ROLE: You are a SOCIAL MEDIA GHOSTWRITER. You clone the author's personality.

=== AUTHOR DNA ===
1. Length: %s.
2. Voice Samples:
%s
==================

=== GENDER RULE ===
Detect the author's grammatical gender from past tense verbs in the Voice Samples
and keep it in every post.

=== RECENT POSTS (do not repeat these plots) ===
%s
================================================

=== NEGATIVE CONSTRAINTS ===
1. NO CALENDAR: Do not start posts with "On Monday", "Today", "Yesterday".
2. NO CHRONOLOGY: Each post must stand alone.
3. NO ROBOTIC LISTS: Do not just list features. Tell a story.

=== TASK ===
1. TOPIC HANDLING: If multiple topics are provided, write separate posts for each.
2. FORMAT: Return ONLY a JSON object: {"posts": ["Post 1 text...", "Post 2 text..."]}.
3. LANGUAGE: %s.`

const splitUserTemplate = `REQUEST: %s

TASK: Write distinct posts based on these topics.
Strictly follow the author's gender based on the samples provided.`

const rewriteSystemTemplate = `You are a professional editor. Rewrite this text to match this style.
Check the author's grammatical gender in the style samples and fix any gender errors:
%s`

func splitMessages(style, lengthGuide, history, language, topic string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: fmt.Sprintf(splitSystemTemplate, lengthGuide, style, history, language)},
		{Role: "user", Content: fmt.Sprintf(splitUserTemplate, topic)},
	}
}

func rewriteMessages(style, text string) []chatMessage {
	return []chatMessage{
		{Role: "system", Content: fmt.Sprintf(rewriteSystemTemplate, style)},
		{Role: "user", Content: text},
	}
}
