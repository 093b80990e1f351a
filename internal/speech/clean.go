package speech

import (
	"regexp"
	"strings"
	"unicode"
)

// annotation matches whisper's environmental notes like "(keyboard
// clicking)" or "[BLANK_AUDIO]".
var annotation = regexp.MustCompile(`[\(\[][a-zA-Z_][a-zA-Z_\s]*[\)\]]`)

// timestampPrefix matches "[00:00:00.000 --> 00:00:05.000]".
var timestampPrefix = regexp.MustCompile(`^\[[0-9:.]+\s*-->\s*[0-9:.]+\]`)

// hallucinations are outputs whisper produces on silence.
var hallucinations = []string{
	"...",
	"you",
	"thank you.",
	"thanks for watching!",
	"thank you for watching.",
	"bye.",
	"the end.",
}

// CleanTranscription removes whisper artifacts: newlines, timestamps,
// bracketed annotations and the phrases it invents on silence. It returns
// "" when nothing real was said.
func CleanTranscription(s string) string {
	s = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
	s = strings.TrimSpace(s)
	s = timestampPrefix.ReplaceAllString(s, "")
	s = annotation.ReplaceAllString(s, "")
	s = strings.Join(strings.Fields(s), " ")

	lower := strings.ToLower(s)
	for _, h := range hallucinations {
		if lower == h {
			return ""
		}
	}
	return s
}

// NormalizeTranscript lowercases a transcript and trims surrounding spaces
// and punctuation, so "Show my list." matches the same commands as
// "show my list".
func NormalizeTranscript(s string) string {
	s = strings.ToLower(s)
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
}
