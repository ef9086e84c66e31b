package llm

import (
	"regexp"
	"strings"
)

// fencedBlock matches a fenced code block, optionally tagged "json", and
// captures its interior. Models wrap their structured answers this way even
// when told not to.
var fencedBlock = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ExtractJSONBlock returns the interior of the first fenced code block in
// the text, or the trimmed text itself when no fence is present. This is
// best-effort string surgery: whatever comes out must still pass strict
// envelope validation before any field is trusted.
func ExtractJSONBlock(text string) string {
	if m := fencedBlock.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}
