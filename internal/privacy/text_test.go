package privacy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wardpost/wardpost/internal/privacy"
)

func TestSanitizeText_DropsURLPatternLines(t *testing.T) {
	content := "Ward 43 Weekly Update\n" +
		"Street sweeping resumes Monday.\n" +
		"Unsubscribe: https://chicago.us10.list-manage.com/unsubscribe?u=abc\n" +
		"More info: https://chicago.gov/news\n"

	result := privacy.SanitizeText(content, privacy.DefaultPatternSet())

	assert.Contains(t, result, "Ward 43 Weekly Update")
	assert.Contains(t, result, "Street sweeping resumes Monday.")
	assert.Contains(t, result, "https://chicago.gov/news")
	assert.NotContains(t, result, "list-manage.com")
}

// Text patterns only fire on whole lines. This is the precision guarantee
// for plain text: prose that mentions a keyword mid-sentence survives,
// while a bare link label on its own line does not.
func TestSanitizeText_StandaloneLinePrecision(t *testing.T) {
	testCases := []struct {
		name       string
		line       string
		shouldDrop bool
	}{
		{name: "bare keyword", line: "Unsubscribe", shouldDrop: true},
		{name: "keyword with surrounding whitespace", line: "   unsubscribe   ", shouldDrop: true},
		{name: "view in browser label", line: "View this email in your browser", shouldDrop: true},
		{name: "keyword mid sentence", line: "I will not unsubscribe from your great newsletter.", shouldDrop: false},
		{name: "ordinary content", line: "The community meeting is Thursday at 7pm.", shouldDrop: false},
	}

	patterns := privacy.DefaultPatternSet()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			content := "First line\n" + tc.line + "\nLast line"

			result := privacy.SanitizeText(content, patterns)

			assert.Contains(t, result, "First line")
			assert.Contains(t, result, "Last line")
			if tc.shouldDrop {
				assert.NotContains(t, result, tc.line)
			} else {
				assert.Contains(t, result, tc.line)
			}
		})
	}
}

func TestSanitizeText_PreservesLineStructure(t *testing.T) {
	content := "one\n\ntwo\nthree"

	result := privacy.SanitizeText(content, privacy.DefaultPatternSet())

	assert.Equal(t, content, result)
}

func TestSanitizeText_EmptyPatternSetIsIdentity(t *testing.T) {
	empty := mustPatternSet(t, nil, nil, nil)
	content := "Unsubscribe\nhttps://chicago.us10.list-manage.com/unsubscribe?u=a"

	assert.Equal(t, content, privacy.SanitizeText(content, empty))
}
