package privacy_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardpost/wardpost/internal/privacy"
)

func TestSanitizeHTML_URLPatterns(t *testing.T) {
	testCases := []struct {
		name         string
		href         string
		shouldRemove bool
	}{
		{
			name:         "mailchimp unsubscribe",
			href:         "https://chicago.us10.list-manage.com/unsubscribe?u=abc123&id=def",
			shouldRemove: true,
		},
		{
			name:         "mailchimp profile update",
			href:         "https://chicago.us10.list-manage.com/profile?u=abc123",
			shouldRemove: true,
		},
		{
			name:         "mailchimp click tracking",
			href:         "https://chicago.us10.list-manage.com/track/click?u=abc&id=def&e=ghi",
			shouldRemove: true,
		},
		{
			name:         "constant contact opt out",
			href:         "https://visitor.constantcontact.com/do?p=un&m=001abc",
			shouldRemove: true,
		},
		{
			name:         "constant contact redirect",
			href:         "http://r20.rs6.net/tn.jsp?f=001abc&ch=def",
			shouldRemove: true,
		},
		{
			name:         "sparkpost unsubscribe",
			href:         "https://sparkpostmail.com/f/a/xyz123/unsubscribe",
			shouldRemove: true,
		},
		{
			name:         "mailchimp archive view",
			href:         "https://mailchi.mp/abc123/ward-news?e=recipient456",
			shouldRemove: true,
		},
		{
			name:         "campaign archive",
			href:         "https://us10.campaign-archive.com/?u=abc&id=def",
			shouldRemove: true,
		},
		{
			name:         "city news page is kept",
			href:         "https://chicago.gov/news/street-sweeping",
			shouldRemove: false,
		},
		{
			name:         "ward site is kept",
			href:         "https://ward43.org/events",
			shouldRemove: false,
		},
		{
			name:         "mailchi.mp without recipient token is kept",
			href:         "https://mailchi.mp/abc123/ward-news",
			shouldRemove: false,
		},
	}

	patterns := privacy.DefaultPatternSet()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			content := fmt.Sprintf(`<p>Ward update.</p><p><a href=%q>Read more here</a></p>`, tc.href)

			// Act
			result, err := privacy.SanitizeHTML(content, patterns)

			// Assert
			require.NoError(t, err)
			assert.Contains(t, result, "Ward update.")
			if tc.shouldRemove {
				assert.NotContains(t, result, tc.href)
				assert.NotContains(t, result, "Read more here")
			} else {
				assert.Contains(t, result, "Read more here")
			}
		})
	}
}

func TestSanitizeHTML_LinkTextPatterns(t *testing.T) {
	testCases := []struct {
		name         string
		linkText     string
		shouldRemove bool
	}{
		{name: "unsubscribe label", linkText: "Unsubscribe", shouldRemove: true},
		{name: "unsubscribe sentence", linkText: "Click here to unsubscribe from this list", shouldRemove: true},
		{name: "profile update label", linkText: "Update Your Profile", shouldRemove: true},
		{name: "preferences label", linkText: "Manage your email preferences", shouldRemove: true},
		{name: "view in browser label", linkText: "View this email in your browser", shouldRemove: true},
		{name: "forward label", linkText: "Forward to a Friend", shouldRemove: true},
		{name: "address book label", linkText: "Add us to your address book", shouldRemove: true},
		{name: "content link is kept", linkText: "Read the full ward report", shouldRemove: false},
		{name: "event link is kept", linkText: "RSVP for the community meeting", shouldRemove: false},
	}

	patterns := privacy.DefaultPatternSet()

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			content := fmt.Sprintf(`<p><a href="https://example.com/page">%s</a></p>`, tc.linkText)

			result, err := privacy.SanitizeHTML(content, patterns)

			require.NoError(t, err)
			if tc.shouldRemove {
				assert.NotContains(t, result, tc.linkText)
			} else {
				assert.Contains(t, result, tc.linkText)
			}
		})
	}
}

// Link text is matched on its rendered form: nested markup and irregular
// whitespace must not hide a privacy keyword.
func TestSanitizeHTML_LinkTextIsMatchedAcrossNestedMarkup(t *testing.T) {
	content := `<p><a href="https://example.com/x"><span>View</span> this
		email in your <b>browser</b></a></p>`

	result, err := privacy.SanitizeHTML(content, privacy.DefaultPatternSet())

	require.NoError(t, err)
	assert.NotContains(t, result, "browser")
	assert.NotContains(t, result, `https://example.com/x`)
}

func TestSanitizeHTML_SelectorRemovalIsTotal(t *testing.T) {
	// The footer holds an innocent-looking link that matches no pattern on
	// its own. Container removal must still take it out, links unevaluated.
	content := `
		<div class="content"><p>Street sweeping resumes Monday.</p></div>
		<div class="complianceLinks">
			<a href="https://example.com/company">About our company</a>
			<a href="https://chicago.us10.list-manage.com/unsubscribe?u=a">Unsubscribe</a>
		</div>
		<div id="footer-links"><p>Footer boilerplate</p></div>`

	result, err := privacy.SanitizeHTML(content, privacy.DefaultPatternSet())

	require.NoError(t, err)
	assert.Contains(t, result, "Street sweeping resumes Monday.")
	assert.NotContains(t, result, "About our company")
	assert.NotContains(t, result, "Unsubscribe")
	assert.NotContains(t, result, "Footer boilerplate")
}

func TestSanitizeHTML_UnwrapPreservesMedia(t *testing.T) {
	content := `<p><a href="https://chicago.us10.list-manage.com/track/click?u=a&id=b">` +
		`<img src="https://cdn.example.com/park-opening.jpg" alt="Park opening"/> Park opening photos</a></p>`

	result, err := privacy.SanitizeHTML(content, privacy.DefaultPatternSet())

	require.NoError(t, err)
	assert.Contains(t, result, "park-opening.jpg")
	assert.Contains(t, result, "Park opening photos")
	assert.NotContains(t, result, "list-manage.com/track/click")
	assert.NotContains(t, result, "<a ")
}

func TestSanitizeHTML_ProseMentioningKeywordsIsKept(t *testing.T) {
	// Keywords only matter inside anchors. Plain prose is never touched.
	content := `<p>If you want to unsubscribe, call my office instead.</p>
		<p>You can update your profile at the library kiosk.</p>`

	result, err := privacy.SanitizeHTML(content, privacy.DefaultPatternSet())

	require.NoError(t, err)
	assert.Contains(t, result, "If you want to unsubscribe, call my office instead.")
	assert.Contains(t, result, "You can update your profile at the library kiosk.")
}

func TestSanitizeHTML_AnchorsWithoutHrefAreIgnored(t *testing.T) {
	testCases := []struct {
		name    string
		content string
	}{
		{
			name:    "no href attribute",
			content: `<p><a name="section-top">Unsubscribe</a></p>`,
		},
		{
			name:    "whitespace href",
			content: `<p><a href="   ">Unsubscribe</a></p>`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result, err := privacy.SanitizeHTML(tc.content, privacy.DefaultPatternSet())

			require.NoError(t, err)
			assert.Contains(t, result, "Unsubscribe")
		})
	}
}

func TestSanitizeHTML_MalformedMarkupIsTolerated(t *testing.T) {
	content := `<div><p>Unclosed paragraph<p><a href="https://chicago.us10.list-manage.com/unsubscribe?u=a">Unsubscribe</a>` +
		`<p>Next item</div>`

	result, err := privacy.SanitizeHTML(content, privacy.DefaultPatternSet())

	require.NoError(t, err)
	assert.Contains(t, result, "Unclosed paragraph")
	assert.Contains(t, result, "Next item")
	assert.NotContains(t, result, "list-manage.com")
}

func TestSanitizeHTML_Idempotent(t *testing.T) {
	content := `
		<div class="complianceLinks"><a href="https://x.com/a">Legal</a></div>
		<p><a href="https://chicago.us10.list-manage.com/unsubscribe?u=a">Unsubscribe</a></p>
		<p><a href="https://chicago.gov/news">City news</a></p>
		<p><a href="https://chicago.us10.list-manage.com/track/click?u=a"><img src="pic.jpg"/></a></p>`

	patterns := privacy.DefaultPatternSet()

	once, err := privacy.SanitizeHTML(content, patterns)
	require.NoError(t, err)

	twice, err := privacy.SanitizeHTML(once, patterns)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestSanitizeHTML_NonMatchingContentPassesThrough(t *testing.T) {
	content := `<h1>Ward 43 Weekly</h1><p>The farmers market opens <a href="https://ward43.org/market">Saturday</a>.</p>`

	result, err := privacy.SanitizeHTML(content, privacy.DefaultPatternSet())

	require.NoError(t, err)
	assert.Contains(t, result, "<h1>Ward 43 Weekly</h1>")
	assert.Contains(t, result, `<a href="https://ward43.org/market">Saturday</a>`)
}

func TestSanitizeHTML_EmptyPatternSetChangesNothingMeaningful(t *testing.T) {
	empty := mustPatternSet(t, nil, nil, nil)
	content := `<p><a href="https://chicago.us10.list-manage.com/unsubscribe?u=a">Unsubscribe</a></p>`

	result, err := privacy.SanitizeHTML(content, empty)

	require.NoError(t, err)
	assert.Contains(t, result, "Unsubscribe")
	assert.Contains(t, result, "list-manage.com/unsubscribe")
}
