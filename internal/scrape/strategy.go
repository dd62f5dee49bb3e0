package scrape

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wardpost/wardpost/pkg/urlutil"
)

/*
Archive Strategies

Each ward publishes its newsletter archive in a different shape. A
strategy knows how to pull newsletter references out of one of those
shapes. Strategy selection is by URL: Mailchimp-hosted archives get the
structured strategy, everything else falls back to the generic link scan.

Extraction is best-effort and never fails: an archive page that matches
nothing yields an empty list, not an error.
*/

// archiveDatePattern matches the Mailchimp archive line format
// "12/23/2025 - <link>"
var archiveDatePattern = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})\s*-`)

// MailchimpArchiveStrategy handles Mailchimp-hosted archive pages:
// a ul#archive-list with one li.campaign per issue. The signup button
// shares the list markup but not the campaign class, so it is skipped
// structurally.
type MailchimpArchiveStrategy struct{}

// Compile-time interface check
var _ ArchiveStrategy = (*MailchimpArchiveStrategy)(nil)

func (m *MailchimpArchiveStrategy) ExtractNewsletters(html string, baseURL string) []ArchiveEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var entries []ArchiveEntry

	doc.Find("ul#archive-list li.campaign").Each(func(_ int, li *goquery.Selection) {
		link := li.Find("a[href]").First()
		if link.Length() == 0 {
			return
		}

		href, _ := link.Attr("href")
		title := link.AttrOr("title", "")
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}

		entries = append(entries, NewArchiveEntry(title, href, extractDateFromContext(li)))
	})

	return entries
}

// extractDateFromContext pulls the issue date out of the campaign line
// text surrounding the link.
func extractDateFromContext(li *goquery.Selection) string {
	match := archiveDatePattern.FindStringSubmatch(li.Text())
	if match == nil {
		return ""
	}
	return match[1]
}

// GenericListStrategy is the fallback for unrecognized archive layouts:
// collect every link whose URL looks newsletter-shaped. Relative URLs
// are resolved against the archive page.
type GenericListStrategy struct{}

// Compile-time interface check
var _ ArchiveStrategy = (*GenericListStrategy)(nil)

var newsletterURLKeywords = []string{"newsletter", "archive", "campaign"}

func (g *GenericListStrategy) ExtractNewsletters(html string, baseURL string) []ArchiveEntry {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	var entries []ArchiveEntry

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		hrefLower := strings.ToLower(href)

		if strings.Contains(hrefLower, "#") ||
			strings.Contains(hrefLower, "javascript:") ||
			strings.Contains(hrefLower, "mailto:") {
			return
		}

		if !containsAny(hrefLower, newsletterURLKeywords) {
			return
		}

		absoluteURL, ok := urlutil.Resolve(*base, href)
		if !ok {
			return
		}

		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = "Untitled Newsletter"
		}

		entries = append(entries, NewArchiveEntry(title, absoluteURL.String(), ""))
	})

	return entries
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

// StrategyForURL selects the extraction strategy for an archive URL.
func StrategyForURL(archiveURL string) ArchiveStrategy {
	urlLower := strings.ToLower(archiveURL)
	if strings.Contains(urlLower, "mailchi.mp") || strings.Contains(urlLower, "campaign-archive.com") {
		return &MailchimpArchiveStrategy{}
	}
	return &GenericListStrategy{}
}
