package digest

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

/*
Build renders one user's daily digest from their queued items.

Pipeline:
 1. Deduplicate by newsletter ID. A newsletter that matched several of
    the user's rules appears once.
 2. Sort newest first by received date.
 3. Render the Markdown body, then derive the HTML body from it.

The footer always carries the preferences and unsubscribe links; the
unsubscribe URL embeds a signed token the caller obtained elsewhere.
*/
func Build(
	userID string,
	items []Item,
	preferencesURL string,
	unsubscribeURL string,
	digestDate time.Time,
) (Digest, error) {
	if len(items) == 0 {
		return Digest{}, &DigestError{
			Message: fmt.Sprintf("no digest items for user %s", userID),
			Cause:   ErrCauseNoItems,
		}
	}

	deduped := dedupeByNewsletter(items)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].receivedDate.After(deduped[j].receivedDate)
	})

	markdownBody := renderMarkdown(deduped, preferencesURL, unsubscribeURL, digestDate)

	newsletterIDs := make([]string, 0, len(deduped))
	for _, item := range deduped {
		newsletterIDs = append(newsletterIDs, item.newsletterID)
	}

	return Digest{
		userID:        userID,
		subject:       fmt.Sprintf("Your Daily Ward Newsletter Digest (%d newsletters)", len(deduped)),
		markdownBody:  markdownBody,
		htmlBody:      renderHTML(markdownBody),
		newsletterIDs: newsletterIDs,
	}, nil
}

func dedupeByNewsletter(items []Item) []Item {
	seen := make(map[string]struct{}, len(items))
	deduped := make([]Item, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.newsletterID]; ok {
			continue
		}
		seen[item.newsletterID] = struct{}{}
		deduped = append(deduped, item)
	}
	return deduped
}

func renderMarkdown(items []Item, preferencesURL string, unsubscribeURL string, digestDate time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Daily Newsletter Digest\n\n")
	fmt.Fprintf(&b, "_%s_\n", digestDate.Format("Monday, January 2, 2006"))

	for _, item := range items {
		fmt.Fprintf(&b, "\n## %s\n\n", item.subject)

		meta := item.sourceName
		if item.wardNumber > 0 {
			meta = fmt.Sprintf("%s (Ward %d)", item.sourceName, item.wardNumber)
		}
		fmt.Fprintf(&b, "**%s** · %s\n", meta, item.receivedDate.Format("January 2, 2006"))

		if item.summary != "" {
			fmt.Fprintf(&b, "\n%s\n", item.summary)
		}
		if len(item.topics) > 0 {
			fmt.Fprintf(&b, "\nTopics: %s\n", strings.Join(item.topics, ", "))
		}
	}

	fmt.Fprintf(&b, "\n---\n\n")
	fmt.Fprintf(&b, "[Manage notification preferences](%s) · [Unsubscribe](%s)\n", preferencesURL, unsubscribeURL)

	return b.String()
}

// renderHTML converts the Markdown body into the HTML email body.
// Parser instances are single-use, so each render builds its own.
func renderHTML(markdownBody string) string {
	mdParser := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags,
	})
	return string(markdown.ToHTML([]byte(markdownBody), mdParser, renderer))
}
