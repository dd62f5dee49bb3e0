package topics

import (
	"fmt"
	"strings"
)

func topicsPrompt(content string) string {
	return fmt.Sprintf(`Identify topics from this ward newsletter.

Topics: %s

Select ONLY explicitly discussed topics. Prioritize zoning and development approvals, housing, transit and budget meetings, parking and transit policy.

Respond with JSON: {"topics": ["topic_id", ...]}
Return an empty list if none apply.

Newsletter:
%s`, strings.Join(KnownTopics, ", "), content)
}

func summaryPrompt(content string) string {
	return fmt.Sprintf(`Summarize this ward newsletter in 2-3 sentences.

Lead with meetings and hearings about zoning, development, housing, transit or budget, then policy changes, development approvals, spending decisions and street projects. Mention other announcements only briefly. Be concise and factual. Reference the alderman and ward if named.

Respond with JSON: {"summary": "..."}

Newsletter:
%s`, content)
}

func relevancePrompt(content string, extracted []string, summary string) string {
	var context strings.Builder
	if len(extracted) > 0 || summary != "" {
		context.WriteString("\nAlready extracted from this newsletter:\n")
		if len(extracted) > 0 {
			fmt.Fprintf(&context, "Topics: %s\n", strings.Join(extracted, ", "))
		}
		if summary != "" {
			fmt.Fprintf(&context, "Summary: %s\n", summary)
		}
	}

	return fmt.Sprintf(`Rate this ward newsletter's civic relevance from 0 to 10.

9-10: major policy changes, citywide feedback periods, new transit service.
7-8: large developments approved, public hearings on housing, transit, budget or street design, new bike infrastructure.
5-6: small developments, single-plot zoning approvals, minor street projects.
3-4: general community meetings that might touch these areas.
0-2: holidays, office hours, festivals, constituent services, routine maintenance.

Respond with JSON: {"score": n, "reasoning": "..."}
%s
Newsletter:
%s`, context.String(), content)
}
