package generation

import (
	"fmt"
	"strings"

	"momentlog/internal/model"
)

// BuildRecapPrompt renders the completion prompt for a single day's recap.
// The response contract (five sections, JSON) is what parseRecapPayload
// expects back.
func BuildRecapPrompt(event model.Event, moments []model.Moment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a warm and engaging daily summary for an event called %q.\n\n", event.Name)
	b.WriteString("Here are the moments captured today:\n")
	b.WriteString(formatMoments(moments))
	b.WriteString(`

Please provide:
1. A compelling summary paragraph that captures the essence of the day
2. 3-5 key takeaways (as bullet points)
3. The top 3 most memorable moments (as bullet points)
4. The emotional tone of the day (one word or short phrase)
5. Names of people met (if mentioned in the moments)

Format the response as JSON with this structure:
{
  "summary": "Engaging paragraph summary",
  "keyTakeaways": ["takeaway 1", "takeaway 2"],
  "topMoments": ["moment 1", "moment 2", "moment 3"],
  "emotionalTone": "positive/inspiring/energetic/etc",
  "peopleMet": ["person 1", "person 2"]
}`)

	return b.String()
}

// BuildReportPrompt renders the completion prompt for the whole-event final
// report.
func BuildReportPrompt(event model.Event, moments []model.Moment) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a reflective final report for an event called %q held at %s", event.Name, event.Location)
	if event.Purpose != "" {
		fmt.Fprintf(&b, " (attended to: %s)", event.Purpose)
	}
	b.WriteString(".\n\n")
	b.WriteString("Here is everything captured across the event:\n")
	b.WriteString(formatMoments(moments))
	b.WriteString(`

Please provide:
1. A summary paragraph covering the whole event
2. 3-5 highlights (as bullet points)
3. Key connections made (as bullet points)
4. Lessons learned (as bullet points)
5. A short description of the overall experience

Format the response as JSON with this structure:
{
  "summary": "Paragraph summary of the event",
  "highlights": ["highlight 1", "highlight 2"],
  "keyConnections": ["connection 1", "connection 2"],
  "lessonsLearned": ["lesson 1", "lesson 2"],
  "overallExperience": "short description"
}`)

	return b.String()
}

func formatMoments(moments []model.Moment) string {
	var b strings.Builder
	for i, m := range moments {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s moment at %s", m.Type, m.Timestamp.Format("3:04 PM"))
		if m.Content != "" {
			fmt.Fprintf(&b, "\n  Content: %s", m.Content)
		}
		if len(m.Tags) > 0 {
			tags := make([]string, len(m.Tags))
			for j, t := range m.Tags {
				tags[j] = string(t)
			}
			fmt.Fprintf(&b, "\n  Tags: %s", strings.Join(tags, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
