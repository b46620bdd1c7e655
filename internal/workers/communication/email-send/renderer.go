// internal/workers/communication/email-send/renderer.go
package emailsend

import (
	"fmt"
	"html"
	"strings"

	"freezone-advisor/internal/models"
)

func renderSubject(doc *models.ProposalDocument) string {
	name := doc.Recommendation.FreezoneName
	if name == "" {
		return "Your UAE business setup proposal"
	}
	return fmt.Sprintf("Your UAE business setup proposal: %s", name)
}

// renderHTML formats the proposal document as a self-contained HTML email.
func renderHTML(fullName string, doc *models.ProposalDocument) string {
	var b strings.Builder

	b.WriteString("<html><body style=\"font-family:Arial,sans-serif;color:#1a1a2e\">")

	greeting := "Hello,"
	if fullName != "" {
		greeting = fmt.Sprintf("Dear %s,", html.EscapeString(fullName))
	}
	fmt.Fprintf(&b, "<p>%s</p>", greeting)

	intro := doc.Introduction
	if doc.EnhancedNarrative != "" {
		intro = doc.EnhancedNarrative
	}
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(intro))

	rec := doc.Recommendation
	fmt.Fprintf(&b, "<h2>Our recommendation: %s</h2>", html.EscapeString(rec.FreezoneName))
	for _, line := range []string{rec.CostNarrative, rec.VisaNarrative, rec.ActivityNarrative, rec.LocationNarrative} {
		if line != "" {
			fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(line))
		}
	}

	cb := doc.CostBreakdown
	if cb.TotalSetupCost > 0 {
		b.WriteString("<h3>Cost breakdown</h3><table cellpadding=\"4\">")
		rows := []struct {
			label  string
			amount float64
		}{
			{"License", cb.LicenseCost},
			{"Registration", cb.RegistrationCost},
			{"Visas", cb.VisaCost},
			{"Office", cb.OfficeCost},
		}
		for _, row := range rows {
			fmt.Fprintf(&b, "<tr><td>%s</td><td>AED %.0f</td></tr>", row.label, row.amount)
		}
		fmt.Fprintf(&b, "<tr><td><strong>Total setup</strong></td><td><strong>AED %.0f</strong></td></tr>", cb.TotalSetupCost)
		b.WriteString("</table>")
		if cb.Estimated {
			b.WriteString("<p><em>Figures are indicative and will be confirmed on your quote.</em></p>")
		}
	}

	if len(doc.Timeline) > 0 {
		fmt.Fprintf(&b, "<h3>Timeline (about %d days)</h3><ol>", doc.TotalDays)
		for _, stage := range doc.Timeline {
			fmt.Fprintf(&b, "<li><strong>%s</strong> (%d days): %s</li>",
				html.EscapeString(stage.Stage), stage.Days, html.EscapeString(stage.Description))
		}
		b.WriteString("</ol>")
	}

	if len(doc.Alternatives) > 0 {
		b.WriteString("<h3>Also worth considering</h3><ul>")
		for _, alt := range doc.Alternatives {
			fmt.Fprintf(&b, "<li><strong>%s</strong> (score %.0f): %s</li>",
				html.EscapeString(alt.FreezoneName), alt.MatchScore, html.EscapeString(alt.CostDelta))
		}
		b.WriteString("</ul>")
	}

	if len(doc.NextSteps) > 0 {
		b.WriteString("<h3>Next steps</h3><ol>")
		for _, step := range doc.NextSteps {
			fmt.Fprintf(&b, "<li>%s</li>", html.EscapeString(step))
		}
		b.WriteString("</ol>")
	}

	b.WriteString("<p>Warm regards,<br>The Freezone Advisor team</p>")
	b.WriteString("</body></html>")
	return b.String()
}

// renderText is the plain-text fallback for clients that reject HTML.
func renderText(fullName string, doc *models.ProposalDocument) string {
	var b strings.Builder

	if fullName != "" {
		fmt.Fprintf(&b, "Dear %s,\n\n", fullName)
	}
	intro := doc.Introduction
	if doc.EnhancedNarrative != "" {
		intro = doc.EnhancedNarrative
	}
	b.WriteString(intro)
	b.WriteString("\n\n")

	rec := doc.Recommendation
	fmt.Fprintf(&b, "Our recommendation: %s\n", rec.FreezoneName)
	for _, line := range []string{rec.CostNarrative, rec.VisaNarrative, rec.ActivityNarrative, rec.LocationNarrative} {
		if line != "" {
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if doc.CostBreakdown.TotalSetupCost > 0 {
		fmt.Fprintf(&b, "\nTotal setup cost: AED %.0f\n", doc.CostBreakdown.TotalSetupCost)
	}
	if doc.TotalDays > 0 {
		fmt.Fprintf(&b, "Estimated timeline: %d days\n", doc.TotalDays)
	}

	if len(doc.NextSteps) > 0 {
		b.WriteString("\nNext steps:\n")
		for i, step := range doc.NextSteps {
			fmt.Fprintf(&b, "%d. %s\n", i+1, step)
		}
	}

	b.WriteString("\nWarm regards,\nThe Freezone Advisor team\n")
	return b.String()
}
