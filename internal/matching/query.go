// internal/matching/query.go
package matching

import (
	"fmt"
	"strings"

	"freezone-advisor/internal/models"
)

// BuildQuery renders the lead's requirements as the retrieval text handed to
// the embedder. Formatting is deterministic: identical requirements always
// produce identical query text, so embeddings are cacheable.
func BuildQuery(req *models.UserRequirements) string {
	industry := strings.TrimSpace(req.Industry)
	if industry == "" {
		industry = "various"
	}
	location := strings.TrimSpace(req.PreferredLocation)
	if location == "" {
		location = "flexible"
	}
	timeline := strings.TrimSpace(req.Timeline)
	if timeline == "" {
		timeline = "flexible"
	}

	activities := "various"
	if listed := nonEmpty(req.RequiredActivities()); len(listed) > 0 {
		activities = strings.Join(listed, ", ")
	}

	office := "no dedicated office space"
	if req.NeedsOfficeSpace {
		office = "dedicated office space"
	}

	return fmt.Sprintf(
		"UAE freezone company setup for a %s business. Activities: %s. "+
			"Visas required: %d. Budget: %.0f AED. Preferred location: %s. "+
			"Office: %s. Timeline: %s.",
		industry, activities, req.VisaCount, req.Budget, location, office, timeline,
	)
}

// nonEmpty drops empty elements, which the normalizer's list splitting can
// produce for blank source cells.
func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
