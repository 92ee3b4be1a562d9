package lexicon

import "strings"

// DefaultThreshold is the similarity threshold used when a condition
// mentions no recognized tech family.
const DefaultThreshold = 0.60

// thresholdFamily pairs a set of substring keywords with the dynamic
// threshold they imply (Table A).
type thresholdFamily struct {
	keywords  []string
	threshold float64
}

var thresholdTable = []thresholdFamily{
	{[]string{"java", "kotlin", "spring"}, 0.75},
	{[]string{"python", "fastapi", "django"}, 0.62},
	{[]string{"node.js", "express"}, 0.70},
	{[]string{"react", "next.js", "typescript"}, 0.75},
	{[]string{"vue.js", "angular", "flutter"}, 0.70},
	{[]string{"android", "ios"}, 0.75},
	{[]string{"mysql", "postgresql", "mongodb"}, 0.55},
	{[]string{"aws", "gcp", "azure", "docker"}, 0.65},
	{[]string{"kubernetes"}, 0.70},
	{[]string{"tensorflow", "pytorch", "opencv", "langchain", "langgraph"}, 0.62},
}

// DynamicThreshold selects the match threshold for condition by scanning
// for the highest-priority tech family present (case-insensitive substring
// match). If multiple families match, the maximum threshold applies. If no
// family matches, DefaultThreshold applies.
func DynamicThreshold(condition string) float64 {
	lower := strings.ToLower(condition)
	best := DefaultThreshold
	matched := false
	for _, fam := range thresholdTable {
		for _, kw := range fam.keywords {
			if strings.Contains(lower, kw) {
				if !matched || fam.threshold > best {
					best = fam.threshold
				}
				matched = true
				break
			}
		}
	}
	return best
}
