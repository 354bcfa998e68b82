package nutrition

// Guideline describes the recommended feeding approach for one age
// bucket. The four records below never change at runtime.
type Guideline struct {
	Primary  string
	Notes    string
	Calories string
}

// AgeBucket is one of the four age-in-months ranges shared by the
// guideline lookup and the fallback meal suggestions.
type AgeBucket string

const (
	Bucket0to6   AgeBucket = "0-6"
	Bucket6to12  AgeBucket = "6-12"
	Bucket12to24 AgeBucket = "12-24"
	Bucket24to60 AgeBucket = "24-60"
)

// BucketFor places an age in months into its bucket. Boundaries are
// exclusive on the upper end; everything from 24 months up shares the
// 24-60 bucket.
func BucketFor(ageMonths int) AgeBucket {
	switch {
	case ageMonths < 6:
		return Bucket0to6
	case ageMonths < 12:
		return Bucket6to12
	case ageMonths < 24:
		return Bucket12to24
	default:
		return Bucket24to60
	}
}

var guidelines = map[AgeBucket]Guideline{
	Bucket0to6: {
		Primary:  "Exclusive breastfeeding recommended",
		Notes:    "No solid foods, water, or other liquids needed",
		Calories: "500-600 kcal/day from breast milk",
	},
	Bucket6to12: {
		Primary:  "Breastfeeding + complementary foods",
		Notes:    "Introduce iron-rich foods, variety of textures",
		Calories: "600-900 kcal/day",
	},
	Bucket12to24: {
		Primary:  "Family foods + continued breastfeeding",
		Notes:    "3 meals + 2 snacks, whole milk until 2 years",
		Calories: "900-1200 kcal/day",
	},
	Bucket24to60: {
		Primary:  "Balanced family diet",
		Notes:    "Variety of foods, limit processed foods and sugar",
		Calories: "1200-1600 kcal/day",
	},
}

// GuidelinesFor returns the fixed guideline record for the child's age.
func GuidelinesFor(ageMonths int) Guideline {
	return guidelines[BucketFor(ageMonths)]
}
