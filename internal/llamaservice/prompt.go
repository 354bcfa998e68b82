package llamaservice

import (
	"fmt"
	"time"

	"nutrikid/internal/nutrition"
)

/* =================================================================================
						PROMPT ENGINEERING & GUARDRAILS
=================================================================================*/

/*
systemPromptTemplate defines the persona and guardrails for the model.
It pins the child's profile, the matching guideline record, the
non-negotiable feeding safety rules, and the exact shape the answer
must take.
*/
const systemPromptTemplate = `You are a specialized pediatric nutrition AI assistant trained on evidence-based dietary guidelines for children aged 0-5 years.
CHILD PROFILE:
- Age: %d months (%.1f years)
- Weight: %g kg
- Height: %g cm
- BMI Category: %s
DIETARY GUIDELINES FOR THIS AGE GROUP:
- Primary approach: %s
- Key considerations: %s
- Estimated daily calories: %s
SAFETY PROTOCOLS:
- NEVER recommend foods that are choking hazards (nuts, whole grapes, popcorn for under 4 years)
- NO honey for children under 12 months (botulism risk)
- NO whole cow's milk for children under 12 months
- Consider food allergies and introduce new foods gradually
- Prioritize nutrient-dense foods over empty calories
BMI-SPECIFIC ADJUSTMENTS:
- If Underweight: Focus on calorie-dense, nutritious foods; frequent small meals
- If Normal weight: Maintain balanced variety, appropriate portions
- If Overweight/Obese: Emphasize fruits, vegetables, and physical activity; avoid restricting calories severely
RESPONSE FORMAT:
Provide practical, safe meal suggestions with:
1. Age-appropriate foods and textures
2. Portion sizes suitable for the child's age
3. Nutritional benefits
4. Safety considerations
5. Preparation tips for parents
Always recommend consulting with pediatricians for specific concerns.

Current Date and Time (UTC - YYYY-MM-DD HH:MM:SS formatted): %s
Current User's Login: %s
`

// userQueryTemplate relays the parent's free-text request together with
// the child's age and classification.
const userQueryTemplate = `Please suggest meal options for a %d-month-old child who is %s. Specifically: %s`

// promptTimeFormat matches the timestamp layout announced in the prompt.
const promptTimeFormat = "2006-01-02 15:04:05"

// BuildSystemPrompt assembles the complete instruction block for one
// child. The result is self-contained: the generation layer sends it
// as-is and never templates it further. The timestamp comes from the
// caller's clock so composition stays deterministic under test.
func BuildSystemPrompt(profile nutrition.ChildProfile, category nutrition.Category, userLogin string, now time.Time) string {
	guideline := nutrition.GuidelinesFor(profile.AgeMonths)

	return fmt.Sprintf(systemPromptTemplate,
		profile.AgeMonths,
		profile.AgeYears(),
		profile.WeightKg,
		profile.HeightCm,
		category,
		guideline.Primary,
		guideline.Notes,
		guideline.Calories,
		now.UTC().Format(promptTimeFormat),
		userLogin,
	)
}

// BuildUserQuery formats the parent's request for the model.
func BuildUserQuery(ageMonths int, category nutrition.Category, dietaryRequest string) string {
	return fmt.Sprintf(userQueryTemplate, ageMonths, category, dietaryRequest)
}

/* =================================================================================
							REPORT TEMPLATES
=================================================================================*/

// setupRequiredMessage is returned untouched when no API token is
// configured; no generation is attempted in that case.
const setupRequiredMessage = "⚠️ **Setup Required**: Please set your Hugging Face API token as an environment variable named 'HF_API_TOKEN'."

// onlineReportTemplate wraps an accepted model answer with the profile
// summary, the guideline record, and the provenance footer.
const onlineReportTemplate = `**🧒 Child Profile Summary:**
- **Age:** %d months (%.1f years)
- **Weight:** %g kg
- **Height:** %g cm
- **BMI:** %.1f (%s)
**🍽️ Dietary Recommendations:**
%s
**📋 General Guidelines for %d-month-old:**
%s
- %s
- %s
---
*⚠️ **Important:** Always consult with your pediatrician for specific dietary concerns or medical conditions.*
*🤖 **Model Used:** %s*
*⏱️ **Generated at:** %s UTC*`

// fallbackReportTemplate is the deterministic twin of the online
// report: canned suggestions instead of model text, and a note that the
// model was unavailable instead of the model footer.
const fallbackReportTemplate = `**🧒 Child Profile Summary:**
- **Age:** %d months (%.1f years)
- **Weight:** %g kg
- **Height:** %g cm
- **BMI:** %.1f (%s)
**🍽️ Age-Appropriate Meal Suggestions:**
%s
**📋 Guidelines for This Age Group:**
- **Primary approach:** %s
- **Key considerations:** %s
- **Estimated daily calories:** %s
**🔧 Note:** Llama model temporarily unavailable - showing evidence-based guidelines instead.
---
*⚠️ **Important:** Always consult with your pediatrician for specific dietary concerns or medical conditions.*
*⏱️ **Generated at:** %s UTC*`
