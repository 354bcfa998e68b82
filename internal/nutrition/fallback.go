package nutrition

// mealSuggestions are the canned per-bucket meal blocks shown when the
// model path is unavailable. The same block serves every BMI category
// within a bucket; only the displayed guideline and category vary.
var mealSuggestions = map[AgeBucket]string{
	Bucket0to6: "Exclusive breastfeeding or formula feeding. No solid foods recommended yet.",
	Bucket6to12: `- Iron-fortified cereals mixed with breast milk/formula
- Pureed fruits: banana, apple, pear
- Pureed vegetables: sweet potato, carrots, green beans
- Soft finger foods: well-cooked pasta, soft fruits
- Avoid honey, whole nuts, choking hazards`,
	Bucket12to24: `- Soft table foods cut into small pieces
- Whole milk (after 12 months)
- Soft fruits and vegetables
- Well-cooked grains and pasta
- Soft-cooked eggs, fish, poultry
- Avoid hard candies, whole grapes, nuts`,
	Bucket24to60: `- Family meals with appropriate portions
- Variety of fruits and vegetables
- Whole grains and lean proteins
- Dairy products for calcium
- Limit processed foods and added sugars
- Encourage self-feeding and food exploration`,
}

// MealSuggestions returns the age-appropriate canned meal block.
func MealSuggestions(ageMonths int) string {
	return mealSuggestions[BucketFor(ageMonths)]
}
