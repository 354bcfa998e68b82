package llamaservice

import (
	"context"
	"fmt"
	"os"
	"time"

	"nutrikid/internal/nutrition"
	"github.com/rs/zerolog/log"
)

// Config carries the construction-time settings for the advisor.
// The environment is read exactly once, here; nothing in the request
// path touches os.Getenv.
type Config struct {
	// Token authorizes calls to the HuggingFace Inference API. Empty is
	// allowed: requests then short-circuit to the setup message.
	Token string

	// UserLogin is stamped into every system prompt.
	UserLogin string
}

// ConfigFromEnv reads the provider token (HF_API_TOKEN, falling back to
// HF_TOKEN) and the operator login.
func ConfigFromEnv() Config {
	token := os.Getenv("HF_API_TOKEN")
	if token == "" {
		token = os.Getenv("HF_TOKEN")
	}

	login := os.Getenv("USER")
	if login == "" {
		login = "nutrikid"
	}

	return Config{Token: token, UserLogin: login}
}

// Service is the meal-advice orchestrator: classify the child, look up
// the guidelines, compose the prompt, try the model once, and fall back
// when the answer is missing or unusable. It holds no mutable state
// after construction, so one instance serves concurrent requests.
type Service struct {
	cfg       Config
	generator Generator
	clock     func() time.Time
}

// ServiceOption overrides a Service collaborator, mainly for tests.
type ServiceOption func(*Service)

// WithGenerator substitutes the generation backend.
func WithGenerator(g Generator) ServiceOption {
	return func(s *Service) { s.generator = g }
}

// WithClock substitutes the timestamp source.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *Service) { s.clock = clock }
}

// NewService wires the advisor with the production Llama client and a
// wall clock unless options say otherwise.
func NewService(cfg Config, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:       cfg,
		generator: NewClient(cfg.Token),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ModelID reports the fixed model identifier behind the service.
func (s *Service) ModelID() string {
	return modelID
}

// SuggestMeal is the single entry point consumed by the surface. It
// always returns a report; no failure below this method escapes as an
// error or a panic.
func (s *Service) SuggestMeal(ctx context.Context, ageMonths int, weightKg, heightCm float64, dietaryRequest string) (report string) {
	if s.cfg.Token == "" {
		log.Warn().Msg("No HuggingFace API token configured, returning setup instructions")
		return setupRequiredMessage
	}

	profile := nutrition.ChildProfile{AgeMonths: ageMonths, WeightKg: weightKg, HeightCm: heightCm}

	// Whatever breaks between here and the formatted report, the parent
	// still gets the canned guidance for the child's age.
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Meal suggestion failed, serving fallback")
			report = s.composeFallback(profile, nutrition.Classify(weightKg, heightCm, ageMonths))
		}
	}()

	category := nutrition.Classify(weightKg, heightCm, ageMonths)
	log.Info().Int("age_months", ageMonths).Str("category", string(category)).Msg("Classified child profile")

	systemPrompt := BuildSystemPrompt(profile, category, s.cfg.UserLogin, s.clock())
	userQuery := BuildUserQuery(ageMonths, category, dietaryRequest)

	log.Info().Str("model", modelID).Msg("Requesting meal suggestions from Llama...")
	result := s.generator.Generate(ctx, systemPrompt, userQuery)

	if !result.Accepted {
		log.Warn().Msg("Generation rejected or unavailable, composing fallback report")
		return s.composeFallback(profile, category)
	}

	return s.composeReport(profile, category, result)
}

// composeReport renders the online report around the accepted model
// text.
func (s *Service) composeReport(profile nutrition.ChildProfile, category nutrition.Category, result GenerationResult) string {
	guideline := nutrition.GuidelinesFor(profile.AgeMonths)

	return fmt.Sprintf(onlineReportTemplate,
		profile.AgeMonths,
		profile.AgeYears(),
		profile.WeightKg,
		profile.HeightCm,
		profile.BMI(),
		category,
		result.Text,
		profile.AgeMonths,
		guideline.Primary,
		guideline.Notes,
		guideline.Calories,
		result.ModelID,
		s.clock().UTC().Format(promptTimeFormat),
	)
}

// composeFallback renders the deterministic report. The suggestion
// block depends only on the age bucket; the category is displayed but
// never varies it.
func (s *Service) composeFallback(profile nutrition.ChildProfile, category nutrition.Category) string {
	guideline := nutrition.GuidelinesFor(profile.AgeMonths)

	return fmt.Sprintf(fallbackReportTemplate,
		profile.AgeMonths,
		profile.AgeYears(),
		profile.WeightKg,
		profile.HeightCm,
		profile.BMI(),
		category,
		nutrition.MealSuggestions(profile.AgeMonths),
		guideline.Primary,
		guideline.Notes,
		guideline.Calories,
		s.clock().UTC().Format(promptTimeFormat),
	)
}
