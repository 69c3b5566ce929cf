package router

import (
	"net/http"
	"os"

	"github.com/fadonmez/backend/internal/api/v1/handler"
	"github.com/fadonmez/backend/internal/config"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	dlqRecordPath     = "/dlq/record"
	stripeWebhookPath = "/webhooks/stripe"
)

// SetupHumaAPI creates a Huma API instance
func SetupHumaAPI(
	cfg *config.Config,
	authMiddleware func(http.Handler) http.Handler,
	pubsubAuthMiddleware func(http.Handler) http.Handler,
	stripeWebhook http.HandlerFunc,
	logger zerolog.Logger,
) (*chi.Mux, huma.API) {
	chiRouter := chi.NewRouter()

	// Apply middleware based on path
	chiRouter.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/openapi.json", "/openapi.yaml", "/docs", "/schemas":
				next.ServeHTTP(w, r)
			case stripeWebhookPath:
				// Authenticated by the Stripe-Signature header.
				next.ServeHTTP(w, r)
			case dlqRecordPath:
				pubsubAuthMiddleware(next).ServeHTTP(w, r)
			default:
				authMiddleware(next).ServeHTTP(w, r)
			}
		})
	})

	version := os.Getenv("GIT_COMMIT_SHA")
	if version == "" {
		version = "development"
	}

	humaConfig := huma.DefaultConfig("Vocabulary API v1", version)
	humaConfig.Info.Description = "Word resolution, translation and quota API"
	humaConfig.Servers = []*huma.Server{{URL: cfg.APIBaseURL}}

	api := humachi.New(chiRouter, humaConfig)

	// Stripe needs the raw body to verify the signature.
	chiRouter.Post(stripeWebhookPath, stripeWebhook)

	logger.Info().Msg("Huma API initialized for /v1")
	logger.Info().Str("version", version).Msg("OpenAPI spec version")

	return chiRouter, api
}

// RegisterRoutes registers all Huma operations
func RegisterRoutes(
	api huma.API,
	userHandler *handler.UserHandler,
	languageHandler *handler.LanguageHandler,
	categoryHandler *handler.CategoryHandler,
	wordHandler *handler.WordHandler,
	dlqHandler *handler.DLQHandler,
	logger zerolog.Logger,
) {
	logger.Info().Msg("Registering routes")

	// ========== USER OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "createUser",
		Method:      http.MethodPost,
		Path:        "/users/me",
		Summary:     "Create or update user profile",
		Description: "Creates the profile of the authenticated user or updates its name and email",
		Tags:        []string{"users"},
	}, userHandler.CreateUser)

	huma.Register(api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/users/me",
		Summary:     "Get user profile",
		Description: "Retrieves the profile and subscription tier of the authenticated user",
		Tags:        []string{"users"},
	}, userHandler.GetUser)

	huma.Register(api, huma.Operation{
		OperationID: "listMyWords",
		Method:      http.MethodGet,
		Path:        "/users/me/words",
		Summary:     "List tracked words",
		Description: "Retrieves every word the authenticated user tracks, newest first",
		Tags:        []string{"users", "words"},
	}, wordHandler.ListMyWords)

	// ========== LANGUAGE OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "addLanguage",
		Method:        http.MethodPost,
		Path:          "/languages",
		Summary:       "Start learning a language",
		Description:   "Adds a language to the user's list. The first language becomes the default",
		Tags:          []string{"languages"},
		DefaultStatus: http.StatusCreated,
	}, languageHandler.AddLanguage)

	huma.Register(api, huma.Operation{
		OperationID: "listLanguages",
		Method:      http.MethodGet,
		Path:        "/languages",
		Summary:     "List languages",
		Description: "Retrieves the languages the authenticated user is learning",
		Tags:        []string{"languages"},
	}, languageHandler.ListLanguages)

	// ========== CATEGORY OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "createCategory",
		Method:        http.MethodPost,
		Path:          "/categories",
		Summary:       "Create a category",
		Description:   "Creates a word category under one of the user's languages",
		Tags:          []string{"categories"},
		DefaultStatus: http.StatusCreated,
	}, categoryHandler.CreateCategory)

	huma.Register(api, huma.Operation{
		OperationID: "listCategories",
		Method:      http.MethodGet,
		Path:        "/categories",
		Summary:     "List categories",
		Description: "Retrieves the user's categories for a language",
		Tags:        []string{"categories"},
	}, categoryHandler.ListCategories)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteCategory",
		Method:        http.MethodDelete,
		Path:          "/categories/{categoryId}",
		Summary:       "Delete a category",
		Description:   "Deletes one of the user's categories together with the words tracked in it",
		Tags:          []string{"categories"},
		DefaultStatus: http.StatusNoContent,
	}, categoryHandler.DeleteCategory)

	huma.Register(api, huma.Operation{
		OperationID: "listCategoryWords",
		Method:      http.MethodGet,
		Path:        "/categories/{categoryId}/words",
		Summary:     "List words in a category",
		Description: "Retrieves the words tracked in one of the user's categories",
		Tags:        []string{"categories", "words"},
	}, wordHandler.ListCategoryWords)

	// ========== WORD OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID:   "resolveWord",
		Method:        http.MethodPost,
		Path:          "/words",
		Summary:       "Add a word",
		Description:   "Adds a word to a category, creating and enriching the catalog entry only when it does not exist yet",
		Tags:          []string{"words"},
		DefaultStatus: http.StatusCreated,
	}, wordHandler.ResolveWord)

	huma.Register(api, huma.Operation{
		OperationID:   "deleteUserWord",
		Method:        http.MethodDelete,
		Path:          "/words/{userWordId}",
		Summary:       "Remove a tracked word",
		Description:   "Removes a word from the user's list. The catalog entry is kept",
		Tags:          []string{"words"},
		DefaultStatus: http.StatusNoContent,
	}, wordHandler.DeleteUserWord)

	huma.Register(api, huma.Operation{
		OperationID: "sampleWords",
		Method:      http.MethodGet,
		Path:        "/words/sample",
		Summary:     "Sample catalog words",
		Description: "Retrieves a contiguous run of catalog words for a language starting at a random offset",
		Tags:        []string{"words"},
	}, wordHandler.SampleWords)

	huma.Register(api, huma.Operation{
		OperationID: "lookupWord",
		Method:      http.MethodGet,
		Path:        "/words/lookup",
		Summary:     "Look up a word",
		Description: "Retrieves a catalog word with all its translations",
		Tags:        []string{"words"},
	}, wordHandler.LookupWord)

	huma.Register(api, huma.Operation{
		OperationID: "translateWord",
		Method:      http.MethodPost,
		Path:        "/words/translate",
		Summary:     "Translate a word",
		Description: "Returns the catalog translation of a word, producing and storing it when missing",
		Tags:        []string{"words"},
	}, wordHandler.TranslateWord)

	// ========== DLQ OPERATIONS ==========
	huma.Register(api, huma.Operation{
		OperationID: "recordDLQ",
		Method:      http.MethodPost,
		Path:        dlqRecordPath,
		Summary:     "Record DLQ message",
		Description: "Records a dead letter queue message from Pub/Sub",
		Tags:        []string{"dlq"},
	}, dlqHandler.RecordDLQ)

	logger.Info().Msg("All operations registered successfully")
}
