package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/controllers"
	"matchview/middleware"
	"matchview/services"
)

// APIPrefix is where every authenticated route lives
const APIPrefix = "/api/v1"

// Services bundles what the HTTP layer calls into
type Services struct {
	Search        *services.SearchService
	Relationships *services.RelationshipService
	SavedSearches *services.SavedSearchService
	Pii           *services.PiiService
	Images        *services.ImageService
	Preferences   *services.PreferenceService
	Dashboard     *services.DashboardService
	Notifications *services.NotificationService
	Payments      *services.PaymentService
	Admin         *services.AdminService
}

// NewRouter builds the full router: public health check plus the
// session-guarded API. Nil services leave their routes unregistered.
func NewRouter(svc Services, tokens *middleware.TokenParser, logger *zap.Logger) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.AccessLog(logger))
	r.NotFoundHandler = http.HandlerFunc(controllers.NotFoundHandler)
	RegisterRoutes(r)

	api := r.PathPrefix(APIPrefix).Subrouter()
	api.Use(middleware.Session(tokens, logger))

	if svc.Search != nil {
		RegisterSearchRoutes(api, svc.Search, logger)
	}
	if svc.Relationships != nil {
		RegisterRelationshipRoutes(api, svc.Relationships, logger)
	}
	if svc.SavedSearches != nil {
		RegisterSavedSearchRoutes(api, svc.SavedSearches, logger)
	}
	if svc.Pii != nil {
		RegisterPiiRoutes(api, svc.Pii, logger)
	}
	if svc.Images != nil {
		RegisterImageRoutes(api, svc.Images, logger)
	}
	if svc.Preferences != nil {
		RegisterPreferenceRoutes(api, svc.Preferences, logger)
	}
	if svc.Dashboard != nil {
		RegisterDashboardRoutes(api, svc.Dashboard, logger)
	}
	if svc.Notifications != nil {
		RegisterNotificationRoutes(api, svc.Notifications, logger)
	}
	if svc.Payments != nil {
		RegisterPaymentRoutes(api, svc.Payments, logger)
	}
	if svc.Admin != nil {
		RegisterAdminRoutes(api, svc.Admin, logger)
	}
	RegisterSessionRoutes(api, svc.forgetters(), logger)
	return r
}

func (svc Services) forgetters() []controllers.Forgetter {
	var out []controllers.Forgetter
	if svc.Search != nil {
		out = append(out, svc.Search)
	}
	if svc.Relationships != nil {
		out = append(out, svc.Relationships)
	}
	if svc.Pii != nil {
		out = append(out, svc.Pii)
	}
	return out
}

// RegisterRoutes sets up the unauthenticated routes
func RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", controllers.HealthCheckHandler).Methods("GET")
}

// RegisterSessionRoutes sets up logout, which drops the viewer's cached state
func RegisterSessionRoutes(r *mux.Router, caches []controllers.Forgetter, logger *zap.Logger) {
	controller := controllers.NewSessionController(caches, logger)
	r.HandleFunc("/session", controller.Logout).Methods("DELETE")
}

// RegisterSearchRoutes sets up routes for the viewer's search session under /search
func RegisterSearchRoutes(r *mux.Router, searches *services.SearchService, logger *zap.Logger) {
	controller := controllers.NewSearchController(searches, logger)
	searchRouter := r.PathPrefix("/search").Subrouter()

	searchRouter.HandleFunc("", controller.Run).Methods("POST")
	searchRouter.HandleFunc("", controller.View).Methods("GET") // ?page=N
	searchRouter.HandleFunc("", controller.Clear).Methods("DELETE")
	searchRouter.HandleFunc("/more", controller.LoadMore).Methods("POST")
	searchRouter.HandleFunc("/page-size", controller.SetPageSize).Methods("PUT")
	searchRouter.HandleFunc("/criteria", controller.Criteria).Methods("GET")
	searchRouter.HandleFunc("/defaults", controller.Defaults).Methods("GET")
}

// RegisterRelationshipRoutes sets up favorites, shortlist and exclusions under /relationships
func RegisterRelationshipRoutes(r *mux.Router, relationships *services.RelationshipService, logger *zap.Logger) {
	controller := controllers.NewRelationshipController(relationships, logger)
	relRouter := r.PathPrefix("/relationships").Subrouter()

	relRouter.HandleFunc("", controller.List).Methods("GET")
	relRouter.HandleFunc("/{kind}", controller.ListKind).Methods("GET")
	relRouter.HandleFunc("/{kind}/{username}", controller.Add).Methods("POST", "PUT")
	relRouter.HandleFunc("/{kind}/{username}", controller.Remove).Methods("DELETE")
}

// RegisterSavedSearchRoutes sets up routes under /saved-searches
func RegisterSavedSearchRoutes(r *mux.Router, savedSearches *services.SavedSearchService, logger *zap.Logger) {
	controller := controllers.NewSavedSearchController(savedSearches, logger)
	savedRouter := r.PathPrefix("/saved-searches").Subrouter()

	savedRouter.HandleFunc("", controller.List).Methods("GET")
	savedRouter.HandleFunc("", controller.Create).Methods("POST")
	savedRouter.HandleFunc("/{id}", controller.Get).Methods("GET")
	savedRouter.HandleFunc("/{id}", controller.Rename).Methods("PUT", "PATCH")
	savedRouter.HandleFunc("/{id}", controller.Delete).Methods("DELETE")
	savedRouter.HandleFunc("/{id}/apply", controller.Apply).Methods("POST")
}

// RegisterPiiRoutes sets up access request routes under /pii
func RegisterPiiRoutes(r *mux.Router, piiService *services.PiiService, logger *zap.Logger) {
	controller := controllers.NewPiiController(piiService, logger)
	piiRouter := r.PathPrefix("/pii").Subrouter()

	piiRouter.HandleFunc("/access", controller.Access).Methods("GET")
	piiRouter.HandleFunc("/received", controller.Received).Methods("GET")
	piiRouter.HandleFunc("/requests", controller.Request).Methods("POST")
	piiRouter.HandleFunc("/requests/incoming", controller.Incoming).Methods("GET")
	piiRouter.HandleFunc("/requests/outgoing", controller.Outgoing).Methods("GET")
	piiRouter.HandleFunc("/requests/{id}/approve", controller.Approve).Methods("PUT", "POST")
	piiRouter.HandleFunc("/requests/{id}/deny", controller.Deny).Methods("PUT", "POST")
	piiRouter.HandleFunc("/requests/{id}", controller.Cancel).Methods("DELETE")
}

// RegisterImageRoutes sets up profile image and presigned URL routes
func RegisterImageRoutes(r *mux.Router, images *services.ImageService, logger *zap.Logger) {
	controller := controllers.NewImageController(images, logger)

	r.HandleFunc("/profiles/{username}/images", controller.ProfileImages).Methods("GET")
	r.HandleFunc("/images/upload-url", controller.UploadURL).Methods("POST")
	r.HandleFunc("/images/read-url", controller.ReadURL).Methods("POST")
}

// RegisterPreferenceRoutes sets up routes under /preferences
func RegisterPreferenceRoutes(r *mux.Router, preferences *services.PreferenceService, logger *zap.Logger) {
	controller := controllers.NewPreferenceController(preferences, logger)
	prefRouter := r.PathPrefix("/preferences").Subrouter()

	prefRouter.HandleFunc("", controller.Get).Methods("GET")
	prefRouter.HandleFunc("", controller.Put).Methods("PUT")
	prefRouter.HandleFunc("", controller.Delete).Methods("DELETE")
	prefRouter.HandleFunc("/sections/{section}", controller.SetCollapsed).Methods("PUT")
}

func RegisterDashboardRoutes(r *mux.Router, dashboard *services.DashboardService, logger *zap.Logger) {
	controller := controllers.NewDashboardController(dashboard, logger)
	r.HandleFunc("/dashboard", controller.Summary).Methods("GET")
}

func RegisterNotificationRoutes(r *mux.Router, notifications *services.NotificationService, logger *zap.Logger) {
	controller := controllers.NewNotificationController(notifications, logger)
	r.HandleFunc("/notifications/preferences", controller.Get).Methods("GET")
	r.HandleFunc("/notifications/preferences", controller.Update).Methods("PUT")
}

// RegisterPaymentRoutes sets up payment passthrough routes under /payments
func RegisterPaymentRoutes(r *mux.Router, payments *services.PaymentService, logger *zap.Logger) {
	controller := controllers.NewPaymentController(payments, logger)
	payRouter := r.PathPrefix("/payments").Subrouter()

	payRouter.HandleFunc("/stripe/config", controller.StripeConfig).Methods("GET")
	payRouter.HandleFunc("/plans", controller.Plans).Methods("GET")
	payRouter.HandleFunc("/subscription", controller.SubscriptionStatus).Methods("GET")
	payRouter.HandleFunc("/braintree/client-token", controller.ClientToken).Methods("GET")
}

// RegisterAdminRoutes sets up admin-only routes under /admin. The role check
// happens in the service so every caller path enforces it.
func RegisterAdminRoutes(r *mux.Router, admin *services.AdminService, logger *zap.Logger) {
	controller := controllers.NewAdminController(admin, logger)
	adminRouter := r.PathPrefix("/admin").Subrouter()

	adminRouter.HandleFunc("/settings", controller.Settings).Methods("GET")
	adminRouter.HandleFunc("/settings", controller.UpdateSettings).Methods("PUT")
	adminRouter.HandleFunc("/jobs", controller.Jobs).Methods("GET")
	adminRouter.HandleFunc("/jobs", controller.CreateJob).Methods("POST")
	adminRouter.HandleFunc("/jobs/{name}", controller.UpdateJob).Methods("PUT")
	adminRouter.HandleFunc("/jobs/{name}", controller.DeleteJob).Methods("DELETE")
	adminRouter.HandleFunc("/jobs/{name}/run", controller.RunJob).Methods("POST")
	adminRouter.HandleFunc("/jobs/{name}/logs", controller.JobLogs).Methods("GET")
	adminRouter.HandleFunc("/activity-logs", controller.ActivityLogs).Methods("GET")
}
