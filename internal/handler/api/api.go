// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API consumed by the storefront and the
// admin UI.
package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/cache"
	"github.com/olegiv/lefarm/internal/mailer"
	"github.com/olegiv/lefarm/internal/media"
	"github.com/olegiv/lefarm/internal/middleware"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/scheduler"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/util"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// DefaultCacheTTL is used for public read caches when Deps.CacheTTL is zero.
const DefaultCacheTTL = 5 * time.Minute

// JobRunner is the subset of the scheduler used by the admin jobs endpoints.
type JobRunner interface {
	Jobs() []scheduler.JobInfo
	Trigger(name string) error
}

// Deps are the collaborators of the API handler.
type Deps struct {
	DB     *sql.DB
	Cache  cache.Cacher
	Media  *media.Service
	Tokens *auth.TokenManager
	Login  *middleware.LoginProtection
	Leads  *service.LeadService
	Visits *service.VisitTracker
	Events *service.EventService
	Jobs   JobRunner
	Logger *slog.Logger

	SecureCookie bool
	CacheTTL     time.Duration
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	users    *service.AuthService
	products *service.ProductService
	banners  *service.BannerService
	news     *service.NewsService
	leads    *service.LeadService
	contacts *service.ContactService
	projects *service.ProjectService
	visits   *service.VisitTracker
	activity *service.ActivityService
	stats    *service.StatsService
	events   *service.EventService
	media    *media.Service
	tokens   *auth.TokenManager
	login    *middleware.LoginProtection
	jobs     JobRunner
	logger   *slog.Logger

	cacher        cache.Cacher
	bannerCache   *cache.TypedCache[[]BannerResponse]
	productCache  *cache.TypedCache[[]ProductResponse]
	contactsCache *cache.TypedCache[[]ContactResponse]

	secureCookie bool
	now          func() time.Time
}

// NewHandler creates a new API handler. Nil Leads, Visits, Events, Media
// and Login are replaced by collaborators that log instead of mailing and
// run without geo lookup, image host or lockout state.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.CacheTTL <= 0 {
		d.CacheTTL = DefaultCacheTTL
	}
	if d.Cache == nil {
		d.Cache = cache.NewSimpleMemoryCache(d.CacheTTL)
	}
	if d.Leads == nil {
		d.Leads = service.NewLeadService(d.DB, nil, mailer.NewLogSender(d.Logger), mailer.MustTemplates(), "")
	}
	if d.Visits == nil {
		d.Visits = service.NewVisitTracker(d.DB, nil)
	}
	if d.Events == nil {
		d.Events = service.NewEventService(d.DB)
	}
	if d.Media == nil {
		d.Media = media.NewService(nil, nil, 0)
	}
	if d.Login == nil {
		d.Login = middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	}

	return &Handler{
		users:         service.NewAuthService(d.DB, d.Logger),
		products:      service.NewProductService(d.DB),
		banners:       service.NewBannerService(d.DB),
		news:          service.NewNewsService(d.DB),
		leads:         d.Leads,
		contacts:      service.NewContactService(d.DB),
		projects:      service.NewProjectService(d.DB),
		visits:        d.Visits,
		activity:      service.NewActivityService(d.DB),
		stats:         service.NewStatsService(d.DB),
		events:        d.Events,
		media:         d.Media,
		tokens:        d.Tokens,
		login:         d.Login,
		jobs:          d.Jobs,
		logger:        d.Logger,
		cacher:        d.Cache,
		bannerCache:   cache.NewTypedCache[[]BannerResponse](d.Cache, d.CacheTTL),
		productCache:  cache.NewTypedCache[[]ProductResponse](d.Cache, d.CacheTTL),
		contactsCache: cache.NewTypedCache[[]ContactResponse](d.Cache, d.CacheTTL),
		secureCookie:  d.SecureCookie,
		now:           time.Now,
	}
}

// Cache key prefixes. Writes to an entity drop every key under its prefix.
const (
	cachePrefixBanners  = "banners:"
	cachePrefixProducts = "products:"
	cachePrefixContacts = "contacts:"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse acknowledges an operation without an entity body.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error JSON response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeJSON decodes and validates the request body into v.
// Returns false if the request failed (response already written).
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return false
	}
	if err := validate.Struct(v); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			writeError(w, http.StatusBadRequest, fieldMessage(fieldErrs[0]))
			return false
		}
		writeError(w, http.StatusBadRequest, "Invalid request")
		return false
	}
	return true
}

// fieldMessage renders the first failing validation rule.
func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Invalid email address"
	case "max":
		return field + " must be at most " + fe.Param() + " characters"
	case "oneof":
		return field + " must be one of " + fe.Param()
	case "gte":
		return field + " must be at least " + fe.Param()
	case "lte":
		return field + " must be at most " + fe.Param()
	default:
		return "Invalid " + field
	}
}

// pathID returns the {id} URL parameter when it is a UUID.
// Returns false if the request failed (response already written).
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid ID")
		return "", false
	}
	return id, true
}

// fail maps a service error onto a response. entity names the resource
// in not-found messages ("Product", "Banner", ...).
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, entity string, err error) {
	var validationErr *service.ValidationError
	var conflictErr *service.ConflictError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		writeError(w, http.StatusNotFound, entity+" not found")
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Message)
	case errors.As(err, &conflictErr):
		writeError(w, http.StatusConflict, conflictErr.Message)
	default:
		h.logger.Error("api request failed",
			"error", err,
			"entity", strings.ToLower(entity),
			"method", r.Method,
			"path", r.URL.Path,
		)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// invalidate drops cached public reads under prefix.
func (h *Handler) invalidate(r *http.Request, prefix string) {
	if err := h.cacher.DeleteByPrefix(r.Context(), prefix); err != nil {
		h.logger.Warn("cache invalidation failed", "prefix", prefix, "error", err)
	}
}

// audit records an admin action in the event log.
func (h *Handler) audit(r *http.Request, category, message string, md map[string]any) {
	if id := middleware.GetIdentity(r); id != nil {
		if md == nil {
			md = map[string]any{}
		}
		md["user"] = id.Email
	}
	if err := h.events.LogEvent(r.Context(), model.EventLevelInfo, category, message, util.ClientIP(r), md); err != nil {
		h.logger.Warn("failed to record event", "message", message, "error", err)
	}
}
