// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// RouteOptions are the middlewares applied to groups of API routes.
// Nil entries are skipped.
type RouteOptions struct {
	// RequireAdmin guards every write and back office read.
	RequireAdmin func(http.Handler) http.Handler
	// LeadLimit rate-limits the public contact form.
	LeadLimit func(http.Handler) http.Handler
	// VisitLimit rate-limits visit tracking.
	VisitLimit func(http.Handler) http.Handler
	// LoginLimit rate-limits login attempts per IP.
	LoginLimit func(http.Handler) http.Handler
}

func use(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return mw
}

// Routes returns the API router, to be mounted at /api.
func (h *Handler) Routes(opts RouteOptions) chi.Router {
	r := chi.NewRouter()
	admin := use(opts.RequireAdmin)

	// Public reads
	r.Get("/products", h.ListProducts)
	r.Get("/products/featured", h.FeaturedProducts)
	r.Get("/products/{id}", h.GetProduct)
	r.Get("/banners", h.ListBanners)
	r.Get("/banners/{id}", h.GetBanner)
	r.Get("/news", h.ListNews)
	r.Get("/news/{id}", h.GetNews)
	r.Get("/projects", h.ListProjects)
	r.Get("/projects/{id}", h.GetProject)
	r.Get("/contacts", h.ListContacts)

	// Public writes
	r.With(use(opts.LeadLimit)).Post("/leads", h.CreateLead)
	r.With(use(opts.VisitLimit)).Post("/analytics/visits", h.TrackVisit)

	// Auth
	r.With(use(opts.LoginLimit)).Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/me", h.Me)

	r.Group(func(r chi.Router) {
		r.Use(admin)

		r.Post("/products", h.CreateProduct)
		r.Put("/products/{id}", h.UpdateProduct)
		r.Delete("/products/{id}", h.DeleteProduct)

		r.Post("/banners", h.CreateBanner)
		r.Put("/banners/{id}", h.UpdateBanner)
		r.Delete("/banners/{id}", h.DeleteBanner)
		r.Post("/banners/{id}/move", h.MoveBanner)

		r.Post("/news", h.CreateNews)
		r.Put("/news/{id}", h.UpdateNews)
		r.Delete("/news/{id}", h.DeleteNews)

		r.Get("/leads", h.ListLeads)
		r.Get("/leads/{id}", h.GetLead)
		r.Put("/leads/{id}", h.UpdateLead)
		r.Delete("/leads/{id}", h.DeleteLead)
		r.Post("/leads/{id}/reply", h.ReplyLead)

		r.Post("/contacts", h.CreateContact)
		r.Put("/contacts/{id}", h.UpdateContact)
		r.Delete("/contacts/{id}", h.DeleteContact)

		r.Post("/projects", h.CreateProject)
		r.Put("/projects/{id}", h.UpdateProject)
		r.Delete("/projects/{id}", h.DeleteProject)

		r.Get("/analytics/visits", h.VisitStats)

		r.Post("/cloudinary/upload", h.UploadImage)
		r.Post("/cloudinary/delete", h.DeleteImage)
		r.Post("/upload/image", h.UploadEditorImage)

		r.Post("/test/send-email", h.SendTestEmail)

		r.Get("/admin/stats", h.Stats)
		r.Get("/admin/activities", h.Activities)
		r.Get("/admin/events", h.Events)
		r.Get("/admin/jobs", h.Jobs)
		r.Post("/admin/jobs/{name}/run", h.TriggerJob)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	return r
}
