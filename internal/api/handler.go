package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"salon-booking-backend/internal/auth"
	"salon-booking-backend/internal/booking"
	"salon-booking-backend/internal/catalog"
	"salon-booking-backend/internal/mw"
	"salon-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store    store.Store
	bookings *booking.Service
	catalog  *catalog.Registry
	auth     *auth.Manager
	cache    *mw.ResponseCache
	webpush  *webpush.Options
	studio   string
	log      *zap.Logger
	now      func() time.Time
}

// Deps are the collaborators a Handler needs. Cache and Webpush may be nil.
type Deps struct {
	Store    store.Store
	Bookings *booking.Service
	Catalog  *catalog.Registry
	Auth     *auth.Manager
	Cache    *mw.ResponseCache
	Webpush  *webpush.Options
	Studio   string
	Log      *zap.Logger
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	studio := d.Studio
	if studio == "" {
		studio = "salond"
	}
	return &Handler{
		store:    d.Store,
		bookings: d.Bookings,
		catalog:  d.Catalog,
		auth:     d.Auth,
		cache:    d.Cache,
		webpush:  d.Webpush,
		studio:   studio,
		log:      log,
		now:      time.Now,
	}
}

// invalidate drops cached availability after a schedule change.
func (h *Handler) invalidate() {
	if h.cache != nil {
		h.cache.Flush()
	}
}
