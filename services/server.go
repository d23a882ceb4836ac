// Package services exposes the storefront over HTTP and reports health over gRPC.
package services

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/norun9/dressco-storefront/admin"
	"github.com/norun9/dressco-storefront/cartstore"
	"github.com/norun9/dressco-storefront/catalog"
	"github.com/norun9/dressco-storefront/telemetry"
	"github.com/norun9/dressco-storefront/wishlist"
)

// Deps are the collaborators a StorefrontServer is built from.
type Deps struct {
	ServiceName  string
	Carts        *Registry
	Store        cartstore.ICartStore
	Catalog      catalog.Catalog
	Wishlist     *wishlist.Store
	Admin        *admin.SessionManager
	Metrics      *telemetry.CartMetrics
	CookieMaxAge time.Duration
	Log          logrus.FieldLogger
}

// StorefrontServer serves the shopper and admin JSON API.
type StorefrontServer struct {
	serviceName  string
	carts        *Registry
	store        cartstore.ICartStore
	catalog      catalog.Catalog
	wishlist     *wishlist.Store
	admin        *admin.SessionManager
	dashboard    *admin.Dashboard
	metrics      *telemetry.CartMetrics
	cookieMaxAge time.Duration
	log          logrus.FieldLogger
}

// NewStorefrontServer constructor
func NewStorefrontServer(d Deps) *StorefrontServer {
	if d.Wishlist == nil {
		d.Wishlist = wishlist.NewStore()
	}
	return &StorefrontServer{
		serviceName:  d.ServiceName,
		carts:        d.Carts,
		store:        d.Store,
		catalog:      d.Catalog,
		wishlist:     d.Wishlist,
		admin:        d.Admin,
		dashboard:    admin.NewDashboard(d.Catalog, d.Log),
		metrics:      d.Metrics,
		cookieMaxAge: d.CookieMaxAge,
		log:          d.Log,
	}
}

// Handler builds the routed, traced and logged HTTP handler.
func (s *StorefrontServer) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware(s.serviceName))

	r.HandleFunc("/_healthz", s.healthzHandler).Methods(http.MethodGet, http.MethodHead)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/cart", s.getCartHandler).Methods(http.MethodGet)
	api.HandleFunc("/cart", s.clearCartHandler).Methods(http.MethodDelete)
	api.HandleFunc("/cart/open", s.openCartHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/close", s.closeCartHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/lines", s.addLineHandler).Methods(http.MethodPost)
	api.HandleFunc("/cart/lines/{lineID}", s.updateLineHandler).Methods(http.MethodPatch)
	api.HandleFunc("/cart/lines/{lineID}", s.removeLineHandler).Methods(http.MethodDelete)

	api.HandleFunc("/products", s.listProductsHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", s.getProductHandler).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}/reviews", s.reviewsHandler).Methods(http.MethodGet)
	api.HandleFunc("/wishlist", s.getWishlistHandler).Methods(http.MethodGet)
	api.HandleFunc("/wishlist/{productID}", s.addWishlistHandler).Methods(http.MethodPost)
	api.HandleFunc("/wishlist/{productID}", s.removeWishlistHandler).Methods(http.MethodDelete)
	api.HandleFunc("/orders", s.ordersHandler).Methods(http.MethodGet)
	api.HandleFunc("/faqs", s.faqsHandler).Methods(http.MethodGet)

	r.HandleFunc("/admin/login", s.adminLoginHandler).Methods(http.MethodPost)
	r.HandleFunc("/admin/logout", s.adminLogoutHandler).Methods(http.MethodPost)
	protected := r.PathPrefix("/admin").Subrouter()
	protected.Use(s.admin.Middleware)
	protected.HandleFunc("/stats", s.adminStatsHandler).Methods(http.MethodGet)
	protected.PathPrefix("/content").HandlerFunc(s.adminContentHandler)

	var handler http.Handler = r
	handler = &logHandler{log: s.log, next: handler}
	handler = ensureSessionID(s.cookieMaxAge)(handler)
	return handler
}

type errorResponse struct {
	Error string `json:"error"`
}

func renderHTTPError(log logrus.FieldLogger, w http.ResponseWriter, err error, code int) {
	msg := err.Error()
	if code >= http.StatusInternalServerError {
		log.WithField("error", err).Error("request error")
		msg = http.StatusText(code)
	} else {
		log.WithField("error", err).Debug("request rejected")
	}
	writeJSON(log, w, code, errorResponse{Error: msg})
}

func writeJSON(log logrus.FieldLogger, w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("writing response")
	}
}
