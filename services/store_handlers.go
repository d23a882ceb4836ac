package services

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/norun9/dressco-storefront/cart"
	"github.com/norun9/dressco-storefront/catalog"
	"github.com/norun9/dressco-storefront/wishlist"
)

type productsResponse struct {
	Products []cart.Product `json:"products"`
}

func (s *StorefrontServer) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	q := r.URL.Query()
	products, err := s.catalog.ListProducts(r.Context(), catalog.Filter{
		Category: q.Get("category"),
		Query:    q.Get("q"),
	})
	if err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "could not retrieve products"), http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []cart.Product{}
	}
	writeJSON(log, w, http.StatusOK, productsResponse{Products: products})
}

// lookupProduct writes a 404 or 500 and returns nil when the product cannot be served.
func (s *StorefrontServer) lookupProduct(w http.ResponseWriter, r *http.Request, id string) *cart.Product {
	log := requestLogger(r)
	p, err := s.catalog.GetProductByID(r.Context(), id)
	if err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "could not retrieve product"), http.StatusInternalServerError)
		return nil
	}
	if p == nil {
		renderHTTPError(log, w, errors.Errorf("product %q not found", id), http.StatusNotFound)
		return nil
	}
	return p
}

func (s *StorefrontServer) getProductHandler(w http.ResponseWriter, r *http.Request) {
	p := s.lookupProduct(w, r, mux.Vars(r)["id"])
	if p == nil {
		return
	}
	writeJSON(requestLogger(r), w, http.StatusOK, p)
}

func (s *StorefrontServer) reviewsHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	id := mux.Vars(r)["id"]

	page := 0
	if v := r.URL.Query().Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			renderHTTPError(log, w, errors.Wrap(err, "invalid page"), http.StatusBadRequest)
			return
		}
		page = n
	}

	if s.lookupProduct(w, r, id) == nil {
		return
	}
	reviews, err := s.catalog.GetReviews(r.Context(), id)
	if err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "could not retrieve reviews"), http.StatusInternalServerError)
		return
	}
	writeJSON(log, w, http.StatusOK, catalog.PageReviews(reviews, page, catalog.DefaultReviewsPerPage))
}

func (s *StorefrontServer) respondWishlist(w http.ResponseWriter, r *http.Request, code int) {
	log := requestLogger(r)
	products := wishlist.Resolve(r.Context(), s.catalog, s.wishlist.IDs(sessionID(r)), log)
	writeJSON(log, w, code, productsResponse{Products: products})
}

func (s *StorefrontServer) getWishlistHandler(w http.ResponseWriter, r *http.Request) {
	s.respondWishlist(w, r, http.StatusOK)
}

func (s *StorefrontServer) addWishlistHandler(w http.ResponseWriter, r *http.Request) {
	p := s.lookupProduct(w, r, mux.Vars(r)["productID"])
	if p == nil {
		return
	}
	code := http.StatusOK
	if s.wishlist.Add(sessionID(r), p.ID) {
		code = http.StatusCreated
	}
	s.respondWishlist(w, r, code)
}

func (s *StorefrontServer) removeWishlistHandler(w http.ResponseWriter, r *http.Request) {
	s.wishlist.Remove(sessionID(r), mux.Vars(r)["productID"])
	s.respondWishlist(w, r, http.StatusOK)
}

type ordersResponse struct {
	Orders []catalog.Order `json:"orders"`
}

func (s *StorefrontServer) ordersHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	user := r.URL.Query().Get("user")
	if user == "" {
		renderHTTPError(log, w, errors.New("user is required"), http.StatusBadRequest)
		return
	}
	orders, err := s.catalog.GetOrdersByUserID(r.Context(), user)
	if err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "could not retrieve orders"), http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []catalog.Order{}
	}
	writeJSON(log, w, http.StatusOK, ordersResponse{Orders: orders})
}

type faqsResponse struct {
	FAQs []catalog.FAQ `json:"faqs"`
}

func (s *StorefrontServer) faqsHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	faqs, err := s.catalog.GetFAQs(r.Context())
	if err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "could not retrieve faqs"), http.StatusInternalServerError)
		return
	}
	if faqs == nil {
		faqs = []catalog.FAQ{}
	}
	writeJSON(log, w, http.StatusOK, faqsResponse{FAQs: faqs})
}
