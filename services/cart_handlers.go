package services

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/norun9/dressco-storefront/cart"
)

type addLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity"`
}

type cartResponse struct {
	Lines      []cart.Line `json:"lines"`
	TotalItems int         `json:"totalItems"`
	Subtotal   string      `json:"subtotal"`
	Open       bool        `json:"open"`
}

// newCartResponse derives the totals from a single snapshot of the lines.
func newCartResponse(c *cart.Store) cartResponse {
	lines := c.Lines()
	return cartResponse{
		Lines:      lines,
		TotalItems: cart.TotalItems(lines),
		Subtotal:   cart.Subtotal(lines).StringFixed(2),
		Open:       c.IsOpen(),
	}
}

// sessionCart pins the request's cart in the registry. Callers must defer release.
func (s *StorefrontServer) sessionCart(w http.ResponseWriter, r *http.Request) (*cart.Store, func(), bool) {
	c, release, err := s.carts.Acquire(r.Context(), sessionID(r))
	if err != nil {
		renderHTTPError(requestLogger(r), w, errors.Wrap(err, "could not load cart"), http.StatusInternalServerError)
		return nil, nil, false
	}
	return c, release, true
}

func (s *StorefrontServer) respondCart(w http.ResponseWriter, r *http.Request, c *cart.Store) {
	writeJSON(requestLogger(r), w, http.StatusOK, newCartResponse(c))
}

func (s *StorefrontServer) getCartHandler(w http.ResponseWriter, r *http.Request) {
	c, release, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	defer release()
	s.respondCart(w, r, c)
}

func (s *StorefrontServer) addLineHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	var req addLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.ProductID == "" {
		renderHTTPError(log, w, errors.New("productId is required"), http.StatusBadRequest)
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	product, err := s.catalog.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "could not retrieve product"), http.StatusInternalServerError)
		return
	}
	if product == nil {
		renderHTTPError(log, w, errors.Errorf("product %q not found", req.ProductID), http.StatusNotFound)
		return
	}

	c, release, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	defer release()
	if err := c.AddLine(r.Context(), *product, quantity, req.Size, req.Color); err != nil {
		renderHTTPError(log, w, err, http.StatusInternalServerError)
		return
	}
	s.metrics.LinesAdded.Add(r.Context(), int64(quantity))
	log.WithField("line", cart.LineID(product.ID, req.Size, req.Color)).Debug("line added")
	s.respondCart(w, r, c)
}

func (s *StorefrontServer) updateLineHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	if req.Quantity == nil {
		renderHTTPError(log, w, errors.New("quantity is required"), http.StatusBadRequest)
		return
	}

	c, release, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	defer release()
	err := c.UpdateQuantity(r.Context(), mux.Vars(r)["lineID"], *req.Quantity)
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		s.metrics.Rejected.Add(r.Context(), 1)
		renderHTTPError(log, w, err, http.StatusBadRequest)
		return
	case err != nil:
		renderHTTPError(log, w, err, http.StatusInternalServerError)
		return
	}
	s.respondCart(w, r, c)
}

func (s *StorefrontServer) removeLineHandler(w http.ResponseWriter, r *http.Request) {
	c, release, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	defer release()
	if err := c.RemoveLine(r.Context(), mux.Vars(r)["lineID"]); err != nil {
		renderHTTPError(requestLogger(r), w, err, http.StatusInternalServerError)
		return
	}
	s.metrics.LinesRemoved.Add(r.Context(), 1)
	s.respondCart(w, r, c)
}

func (s *StorefrontServer) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	c, release, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	defer release()
	if err := c.Clear(r.Context()); err != nil {
		renderHTTPError(requestLogger(r), w, err, http.StatusInternalServerError)
		return
	}
	s.respondCart(w, r, c)
}

func (s *StorefrontServer) openCartHandler(w http.ResponseWriter, r *http.Request) {
	c, release, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	defer release()
	c.Open()
	s.respondCart(w, r, c)
}

func (s *StorefrontServer) closeCartHandler(w http.ResponseWriter, r *http.Request) {
	c, release, ok := s.sessionCart(w, r)
	if !ok {
		return
	}
	defer release()
	c.Close()
	s.respondCart(w, r, c)
}
