package services

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/norun9/dressco-storefront/admin"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *StorefrontServer) adminLoginHandler(w http.ResponseWriter, r *http.Request) {
	log := requestLogger(r)
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderHTTPError(log, w, errors.Wrap(err, "invalid request body"), http.StatusBadRequest)
		return
	}
	cookie, err := s.admin.Login(req.Username, req.Password)
	if errors.Is(err, admin.ErrBadCredentials) {
		log.WithField("username", req.Username).Warn("admin login failed")
		renderHTTPError(log, w, err, http.StatusUnauthorized)
		return
	}
	if err != nil {
		renderHTTPError(log, w, err, http.StatusInternalServerError)
		return
	}
	http.SetCookie(w, cookie)
	w.WriteHeader(http.StatusNoContent)
}

func (s *StorefrontServer) adminLogoutHandler(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, s.admin.Logout(r))
	w.WriteHeader(http.StatusNoContent)
}

func (s *StorefrontServer) adminStatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(requestLogger(r), w, http.StatusOK, s.dashboard.Stats(r.Context()))
}

// Content editing is served by the hosted backend, not this process.
func (s *StorefrontServer) adminContentHandler(w http.ResponseWriter, r *http.Request) {
	renderHTTPError(requestLogger(r), w, errors.New("content editing is not available"), http.StatusNotImplemented)
}
