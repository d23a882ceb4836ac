package services

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/norun9/dressco-storefront/cartstore"
)

// HealthCheckService implements the gRPC health protocol on top of the cart store.
type HealthCheckService struct {
	healthpb.UnimplementedHealthServer
	store cartstore.ICartStore
	log   logrus.FieldLogger
}

// NewHealthCheckService constructor
func NewHealthCheckService(store cartstore.ICartStore, log logrus.FieldLogger) *HealthCheckService {
	return &HealthCheckService{store: store, log: log}
}

// Check reports SERVING while the cart store answers pings.
func (h *HealthCheckService) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	h.log.WithField("service", req.GetService()).Debug("health check")
	if h.store.Ping(ctx) {
		return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
}

func (s *StorefrontServer) healthzHandler(w http.ResponseWriter, r *http.Request) {
	if !s.store.Ping(r.Context()) {
		http.Error(w, "cart store unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}
