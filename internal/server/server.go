// Package server wires the wizard, pricing components, the payment adapter,
// and the hand-off store into one net/http handler behind the configured
// base path.
package server

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-orderwizard/components/coupons"
	"github.com/goliatone/go-orderwizard/components/statefees"
	"github.com/goliatone/go-orderwizard/internal/config"
	"github.com/goliatone/go-orderwizard/pkg/account"
	"github.com/goliatone/go-orderwizard/pkg/handoff"
	"github.com/goliatone/go-orderwizard/pkg/payment"
	"github.com/goliatone/go-orderwizard/pkg/pricing"
)

// Server owns the mux and the per-session wizard controllers.
type Server struct {
	cfg      config.Config
	log      *zap.Logger
	mux      *http.ServeMux
	sessions *sessionStore
	catalog  *pricing.Catalog
	envelope handoff.Store

	fees     pricing.FeeSource
	coupons  pricing.CouponValidator
	payments payment.Adapter
	sdk      payment.SDK
	auth     Authenticator
}

// Option customizes the server before routes mount.
type Option func(*Server)

// WithLogger replaces the default zap logger.
func WithLogger(log *zap.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithCatalog replaces the embedded price catalog.
func WithCatalog(catalog *pricing.Catalog) Option {
	return func(s *Server) {
		if catalog != nil {
			s.catalog = catalog
		}
	}
}

// WithHandoffStore replaces the in-memory hand-off store, e.g. with a
// handoff.FileStore so envelopes survive restarts.
func WithHandoffStore(store handoff.Store) Option {
	return func(s *Server) {
		if store != nil {
			s.envelope = store
		}
	}
}

// WithPaymentAdapter replaces the processor built from the payment upstream.
func WithPaymentAdapter(adapter payment.Adapter) Option {
	return func(s *Server) {
		if adapter != nil {
			s.payments = adapter
		}
	}
}

// WithPaymentSDK supplies the card-tokenizing SDK the processor confirms
// through. Required for the processor built from Upstreams.PaymentURL.
func WithPaymentSDK(sdk payment.SDK) Option {
	return func(s *Server) {
		if sdk != nil {
			s.sdk = sdk
		}
	}
}

// WithAuthenticator replaces the account client built from the auth upstream.
func WithAuthenticator(auth Authenticator) Option {
	return func(s *Server) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// New builds a Server and mounts all routes.
func New(cfg config.Config, options ...Option) (*Server, error) {
	s := &Server{
		cfg:      cfg,
		log:      zap.NewNop(),
		mux:      http.NewServeMux(),
		catalog:  pricing.DefaultCatalog(),
		envelope: handoff.NewMemoryStore(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	s.sessions = newSessionStore()

	if s.fees == nil {
		s.fees = s.defaultFeeSource()
	}
	if s.coupons == nil {
		s.coupons = s.defaultCouponValidator()
	}
	if s.payments == nil {
		s.payments = s.defaultPaymentAdapter()
	}
	if s.auth == nil {
		s.auth = s.defaultAuthenticator()
	}

	if err := s.mount(); err != nil {
		return nil, err
	}
	return s, nil
}

// Handler returns the root handler with request logging attached.
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// HTTPServer builds an http.Server from the configured timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout.Std(),
		WriteTimeout: s.cfg.Server.WriteTimeout.Std(),
	}
}

func (s *Server) mount() error {
	base := s.cfg.Server.BasePath

	if _, err := statefees.RegisterRoutes(s.mux, base, statefees.WithSource(s.fees)); err != nil {
		return err
	}

	if _, err := coupons.RegisterRoutes(s.mux, base, coupons.WithValidator(s.coupons)); err != nil {
		return err
	}

	s.mux.Handle(joinPath(base, "/api/order"), s.orderHandler())
	s.mux.Handle(joinPath(base, "/api/order/back"), s.backHandler())
	s.mux.Handle(joinPath(base, "/api/order/jump"), s.jumpHandler())
	s.mux.Handle(joinPath(base, "/api/order/coupon"), s.couponHandler())
	s.mux.Handle(joinPath(base, "/api/order/payment"), s.paymentHandler())
	s.mux.Handle(joinPath(base, "/api/order/handoff"), s.handoffHandler())
	s.mux.Handle(joinPath(base, "/api/order/restore"), s.restoreHandler())
	s.mux.Handle(joinPath(base, "/api/payment/methods"), s.methodsHandler())
	s.mux.Handle(joinPath(base, "/api/auth/register"), s.registerHandler())
	s.mux.Handle(joinPath(base, "/api/auth/login"), s.loginHandler())
	s.mux.HandleFunc(joinPath(base, "/healthz"), func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return nil
}

// defaultFeeSource prefers the remote pricing service and falls back to the
// catalog.
func (s *Server) defaultFeeSource() pricing.FeeSource {
	if url := strings.TrimSpace(s.cfg.Upstreams.PricingURL); url != "" {
		client, err := pricing.NewClient(url)
		if err == nil {
			return client
		}
		s.log.Warn("pricing client unavailable, using catalog", zap.Error(err))
	}
	return s.catalog.Fees()
}

func (s *Server) defaultCouponValidator() pricing.CouponValidator {
	if url := strings.TrimSpace(s.cfg.Upstreams.CouponURL); url != "" {
		client, err := pricing.NewCouponClient(url)
		if err == nil {
			return client
		}
		s.log.Warn("coupon client unavailable, using static table", zap.Error(err))
	}
	return pricing.StaticCoupons{"SAVE20": 2000, "WELCOME10": 1000}
}

// defaultPaymentAdapter builds a processor against the payment upstream. It
// needs both the URL and an SDK; without them checkout stays disabled.
func (s *Server) defaultPaymentAdapter() payment.Adapter {
	url := strings.TrimSpace(s.cfg.Upstreams.PaymentURL)
	if url == "" || s.sdk == nil {
		return nil
	}
	processor, err := payment.NewProcessor(url, s.sdk)
	if err != nil {
		s.log.Warn("payment processor unavailable, checkout disabled", zap.Error(err))
		return nil
	}
	return processor
}

func (s *Server) defaultAuthenticator() Authenticator {
	url := strings.TrimSpace(s.cfg.Upstreams.AuthURL)
	if url == "" {
		return nil
	}
	client, err := account.NewClient(url)
	if err != nil {
		s.log.Warn("account client unavailable, auth disabled", zap.Error(err))
		return nil
	}
	return client
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

func joinPath(base, route string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		return route
	}
	if !strings.HasPrefix(base, "/") {
		base = "/" + base
	}
	return base + route
}
