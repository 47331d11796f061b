// Package api 是薄 HTTP 入口：路由、鉴权中间件和 JSON 编解码。
// 业务规则全部在 fleet 服务层和各仓储内。
package api

import (
	"net/http"
	"time"

	"github.com/FleetLink/FleetLink/internal/common/config"
	"github.com/FleetLink/FleetLink/internal/common/logger"
	"github.com/FleetLink/FleetLink/internal/fleet"
	"github.com/go-chi/chi/v5"
)

type Server struct {
	fleet *fleet.Service
	auth  *fleet.AuthService
	cfg   *config.Config
	log   logger.Logger
}

func NewServer(fleetSvc *fleet.Service, authSvc *fleet.AuthService, cfg *config.Config, log logger.Logger) *Server {
	return &Server{fleet: fleetSvc, auth: authSvc, cfg: cfg, log: log}
}

// Router 组装路由。/api 下除注册/登录外都要求 Bearer token。
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(AccessLog(s.log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(RequireAuth(s.cfg.Auth))

			r.Route("/companies", func(r chi.Router) {
				r.Get("/", s.handleListCompanies)
				r.Post("/", s.handleAddCompany)
				r.Put("/", s.handleUpdateCompany)
				r.Get("/{companyID}", s.handleGetCompany)
				r.Delete("/{companyID}", s.handleDeleteCompany)
			})

			r.Route("/drivers", func(r chi.Router) {
				r.Get("/", s.handleListDrivers)
				r.Post("/", s.handleAddDriver)
				r.Put("/", s.handleUpdateDriver)
				r.Get("/{id}", s.handleGetDriver)
				r.Delete("/{id}", s.handleDeleteDriver)
			})

			r.Route("/vehicles", func(r chi.Router) {
				r.Get("/", s.handleListVehicles)
				r.Post("/", s.handleAddVehicle)
				r.Put("/", s.handleUpdateVehicle)
				r.Get("/{id}", s.handleGetVehicle)
				r.Delete("/{id}", s.handleDeleteVehicle)
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.handleListUsers)
				r.Put("/", s.handleUpdateUser)
				r.Get("/{login}", s.handleGetUser)
				r.Delete("/{login}", s.handleDeleteUser)
			})
		})
	})

	return r
}

// HTTPServer 带基础超时的 http.Server。
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
