package httptransport

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/dealer-oms/internal/domain"
	"github.com/vladislavdragonenkov/dealer-oms/internal/service/lifecycle"
)

// Server — тонкий JSON API поверх оркестратора жизненного цикла.
// Никаких бизнес-правил в обработчиках: маршруты один-к-одному
// отображаются на операции оркестратора, вся логика живёт ниже.
type Server struct {
	orchestrator lifecycle.Orchestrator
	orders       domain.OrderRepository
	tracking     domain.TrackingRepository
	logger       *log.Entry
	router       chi.Router
}

// NewServer создаёт HTTP-сервер API с готовой маршрутизацией.
func NewServer(
	orchestrator lifecycle.Orchestrator,
	orders domain.OrderRepository,
	tracking domain.TrackingRepository,
	logger *log.Entry,
) *Server {
	if logger == nil {
		logger = log.New().WithField("component", "http-api")
	}

	s := &Server{
		orchestrator: orchestrator,
		orders:       orders,
		tracking:     tracking,
		logger:       logger,
	}
	s.router = s.buildRouter()

	return s
}

// Handler возвращает корневой http.Handler сервера.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Post("/", s.createOrder)
		r.Get("/", s.listOrders)

		r.Route("/{orderID}", func(r chi.Router) {
			r.Get("/", s.getOrder)
			r.Delete("/", s.deleteOrder)
			r.Get("/tracking", s.listTracking)
			r.Post("/approve", s.approveOrder)
			r.Post("/ship", s.shipOrder)
			r.Post("/delivery-confirmation", s.confirmDelivery)
			r.Post("/issues", s.reportIssue)
			r.Post("/cancellation", s.cancelOrder)
			r.Post("/dispute-resolution", s.resolveDispute)
		})
	})

	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.WithFields(log.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"duration":   time.Since(start).String(),
			"request_id": middleware.GetReqID(r.Context()),
		}).Info("http request handled")
	})
}
