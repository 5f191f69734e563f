package marketplace

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/codevault/internal/config"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/auth/forgotpassword"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/auth/me"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/auth/register"
	contactlist "github.com/magabrotheeeer/codevault/internal/http/handlers/contact/list"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/contact/markread"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/contact/submit"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/health"
	ordercreate "github.com/magabrotheeeer/codevault/internal/http/handlers/order/create"
	orderlist "github.com/magabrotheeeer/codevault/internal/http/handlers/order/list"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/order/listall"
	orderread "github.com/magabrotheeeer/codevault/internal/http/handlers/order/read"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/payment/paymentcreate"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/payment/paymentstatus"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/payment/paymentverify"
	productcreate "github.com/magabrotheeeer/codevault/internal/http/handlers/product/create"
	productlist "github.com/magabrotheeeer/codevault/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/codevault/internal/http/handlers/product/read"
	productremove "github.com/magabrotheeeer/codevault/internal/http/handlers/product/remove"
	productupdate "github.com/magabrotheeeer/codevault/internal/http/handlers/product/update"
	reviewcreate "github.com/magabrotheeeer/codevault/internal/http/handlers/review/create"
	reviewlist "github.com/magabrotheeeer/codevault/internal/http/handlers/review/list"
	"github.com/magabrotheeeer/codevault/internal/http/handlers/stats"
	userlist "github.com/magabrotheeeer/codevault/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/codevault/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/codevault/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/codevault/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/codevault/internal/http/middlewarectx"
	"github.com/magabrotheeeer/codevault/internal/http/response"
	authservice "github.com/magabrotheeeer/codevault/internal/services/auth"
	contactservice "github.com/magabrotheeeer/codevault/internal/services/contact"
	orderservice "github.com/magabrotheeeer/codevault/internal/services/order"
	paymentservice "github.com/magabrotheeeer/codevault/internal/services/payment"
	productservice "github.com/magabrotheeeer/codevault/internal/services/product"
	reviewservice "github.com/magabrotheeeer/codevault/internal/services/review"
	statsservice "github.com/magabrotheeeer/codevault/internal/services/stats"
	userservice "github.com/magabrotheeeer/codevault/internal/services/user"
)

type services struct {
	auth    *authservice.Service
	payment *paymentservice.Service
	product *productservice.Service
	order   *orderservice.Service
	review  *reviewservice.Service
	contact *contactservice.Service
	user    *userservice.Service
	stats   *statsservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, cfg *config.Config, reg *prometheus.Registry, svc services) {
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
		response.ExposeErrors(cfg.IsDevelopment()),
	)

	authenticate := middlewarectx.JWTMiddleware(svc.auth, logger)
	adminOnly := middlewarectx.RequireAdmin(logger)
	limit := middlewarectx.RateLimitMiddleware(logger, cfg.RateLimitRPS, cfg.RateLimitBurst)

	healthHandler := health.New(logger, svc.stats)
	r.Get("/health", healthHandler.Live)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Ready)

		r.Route("/auth", func(r chi.Router) {
			registerHandler := register.New(logger, svc.auth)
			r.With(limit).Post("/register", registerHandler.ServeHTTP)
			r.With(limit).Post("/signup", registerHandler.ServeHTTP)
			r.With(limit).Post("/login", login.New(logger, svc.auth).ServeHTTP)
			r.With(limit).Post("/forgot-password", forgotpassword.New(logger, svc.auth).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/logout", logout.New(logger, svc.auth).ServeHTTP)
				r.Get("/me", me.ServeHTTP)
				r.Patch("/profile", profile.New(logger, svc.auth).ServeHTTP)
				r.Post("/change-password", changepassword.New(logger, svc.auth).ServeHTTP)
			})
		})

		r.Route("/products", func(r chi.Router) {
			optional := middlewarectx.OptionalJWTMiddleware(svc.auth, logger)
			r.With(optional).Get("/", productlist.New(logger, svc.product).ServeHTTP)
			r.With(optional).Get("/{slugOrId}", productread.New(logger, svc.product).ServeHTTP)

			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Post("/", productcreate.New(logger, svc.product).ServeHTTP)
				r.Patch("/{slugOrId}", productupdate.New(logger, svc.product).ServeHTTP)
				r.Delete("/{slugOrId}", productremove.New(logger, svc.product).ServeHTTP)
			})
		})

		r.Route("/orders", func(r chi.Router) {
			r.Use(authenticate)
			r.With(adminOnly).Get("/admin/all", listall.New(logger, svc.order).ServeHTTP)
			r.Get("/", orderlist.New(logger, svc.order).ServeHTTP)
			r.Post("/", ordercreate.New(logger, svc.order).ServeHTTP)
			r.Get("/{id}", orderread.New(logger, svc.order).ServeHTTP)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authenticate, adminOnly)
			r.Get("/", userlist.New(logger, svc.user).ServeHTTP)
			r.Get("/{id}", userread.New(logger, svc.user).ServeHTTP)
			r.Patch("/{id}", userupdate.New(logger, svc.user).ServeHTTP)
			r.Delete("/{id}", userremove.New(logger, svc.user).ServeHTTP)
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", submit.New(logger, svc.contact).ServeHTTP)
			r.Group(func(r chi.Router) {
				r.Use(authenticate, adminOnly)
				r.Get("/", contactlist.New(logger, svc.contact).ServeHTTP)
				r.Patch("/{id}/read", markread.New(logger, svc.contact).ServeHTTP)
			})
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/{productId}", reviewlist.New(logger, svc.review).ServeHTTP)
			r.With(authenticate).Post("/", reviewcreate.New(logger, svc.review).ServeHTTP)
		})

		r.Route("/payments", func(r chi.Router) {
			r.With(authenticate).Post("/create-order", paymentcreate.New(logger, svc.payment).ServeHTTP)
			r.With(authenticate).Post("/verify", paymentverify.New(logger, svc.payment).ServeHTTP)
			r.Get("/status/{orderId}", paymentstatus.New(logger, svc.payment).ServeHTTP)
		})

		r.With(authenticate, adminOnly).Get("/admin/stats", stats.New(logger, svc.stats).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
