package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/novortex/wallet-backoffice/config"
	"github.com/novortex/wallet-backoffice/internal/transport/http/middleware"
)

func NewRouter(cfg *config.Config, controller *Controller) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", controller.CreateCustomer)
			r.Get("/", controller.GetCustomers)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Post("/", controller.CreateWallet)
			r.Get("/{walletID}", controller.GetWallet)
			r.Get("/{walletID}/assets", controller.GetWalletAssets)
			r.Post("/{walletID}/rebalance/sessions", controller.CreateRebalanceSession)
		})

		r.Route("/base-wallets", func(r chi.Router) {
			r.Post("/", controller.CreateBaseWallet)
			r.Get("/", controller.GetBaseWallets)
			r.Get("/{baseWalletID}", controller.GetBaseWallet)
			r.Put("/{baseWalletID}/targets", controller.SetBaseWalletTargets)
			r.Patch("/{baseWalletID}/targets/{assetUUID}", controller.EditBaseWalletTargetAllocation)
			r.Post("/{baseWalletID}/standardize/preview", controller.PreviewStandardization)
			r.Post("/{baseWalletID}/standardize/apply", controller.ApplyStandardization)
		})

		r.Route("/rebalance/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", controller.GetRebalanceSession)
			r.Patch("/items/{assetName}/amount", controller.EditSessionAmount)
			r.Post("/items/{assetName}/toggle", controller.ToggleSessionItem)
			r.Post("/reset", controller.ResetSession)
			r.Post("/confirm", controller.ConfirmRebalanceSession)
			r.Delete("/", controller.CancelSession)
		})

		r.Route("/monitoring", func(r chi.Router) {
			r.Get("/closings", controller.GetWalletClosings)
			r.Get("/managers", controller.GetManagerPerformance)
			r.Get("/overdue", controller.GetOverdueWallets)
		})

		r.Post("/reports/cashflow", controller.GenerateCashflowReport)
	})

	return r
}
