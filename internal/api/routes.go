// internal/api/routes.go
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Routes configura e retorna o roteador Chi
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middlewares globais
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)

	// CORS: permite que o frontend (página /f/{code}) chame este backend
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{h.clientURL},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300, // Tempo de cache da preflight
	}))

	// Rotas da API V1
	r.Route("/v1", func(r chi.Router) {
		// Todo o core de links é público: a proteção é por senha do
		// arquivo, não por sessão de usuário.
		r.Get("/files/resolveShareLink/{code}", h.handleResolveShareLink)
		r.Post("/files/verifyFilePassword", h.handleVerifyFilePassword)
		r.Post("/files/download/{fileId}", h.handleDownloadFile)

		// Contrato do colaborador de upload
		r.Post("/files", h.handleCreateFile)
	})

	return r
}
