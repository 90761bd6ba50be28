package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"imageatelier/internal/http/handlers"
	"imageatelier/internal/infra"
	"imageatelier/internal/middleware"
)

// RouterOptions carries the transport-level configuration.
type RouterOptions struct {
	AllowedOrigins []string
	StaticDir      string // serves locally stored artifacts; empty disables it
	Logger         infra.Logger
}

// NewRouter builds the chi router with the service middleware stack.
func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.Logger(opts.Logger),
	)

	r.Get("/healthz", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/full_generate", app.FullGenerate)
		r.Post("/img2img_full_generate", app.Img2ImgFullGenerate)
		r.Post("/masked_full_generate", app.MaskedFullGenerate)

		r.Get("/history", app.HistoryList)

		r.Route("/users", func(r chi.Router) {
			r.Post("/", app.CreateUser)
			r.Get("/{user_id}", app.GetUser)
			r.Get("/{user_id}/images", app.UserImages)
		})
	})

	if opts.StaticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(opts.StaticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
