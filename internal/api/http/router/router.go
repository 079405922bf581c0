package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/chirp-server/internal/api/http/handler"
	"github.com/dtroode/chirp-server/internal/api/http/middleware"
	"github.com/dtroode/chirp-server/internal/logger"
	"github.com/dtroode/chirp-server/internal/metrics"
	"github.com/dtroode/chirp-server/internal/model"
)

// Services groups the flows the router exposes.
type Services struct {
	Auth          handler.AuthService
	Verification  handler.VerificationService
	Account       handler.AccountService
	Relationship  handler.RelationshipService
	Post          handler.PostService
	Bookmark      handler.BookmarkService
	Tokens        middleware.TokenVerifier
	StatusGate    middleware.StatusGate
	RateLimiter   *middleware.RateLimiter
	Metrics       metrics.Recorder
	MetricsHandle http.Handler
}

// Router represents the HTTP router of the public API.
type Router struct {
	services       Services
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new Router instance.
func New(services Services, contextManager model.ContextManager, logger *logger.Logger) *Router {
	if services.Metrics == nil {
		services.Metrics = metrics.Nop{}
	}
	return &Router{
		services:       services,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the handler tree with request logging, recovery and
// authentication wired per route.
func (r *Router) Register() http.Handler {
	mux := chi.NewRouter()

	logging := middleware.NewLogging(r.logger, r.services.Metrics)
	mux.Use(chimw.RequestID, chimw.RealIP, logging.Handle, chimw.Recoverer)

	authenticate := middleware.NewAuthenticate(r.services.Tokens, r.contextManager, r.logger)
	verified := authenticate.RequireVerified(r.services.StatusGate)
	softVerified := authenticate.SoftRequireVerified(r.services.StatusGate)
	bodyRefresh := authenticate.BodyToken(model.TokenKindRefresh, "refresh_token")

	limited := func(h http.Handler) http.Handler { return h }
	if r.services.RateLimiter != nil {
		limited = r.services.RateLimiter.Handle
	}

	authHandler := handler.NewAuth(r.services.Auth, r.contextManager, r.logger)
	verificationHandler := handler.NewVerification(r.services.Verification, r.contextManager, r.logger)
	accountHandler := handler.NewAccount(r.services.Account, r.services.Relationship, r.contextManager, r.logger)
	postHandler := handler.NewPost(r.services.Post, r.contextManager, r.logger)
	bookmarkHandler := handler.NewBookmark(r.services.Bookmark, r.contextManager, r.logger)

	mux.Route("/users", func(u chi.Router) {
		u.Group(func(g chi.Router) {
			g.Use(limited)
			g.Post("/register", authHandler.Register)
			g.Post("/login", authHandler.Login)
			g.Post("/forgot-password", verificationHandler.ForgotPassword)
			g.Post("/verify-forgot-password", verificationHandler.VerifyForgotPassword)
			g.Post("/reset-password", verificationHandler.ResetPassword)
		})

		u.With(bodyRefresh).Post("/refresh-token", authHandler.RefreshToken)
		u.Post("/verify-email", verificationHandler.VerifyEmail)
		u.Get("/oauth/google", authHandler.OAuthGoogle)

		u.Group(func(g chi.Router) {
			g.Use(authenticate.Handle)
			g.With(bodyRefresh).Post("/logout", authHandler.Logout)
			g.Post("/resend-verify-email", verificationHandler.ResendVerifyEmail)
			g.Get("/me", accountHandler.GetMe)

			g.Group(func(v chi.Router) {
				v.Use(verified)
				v.Patch("/me", accountHandler.UpdateMe)
				v.Post("/follow", accountHandler.Follow)
				v.Delete("/follow/{user_id}", accountHandler.Unfollow)
				v.Post("/circle", accountHandler.AddToCircle)
				v.Delete("/circle/{user_id}", accountHandler.RemoveFromCircle)
			})
		})
	})

	mux.Route("/posts", func(p chi.Router) {
		p.With(authenticate.Handle, verified).Post("/", postHandler.Create)
		p.Group(func(g chi.Router) {
			g.Use(authenticate.Soft, softVerified)
			g.Get("/{post_id}", postHandler.Get)
			g.Get("/{post_id}/children", postHandler.Children)
		})
	})

	mux.Route("/bookmarks", func(b chi.Router) {
		b.Use(authenticate.Handle, verified)
		b.Post("/", bookmarkHandler.Create)
		b.Delete("/posts/{post_id}", bookmarkHandler.Delete)
	})

	if r.services.MetricsHandle != nil {
		mux.Method(http.MethodGet, "/metrics", r.services.MetricsHandle)
	}

	return mux
}
