package api

import (
	"context"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/goliatone/go-router"

	"github.com/goliatone/go-enroll/auth"
	"github.com/goliatone/go-enroll/middleware/jwtware"
)

// Server is the HTTP surface: go-router routes mounted on a fiber app
type Server struct {
	srv router.Server[*fiber.App]
	app *fiber.App
}

// NewServer builds the fiber app with the full route table
func NewServer(svc *Services) *Server {
	app := fiber.New(fiber.Config{
		AppName:               svc.Config.AppName,
		Immutable:             true,
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		IdleTimeout:           60 * time.Second,
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		ErrorHandler:          ErrorHandler(svc.Logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(corsConfig(svc.Config.CORSOrigin)))

	srv := router.NewFiberAdapter(func(_ *fiber.App) *fiber.App {
		return app
	})

	RegisterRoutes(srv.Router(), svc)

	return &Server{srv: srv, app: app}
}

// Serve listens on addr
func (s *Server) Serve(addr string) {
	s.srv.Serve(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

func corsConfig(origins []string) cors.Config {
	allow := strings.Join(origins, ",")
	if allow == "" {
		allow = "*"
	}
	return cors.Config{
		AllowOrigins:     allow,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
	}
}

// RegisterRoutes mounts every endpoint under /api. Each protected route
// declares its policy here.
func RegisterRoutes[T any](r router.Router[T], svc *Services) {
	render := RenderError(svc.Logger)

	guard := func(policy auth.Policy) router.MiddlewareFunc {
		return jwtware.New(jwtware.Config{
			Authorizer:   svc.Gate,
			Policy:       &policy,
			ErrorHandler: render,
		})
	}

	// handle renders handler errors through the same path as guard errors
	handle := func(h router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if err := h(ctx); err != nil {
				return render(ctx, err)
			}
			return nil
		}
	}

	authn := NewAuthController(svc)
	users := NewUsersController(svc)
	cat := NewCatalogController(svc)

	api := r.Group("/api")

	api.Get("/", handle(cat.Hello)).SetName("hello")
	api.Post("/status", handle(cat.CreateStatusCheck)).SetName("status.create")
	api.Get("/status", handle(cat.ListStatusChecks)).SetName("status.list")

	api.Post("/register", handle(authn.Register)).SetName("auth.register")
	api.Post("/login", handle(authn.Login)).SetName("auth.login")
	api.Post("/request-password-reset", handle(authn.RequestPasswordReset)).SetName("auth.reset.request")
	api.Post("/reset-password", handle(authn.ResetPassword)).SetName("auth.reset.finalize")
	api.Get("/me", handle(authn.Me), guard(auth.AuthenticatedPolicy())).SetName("auth.me")

	api.Get("/programs", handle(cat.ListPrograms)).SetName("programs.list")
	api.Get("/programs/:id", handle(cat.GetProgram)).SetName("programs.show")
	api.Get("/program-tabs", handle(cat.ListProgramTabs)).SetName("program_tabs.list")
	api.Get("/stat-tabs", handle(cat.ListStatTabs)).SetName("stat_tabs.list")
	api.Get("/content/:key", handle(cat.GetContent)).SetName("content.show")

	student := guard(auth.StudentPolicy())
	api.Post("/enrollments", handle(cat.RequestEnrollment), student).SetName("enrollments.request")
	api.Get("/enrollments/me", handle(cat.MyEnrollments), student).SetName("enrollments.mine")

	admin := api.Group("/admin")
	adminOnly := guard(auth.AdminPolicy())

	admin.Get("/users", handle(users.List), adminOnly).SetName("admin.users.list")
	admin.Post("/users/:id/approve", handle(users.Approve), adminOnly).SetName("admin.users.approve")
	admin.Post("/users/:id/reject", handle(users.Reject), adminOnly).SetName("admin.users.reject")

	admin.Get("/programs", handle(cat.ListAllPrograms), adminOnly).SetName("admin.programs.list")
	admin.Post("/programs", handle(cat.CreateProgram), adminOnly).SetName("admin.programs.create")
	admin.Put("/programs/:id", handle(cat.UpdateProgram), adminOnly).SetName("admin.programs.update")
	admin.Delete("/programs/:id", handle(cat.DeactivateProgram), adminOnly).SetName("admin.programs.deactivate")

	admin.Get("/enrollments", handle(cat.ListEnrollments), adminOnly).SetName("admin.enrollments.list")
	admin.Post("/enrollments/:id/approve", handle(cat.ApproveEnrollment), adminOnly).SetName("admin.enrollments.approve")
	admin.Post("/enrollments/:id/reject", handle(cat.RejectEnrollment), adminOnly).SetName("admin.enrollments.reject")

	admin.Get("/program-tabs", handle(cat.ListProgramTabs), adminOnly).SetName("admin.program_tabs.list")
	admin.Post("/program-tabs", handle(cat.CreateProgramTab), adminOnly).SetName("admin.program_tabs.create")
	admin.Put("/program-tabs/:id", handle(cat.UpdateProgramTab), adminOnly).SetName("admin.program_tabs.update")
	admin.Delete("/program-tabs/:id", handle(cat.DeleteProgramTab), adminOnly).SetName("admin.program_tabs.delete")

	admin.Get("/stat-tabs", handle(cat.ListStatTabs), adminOnly).SetName("admin.stat_tabs.list")
	admin.Post("/stat-tabs", handle(cat.CreateStatTab), adminOnly).SetName("admin.stat_tabs.create")
	admin.Put("/stat-tabs/:id", handle(cat.UpdateStatTab), adminOnly).SetName("admin.stat_tabs.update")
	admin.Delete("/stat-tabs/:id", handle(cat.DeleteStatTab), adminOnly).SetName("admin.stat_tabs.delete")

	admin.Get("/content", handle(cat.ListContent), adminOnly).SetName("admin.content.list")
	admin.Put("/content/:key", handle(cat.PutContent), adminOnly).SetName("admin.content.put")
	admin.Delete("/content/:key", handle(cat.DeleteContent), adminOnly).SetName("admin.content.delete")
}
