package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/harentsoaR/clinic-cases/internal/handlers"
	"github.com/harentsoaR/clinic-cases/internal/middleware"
	"github.com/harentsoaR/clinic-cases/internal/views"
)

// New builds the engine with every page and form endpoint.
func New(h *handlers.Handler, corsOrigins []string) (*gin.Engine, error) {
	tmpl, err := views.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), middleware.Logger())

	if len(corsOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     corsOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.Use(h.Sessions.Load())

	r.GET("/", h.Home)
	r.GET("/questions", h.Questions)

	anonymous := middleware.AnonymousOnly()
	user := middleware.RequireUser()
	admin := middleware.RequireAdmin()

	userRoutes := r.Group("/users")
	{
		userRoutes.GET("", anonymous, h.LoginPage)
		userRoutes.GET("/signup", anonymous, h.SignupPage)
		userRoutes.POST("/signup", anonymous, h.RegisterUser)
		userRoutes.POST("/login", anonymous, h.Login)
		userRoutes.GET("/logout", h.Logout)

		userRoutes.GET("/profile", user, h.GetCurrentUser)
		userRoutes.GET("/update-profile", user, h.UpdateProfilePage)
		userRoutes.PUT("/profile", user, h.UpdateCurrentUser)
		userRoutes.GET("/password", user, h.ChangePasswordPage)
		userRoutes.PUT("/password", user, h.ChangePassword)
		userRoutes.GET("/options", user, h.Options)
	}

	caseRoutes := r.Group("/cases", user)
	{
		caseRoutes.GET("/addCase", h.Questions)
		caseRoutes.POST("/addCase", h.CreateCase)
		caseRoutes.GET("/myCases", h.GetMyCases)
		caseRoutes.GET("/:id", h.GetCase)
	}

	adminRoutes := r.Group("/admin")
	{
		adminRoutes.GET("", anonymous, h.AdminLoginPage)
		adminRoutes.POST("/login", anonymous, h.AdminLogin)
		adminRoutes.GET("/logout", h.AdminLogout)

		adminRoutes.GET("/cases", admin, h.GetAllCases)
		adminRoutes.GET("/case/:id", admin, h.AdminGetCase)
		adminRoutes.POST("/closeCase/:id", admin, h.CloseCase)
	}

	r.NoRoute(h.NotFound)

	return r, nil
}
