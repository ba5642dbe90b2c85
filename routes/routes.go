package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"library-management-backend/app"
	"library-management-backend/controllers"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)
	authCtl := controllers.NewAuthController(s)
	bookCtl := controllers.NewBookController(s)
	reqCtl := controllers.NewRequestController(s)
	userCtl := controllers.NewUserController(s)
	wsCtl := controllers.NewWSController(s)

	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	api := r.Group("/api")

	// public
	api.POST("/login", authCtl.Login)

	// logged-in members
	auth := api.Group("", authMW, seenMW)
	{
		auth.POST("/logout", authCtl.Logout)
		auth.GET("/whoami", authCtl.Whoami)

		auth.GET("/books", bookCtl.Search)
		auth.POST("/requests", reqCtl.Submit)

		auth.GET("/users/:id/requests", reqCtl.ListForUser)
		auth.GET("/users/:id/transactions", userCtl.Transactions)
		auth.GET("/users/:id/stats", userCtl.Stats)
	}

	// admin only
	admin := api.Group("/admin", authMW, adminMW)
	{
		admin.GET("/books", bookCtl.Search)
		admin.POST("/books", bookCtl.Create)
		admin.PUT("/books/:id", bookCtl.Update)
		admin.DELETE("/books/:id", bookCtl.Delete)

		admin.POST("/issue-book", bookCtl.Issue)
		admin.POST("/return-book", bookCtl.Return)

		admin.GET("/requests", reqCtl.ListAdmin)
		admin.POST("/requests/:id/approve", reqCtl.Approve)
		admin.POST("/requests/:id/reject", reqCtl.Reject)

		admin.GET("/transactions", userCtl.ListTransactions)

		admin.GET("/users", userCtl.List)
		admin.POST("/users", userCtl.Create)
		admin.PUT("/users/:id", userCtl.Update)
	}

	// notifications
	r.GET("/ws", authMW, wsCtl.Serve)
}
