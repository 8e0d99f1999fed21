package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/aietlabs/faceattend/config"
	"github.com/aietlabs/faceattend/handlers"
	"github.com/aietlabs/faceattend/middlewares"
	"github.com/aietlabs/faceattend/vision"
)

// Register wires all HTTP routes.
func Register(e *echo.Echo, cfg *config.Config, engine *vision.Engine) {
	// ===== Handlers (shared singletons) =====
	auth := handlers.NewAuthHandler(cfg.JWTSecret)
	std := handlers.NewStudentHandler(engine)
	sub := handlers.NewSubjectHandler()
	acc := handlers.NewFacultyAccountHandler()
	face := handlers.NewFaceHandler(engine)
	att := handlers.NewAttendanceHandler()
	rec := handlers.NewRecognizeHandler(engine, cfg)
	dash := handlers.NewDashboardHandler()
	rep := handlers.NewReportHandler()
	set := handlers.NewSettingsHandler()
	ntf := handlers.NewNotificationHandler(cfg)

	// ===== Public =====
	e.GET("/health", handlers.Health)
	e.POST("/auth/login", auth.Login)

	authMW := middlewares.RequireAuth(cfg.JWTSecret)

	// ===== Admin routes =====
	admin := e.Group("/admin", authMW, middlewares.RequireRole("admin"))

	admin.GET("/faculty", acc.List)
	admin.POST("/faculty", acc.Create)
	admin.POST("/faculty/:id/reset", acc.ResetPassword)
	admin.DELETE("/faculty/:id", acc.Delete)

	admin.GET("/students", std.List)
	admin.POST("/students", std.Create)
	admin.PUT("/students/:id", std.Update)
	admin.DELETE("/students/:id", std.Delete)

	admin.GET("/subjects", sub.List)
	admin.POST("/subjects", sub.Create)
	admin.PUT("/subjects/:id", sub.Update)
	admin.DELETE("/subjects/:id", sub.Delete)

	admin.GET("/settings", set.List)
	admin.PUT("/settings", set.Update)

	// ===== Faculty routes =====
	faculty := e.Group("/faculty", authMW, middlewares.RequireRole("faculty", "admin"))

	faculty.GET("/students", std.List)
	faculty.GET("/students/:id", std.Get)
	faculty.GET("/subjects", sub.List)

	// face enrollment
	faculty.GET("/students/:id/faces", face.List)
	faculty.POST("/students/:id/faces", face.Enroll)
	faculty.DELETE("/students/:id/faces", face.Remove)

	// attendance
	faculty.GET("/attendance", att.List)
	faculty.POST("/attendance/mark", att.Mark)
	faculty.POST("/attendance/recognize", rec.Recognize)

	// dashboard / reports / notifications
	faculty.GET("/dashboard/daily", dash.Daily)
	faculty.GET("/reports/attendance", rep.Attendance)
	faculty.POST("/notifications/sync", ntf.Sync)
}
