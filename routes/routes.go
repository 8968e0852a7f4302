package routes

import (
	"parkly/auth"
	"parkly/bookings"
	"parkly/chatbot"
	"parkly/employees"
	"parkly/middleware"
	"parkly/notifications"
	"parkly/ratelim"
	"parkly/reports"
	"parkly/slots"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/login", rl.Limit(auth.Login))
	router.POST("/api/auth/register", rl.Limit(auth.Register))
	router.POST("/api/auth/logout", middleware.Authenticate(auth.Logout))
	router.POST("/api/auth/refresh", middleware.Authenticate(auth.RefreshToken))
}

func AddSlotRoutes(router *httprouter.Router) {
	router.GET("/api/buildings", slots.GetBuildings)
	router.GET("/api/slots", middleware.Authenticate(slots.GetAllSlots))
	router.GET("/api/slots/stats", slots.GetStats)
	router.GET("/api/slots/levels", slots.GetLevels)
	router.GET("/api/slots/directory", middleware.Authenticate(slots.GetDirectory))
	router.POST("/api/slots/refresh", middleware.Authenticate(slots.RefreshDirectory))
	router.GET("/api/slots/slot/:slotid", middleware.Authenticate(slots.GetSlot))
	router.PATCH("/api/slots/slot/:slotid", middleware.Authenticate(slots.UpdateSlot))
	router.GET("/ws/stats/:building", slots.HandleStatsWS)
}

func AddBookingRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/bookings", middleware.Authenticate(bookings.ListBookings))
	router.GET("/api/bookings/active", middleware.Authenticate(bookings.GetActiveBooking))
	router.POST("/api/bookings", rl.Limit(middleware.Authenticate(bookings.CreateBooking)))
	router.POST("/api/bookings/leave", rl.Limit(middleware.Authenticate(bookings.LeaveBooking)))
	router.GET("/api/bookings/pass", middleware.Authenticate(bookings.PrintPass))
	router.GET("/api/pass/verify", bookings.VerifyPass)
}

func AddEmployeeRoutes(router *httprouter.Router) {
	router.GET("/api/employees/me", middleware.Authenticate(employees.GetMe))
	router.GET("/api/employees/vehicles", middleware.Authenticate(employees.GetVehicles))
	router.POST("/api/employees/vehicles", middleware.Authenticate(employees.CreateVehicle))
	router.PUT("/api/employees/vehicles/:vehicleid/default", middleware.Authenticate(employees.MakeDefaultVehicle))
	router.POST("/api/employees/vehicles/:vehicleid/photo", middleware.Authenticate(employees.UploadVehiclePhoto))
}

func AddNotificationRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.GET("/api/notifications", middleware.Authenticate(notifications.ListNotifications))
	router.POST("/api/notifications", rl.Limit(notifications.CreateNotification))
	router.PATCH("/api/notifications/:notifid/read", middleware.Authenticate(notifications.MarkRead))
	router.POST("/api/notifications/read-all", middleware.Authenticate(notifications.MarkAllRead))
	router.GET("/ws/notifications/:building", notifications.HandleFeedWS)
}

func AddChatbotRoutes(router *httprouter.Router, rl *ratelim.RateLimiter) {
	router.POST("/api/chatbot/message", rl.Limit(middleware.Authenticate(chatbot.PostMessage)))
	router.GET("/api/chatbot/session", middleware.Authenticate(chatbot.GetSession))
	router.DELETE("/api/chatbot/session", middleware.Authenticate(chatbot.ResetSessionHandler))
}

func AddReportRoutes(router *httprouter.Router) {
	router.GET("/api/reports/usage", middleware.Authenticate(reports.GetUsageReport))
	router.GET("/api/reports/usage/pdf", middleware.Authenticate(reports.GetUsageReportPDF))
}
