package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"donation-hub.backend/internal/interfaces/http/handlers"
	"donation-hub.backend/internal/interfaces/http/middleware"
	"donation-hub.backend/pkg/redis"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	donationHandler *handlers.DonationHandler
	adminHandler    *handlers.AdminHandler
	authMiddleware  gin.HandlerFunc
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, Idempotency-Key")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/healthz", healthHandler)
	r.GET("/health", healthHandler)
}

// healthHandler reports overall liveness plus the redis connection state.
// A down redis is reported but does not fail the check, matching the
// idempotency middleware's pass-through behavior.
func healthHandler(c *gin.Context) {
	redisStatus := "down"
	if rc := redis.GetClient(); rc != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if rc.Ping(ctx).Err() == nil {
			redisStatus = "ok"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "donation-hub-backend",
		"version": "1.0.0",
		"redis":   redisStatus,
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/me", d.authMiddleware, d.authHandler.GetMe)
		}

		// Donation routes (protected)
		donations := v1.Group("/donations")
		donations.Use(d.authMiddleware)
		{
			donations.POST("/create-payment-intent", middleware.IdempotencyMiddleware(), d.donationHandler.CreatePaymentIntent)
			donations.POST("/confirm-payment", d.donationHandler.ConfirmPayment)
			donations.POST("/razorpay/create-order", middleware.IdempotencyMiddleware(), d.donationHandler.CreateRazorpayOrder)
			donations.POST("/razorpay/verify", d.donationHandler.VerifyRazorpayPayment)
			donations.POST("/razorpay/failure", d.donationHandler.ReportRazorpayFailure)
			donations.POST("/payhere/create-hash", middleware.IdempotencyMiddleware(), d.donationHandler.CreatePayHereHash)
			donations.POST("/payhere/confirm", d.donationHandler.ConfirmPayHere)
			donations.GET("/my-history", d.donationHandler.GetMyHistory)
		}

		// Admin routes (protected, admin only)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/stats", d.adminHandler.GetStats)
			admin.GET("/users", d.adminHandler.ListUsers)
			admin.DELETE("/users", d.adminHandler.ClearUsers)
			admin.GET("/donations", d.adminHandler.ListDonations)
			admin.DELETE("/donations", d.adminHandler.ClearDonations)
		}
	}
}
