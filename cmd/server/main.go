package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"chat-auth/internal/config"
	"chat-auth/internal/controllers"
	"chat-auth/internal/db"
	"chat-auth/internal/mailer"
	"chat-auth/internal/middleware"
	"chat-auth/internal/redis"
	"chat-auth/internal/service"
	"chat-auth/internal/store"
	"chat-auth/internal/uploader"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET required")
	}

	dbConn := db.Init(cfg.DatabaseDSN)
	st := store.New(dbConn)

	var locks service.SendLocker
	if cfg.RedisAddr != "" {
		locks = redis.NewLocker(redis.Init(cfg.RedisAddr, cfg.RedisPassword))
	} else {
		log.Println("REDIS_ADDR not set, send locking disabled")
	}

	smtp := mailer.NewSMTPClient(cfg.SMTPHost, cfg.SMTPUser, cfg.SMTPPass, cfg.FromEmail)
	emails := mailer.NewEmails(smtp, cfg.ClientURL)
	uploads := uploader.NewLocal(cfg.UploadDir, cfg.UploadBaseURL)

	svc := service.New(st, emails, locks, uploads, []byte(cfg.JWTSecret), cfg.ClientURL)
	auth := controllers.NewAuthController(svc)

	r := gin.Default()

	api := r.Group("/auth")
	{
		api.POST("/signup", auth.SignUp)
		api.POST("/login", auth.Login)
		api.POST("/logout", auth.Logout)
		api.POST("/verify-email", auth.VerifyEmail)
		api.POST("/resend-verification", auth.ResendVerification)
		api.POST("/forgot-password", auth.ForgotPassword)
		api.POST("/resend-reset", auth.ForgotPassword)
		api.POST("/reset-password/:token", auth.ResetPassword)
	}

	protected := r.Group("/auth")
	protected.Use(middleware.RequireSession([]byte(cfg.JWTSecret), st))
	{
		protected.GET("/check", auth.Check)
		protected.PUT("/update-profile", auth.UpdateProfile)
	}

	r.Static("/uploads", cfg.UploadDir)

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}
