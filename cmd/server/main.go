package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clearclaim/config"
	"clearclaim/internal/database"
	"clearclaim/internal/events"
	"clearclaim/internal/router"
	"clearclaim/internal/scheduler"
	"clearclaim/internal/service"
	"clearclaim/pkg/mailer"
	"clearclaim/pkg/texter"
)

func main() {
	cfg := config.Load()
	db, err := database.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	database.SeedAdmin(db, &cfg.Admin)

	var publisher events.Publisher
	if cfg.AMQP.URL != "" {
		publisher, err = events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			log.Fatalf("amqp: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("[events] no AMQP_URL set, event publishing disabled")
	}

	var email service.EmailSender
	if cfg.SMTP.Host != "" {
		email = mailer.NewSMTPMailer(&cfg.SMTP)
	} else {
		log.Println("[digest] no SMTP_HOST set, email digests disabled")
	}
	var sms service.SmsSender
	if cfg.SMS.GatewayURL != "" {
		sms = texter.NewHTTPTexter(&cfg.SMS)
	} else {
		log.Println("[digest] no SMS_GATEWAY_URL set, sms digests disabled")
	}

	engine, digestSvc := router.Setup(cfg, db, publisher, email, sms)

	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		log.Fatalf("digest timezone: %v", err)
	}
	sched := scheduler.New(digestSvc, cfg.Digest.Hour, cfg.Digest.Minute, loc)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		log.Printf("server listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server shutdown:", err)
	}
	log.Println("server stopped")
}
