package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"chat-simulator/internal/config"
	"chat-simulator/internal/db"
	"chat-simulator/internal/emitters"
	"chat-simulator/internal/handlers"
	"chat-simulator/internal/middleware"
	"chat-simulator/internal/observability"
	"chat-simulator/internal/rabbitmq"
	"chat-simulator/internal/store"
	"chat-simulator/internal/timeline"
	"chat-simulator/internal/transport"
	"chat-simulator/internal/ws"
)

const serviceName = "chat-simulator"

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer database.Close()

	shutdownTracing, err := observability.InitTracing(context.Background(), serviceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(ctx)
	}()

	publisher := rabbitmq.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
	defer publisher.Close()
	observability.SetPublisher(publisher)
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	kv := store.New(database)
	notifier := emitters.NewNotifier(publisher, kv, serviceName)
	audio := emitters.NewAudio(publisher, kv, serviceName)

	hub := ws.NewHub()
	mock := transport.NewMock()
	controller := timeline.New(mock, kv,
		timeline.WithNotifier(notifier),
		timeline.WithAudio(audio),
		timeline.WithOnChange(hub.BroadcastSnapshot),
	)
	defer controller.Close()

	// Resume the previous session if a name survived the last run.
	var savedName string
	if kv.ReadJSON(context.Background(), store.KeyUserName, &savedName) && savedName != "" {
		log.Printf("resuming session for %s", savedName)
		controller.SetIdentity(context.Background(), savedName)
	}

	sessionHandler := handlers.NewSessionHandler(controller)
	chatHandler := handlers.NewChatHandler(controller)
	prefsHandler := handlers.NewPreferencesHandler(kv)
	healthHandler := handlers.NewHealthHandler(database)
	snapshotWS := ws.NewSnapshotHandler(hub, controller)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	// middlewares
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/session", sessionHandler.GetSession)
	router.PUT("/session", sessionHandler.SetSession)
	router.DELETE("/session", sessionHandler.ClearSession)

	router.GET("/snapshot", chatHandler.GetSnapshot)
	router.POST("/messages", chatHandler.PostMessage)
	router.POST("/typing", chatHandler.PostTyping)
	router.POST("/focus", chatHandler.PostFocus)

	router.GET("/preferences", prefsHandler.GetPreferences)
	router.PUT("/preferences", prefsHandler.PutPreferences)

	router.GET("/ws", snapshotWS.Handle)

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterDebugRoutes(router, notifier, cfg.DebugRoutes)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
