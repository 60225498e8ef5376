package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xavierca1/ligue-outreach/internal/infra/database"
	"github.com/xavierca1/ligue-outreach/internal/infra/http/handlers"
	appmiddleware "github.com/xavierca1/ligue-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-outreach/internal/infra/integration/enrich"
	"github.com/xavierca1/ligue-outreach/internal/infra/integration/linkedin"
	"github.com/xavierca1/ligue-outreach/internal/infra/mail"
	"github.com/xavierca1/ligue-outreach/internal/infra/queue"
	"github.com/xavierca1/ligue-outreach/internal/infra/worker"
	"github.com/xavierca1/ligue-outreach/internal/usecase"
)

func main() {
	godotenv.Load()

	db, err := database.NewDBConnection(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	rabbitMQ, err := queue.NewRabbitMQ(
		os.Getenv("RABBITMQ_USER"), os.Getenv("RABBITMQ_PASS"),
		os.Getenv("RABBITMQ_HOST"), os.Getenv("RABBITMQ_PORT"),
	)
	if err != nil {
		panic(err)
	}
	defer rabbitMQ.Conn.Close()
	defer rabbitMQ.Ch.Close()

	// 1. Repositórios
	leadRepo := database.NewLeadRepository(db)
	contactRepo := database.NewContactRepository(db)
	sequenceRepo := database.NewSequenceRepository(db)
	enrollmentRepo := database.NewEnrollmentRepository(db)

	// 2. Clients e Adapters
	mailPort, _ := strconv.Atoi(os.Getenv("MAIL_PORT"))
	if mailPort == 0 {
		mailPort = 587
	}
	mailSender := mail.NewEmailSender(
		os.Getenv("MAIL_HOST"), mailPort, os.Getenv("MAIL_USER"), os.Getenv("MAIL_PASS"),
		os.Getenv("MAIL_FROM"),
	)
	linkedinClient := linkedin.NewClient()
	enrichClient := enrich.NewClient(os.Getenv("ENRICH_API_KEY"), os.Getenv("ENRICH_API_URL"))
	producer := queue.NewProducer(rabbitMQ.Conn, rabbitMQ.Ch)

	// 3. Worker de canal (consome a fila e envia email/linkedin)
	channelWorker := queue.NewWorker(rabbitMQ.Ch, mailSender, linkedinClient)
	go channelWorker.Start(queue.QueueName)

	// 4. UseCases
	enrollUC := usecase.NewEnrollLeadsUseCase(sequenceRepo, leadRepo, enrollmentRepo)
	advanceUC := usecase.NewAdvanceStepUseCase(sequenceRepo, leadRepo, enrollmentRepo, producer)
	enrichUC := usecase.NewEnrichLeadUseCase(leadRepo, enrichClient)

	// 5. Worker de cadência (varre enrollments vencidos)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cadenceWorker := worker.NewCadenceWorker(advanceUC)
	go cadenceWorker.Start(ctx)

	// 6. Handlers
	sequenceHandler := handlers.NewSequenceHandler(sequenceRepo, enrollUC)
	leadHandler := handlers.NewLeadHandler(leadRepo, contactRepo, enrichUC)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentRepo, advanceUC)
	webhookHandler := handlers.NewWebhookHandler(advanceUC)
	healthHandler := handlers.NewHealthHandler(db, rabbitMQ.Conn)

	// 7. Router
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(appmiddleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"http://localhost:5173", "*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
	}))

	r.Get("/sequences", sequenceHandler.HandleList)
	r.Post("/sequences", sequenceHandler.HandleCreate)
	r.Put("/sequences", sequenceHandler.HandleEnroll)

	r.Post("/leads", leadHandler.CaptureLead)
	r.Post("/leads/{leadId}/enrich", leadHandler.Enrich)

	r.Get("/enrollments/{leadId}", enrollmentHandler.HandleGetByLead)
	r.Post("/enrollments/{enrollmentId}/pause", enrollmentHandler.HandlePause)
	r.Post("/enrollments/{enrollmentId}/resume", enrollmentHandler.HandleResume)

	r.Post("/webhooks/email", webhookHandler.Handle)

	r.Get("/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	port := ":8080"
	log.Printf("🔥 Server Outreach rodando na porta %s", port)
	http.ListenAndServe(port, r)
}
