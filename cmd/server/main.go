package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"babytrack/internal/config"
	"babytrack/internal/database"
	"babytrack/internal/handlers"
	"babytrack/internal/log"
	"babytrack/internal/repository"
	"babytrack/internal/security"
	"babytrack/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("failed to load configuration: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger := log.New(cfg.Environment)

	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	logger.Info().Str("type", cfg.DatabaseType).Msg("database connection established")

	applied, err := db.RunMigrations(cfg.MigrationsPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	if len(applied) > 0 {
		logger.Info().Strs("migrations", applied).Msg("applied migrations")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	babyRepo := repository.NewBabyRepository(db)
	permRepo := repository.NewPermissionRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	feedingRepo := repository.NewFeedingRepository(db)
	sleepRepo := repository.NewSleepRepository(db)
	diaperRepo := repository.NewDiaperRepository(db)
	growthRepo := repository.NewGrowthRepository(db)
	scheduleRepo := repository.NewScheduleRepository(db)
	contractionRepo := repository.NewContractionRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, cfg.SessionDuration)
	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize email service")
	}
	familyService := service.NewFamilyService(familyRepo, babyRepo, invitationRepo, emailService)
	permService := service.NewPermissionService(babyRepo, familyRepo, permRepo)
	feedingService := service.NewFeedingService(feedingRepo, permService)
	sleepService := service.NewSleepService(sleepRepo, permService)
	diaperService := service.NewDiaperService(diaperRepo, permService)
	growthService := service.NewGrowthService(growthRepo, permService)
	scheduleService := service.NewScheduleService(scheduleRepo, permService)
	contractionService := service.NewContractionService(contractionRepo, permService)
	statsService := service.NewStatisticsService(feedingRepo, sleepRepo, diaperRepo, growthRepo, contractionRepo, permService)

	csrf := security.NewCSRFGenerator(cfg.CSRFSecret)
	limiter := security.NewRateLimiter(10, time.Minute)

	oauthProviders := map[string]handlers.OAuthProvider{
		"google": {
			Name: "google",
			Config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				Scopes:       []string{"openid", "email"},
			},
		},
	}

	// Handlers
	mw := handlers.NewMiddleware(authService, csrf, limiter, logger)
	authHandler := handlers.NewAuthHandler(authService, csrf, oauthProviders, cfg.AppBaseURL, logger)
	familyHandler := handlers.NewFamilyHandler(familyService, logger)
	babyHandler := handlers.NewBabyHandler(familyService, permService, logger)
	permHandler := handlers.NewPermissionHandler(permService, logger)
	feedingHandler := handlers.NewFeedingHandler(feedingService, logger)
	sleepHandler := handlers.NewSleepHandler(sleepService, logger)
	diaperHandler := handlers.NewDiaperHandler(diaperService, logger)
	growthHandler := handlers.NewGrowthHandler(growthService, logger)
	scheduleHandler := handlers.NewScheduleHandler(scheduleService, logger)
	contractionHandler := handlers.NewContractionHandler(contractionService, logger)
	dashboardHandler := handlers.NewDashboardHandler(statsService, logger)

	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("POST /api/register", mw.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", mw.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("GET /auth/{provider}/start", authHandler.StartOAuth)
	mux.HandleFunc("GET /auth/{provider}/callback", authHandler.OAuthCallback)

	// protected registers an authenticated GET route; protectedWrite adds
	// CSRF validation for mutating methods.
	protected := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, mw.RequireAuth(h))
	}
	protectedWrite := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, mw.RequireAuth(mw.CSRFProtect(h)))
	}

	protected("GET /api/me", authHandler.Me)

	// Families and membership
	protectedWrite("POST /api/families", familyHandler.CreateFamily)
	protected("GET /api/families", familyHandler.ListFamilies)
	protected("GET /api/families/{familyID}", familyHandler.GetFamily)
	protectedWrite("DELETE /api/families/{familyID}", familyHandler.DeleteFamily)
	protectedWrite("POST /api/families/join", familyHandler.JoinFamily)
	protectedWrite("POST /api/families/{familyID}/invite-code", familyHandler.RegenerateInviteCode)
	protectedWrite("POST /api/families/{familyID}/invitations", familyHandler.InviteMember)
	protectedWrite("POST /api/invitations/{code}/redeem", familyHandler.RedeemInvitation)

	// Babies
	protectedWrite("POST /api/families/{familyID}/babies", babyHandler.CreateBaby)
	protected("GET /api/families/{familyID}/babies", babyHandler.ListBabies)
	protected("GET /api/babies/{babyID}", babyHandler.GetBaby)
	protectedWrite("PUT /api/babies/{babyID}", babyHandler.UpdateBaby)
	protectedWrite("DELETE /api/babies/{babyID}", babyHandler.DeleteBaby)
	protectedWrite("POST /api/babies/{babyID}/select", babyHandler.SelectBaby)

	// Per-member record permissions
	protected("GET /api/families/{familyID}/babies/{babyID}/permissions/{userID}", permHandler.GetMemberPermissions)
	protectedWrite("PUT /api/families/{familyID}/babies/{babyID}/permissions", permHandler.UpdateMemberPermissions)

	// Feedings
	protectedWrite("POST /api/babies/{babyID}/feedings", feedingHandler.CreateFeeding)
	protected("GET /api/babies/{babyID}/feedings", feedingHandler.ListFeedings)
	protectedWrite("PUT /api/babies/{babyID}/feedings/{recordID}", feedingHandler.UpdateFeeding)
	protectedWrite("DELETE /api/babies/{babyID}/feedings/{recordID}", feedingHandler.DeleteFeeding)

	// Sleeps
	protectedWrite("POST /api/babies/{babyID}/sleeps", sleepHandler.StartSleep)
	protectedWrite("POST /api/babies/{babyID}/sleeps/{recordID}/end", sleepHandler.EndSleep)
	protected("GET /api/babies/{babyID}/sleeps/ongoing", sleepHandler.GetOngoingSleep)
	protected("GET /api/babies/{babyID}/sleeps", sleepHandler.ListSleeps)
	protectedWrite("PUT /api/babies/{babyID}/sleeps/{recordID}", sleepHandler.UpdateSleep)
	protectedWrite("DELETE /api/babies/{babyID}/sleeps/{recordID}", sleepHandler.DeleteSleep)

	// Diapers
	protectedWrite("POST /api/babies/{babyID}/diapers", diaperHandler.CreateDiaper)
	protected("GET /api/babies/{babyID}/diapers", diaperHandler.ListDiapers)
	protectedWrite("PUT /api/babies/{babyID}/diapers/{recordID}", diaperHandler.UpdateDiaper)
	protectedWrite("DELETE /api/babies/{babyID}/diapers/{recordID}", diaperHandler.DeleteDiaper)

	// Growth measurements
	protectedWrite("POST /api/babies/{babyID}/growths", growthHandler.CreateGrowth)
	protected("GET /api/babies/{babyID}/growths", growthHandler.ListGrowths)
	protectedWrite("PUT /api/babies/{babyID}/growths/{recordID}", growthHandler.UpdateGrowth)
	protectedWrite("DELETE /api/babies/{babyID}/growths/{recordID}", growthHandler.DeleteGrowth)

	// Schedules
	protectedWrite("POST /api/babies/{babyID}/schedules", scheduleHandler.CreateSchedule)
	protected("GET /api/babies/{babyID}/schedules", scheduleHandler.ListSchedules)
	protectedWrite("PUT /api/babies/{babyID}/schedules/{recordID}", scheduleHandler.UpdateSchedule)
	protectedWrite("POST /api/babies/{babyID}/schedules/{recordID}/toggle", scheduleHandler.ToggleSchedule)
	protectedWrite("DELETE /api/babies/{babyID}/schedules/{recordID}", scheduleHandler.DeleteSchedule)

	// Contractions
	protectedWrite("POST /api/babies/{babyID}/contractions", contractionHandler.StartContraction)
	protectedWrite("POST /api/babies/{babyID}/contractions/{recordID}/end", contractionHandler.EndContraction)
	protected("GET /api/babies/{babyID}/contractions/ongoing", contractionHandler.GetOngoingContraction)
	protected("GET /api/babies/{babyID}/contractions", contractionHandler.ListContractions)
	protectedWrite("DELETE /api/babies/{babyID}/contractions/{recordID}", contractionHandler.DeleteContraction)

	// Dashboard statistics
	protected("GET /api/babies/{babyID}/statistics", dashboardHandler.GetBabyStatistics)

	handler := mw.Logging(mux)

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredSessions(authService, logger)

	go func() {
		logger.Info().Str("addr", addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}

// cleanupExpiredSessions periodically purges expired sessions so the
// sessions table does not grow without bound.
func cleanupExpiredSessions(authService *service.AuthService, logger zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := authService.CleanupExpiredSessions(); err != nil {
			logger.Error().Err(err).Msg("session cleanup failed")
		}
	}
}
