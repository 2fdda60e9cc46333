package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taskboard/api/internal/adapters/gateway"
	"github.com/taskboard/api/internal/adapters/repository"
	"github.com/taskboard/api/internal/application/services"
	"github.com/taskboard/api/internal/domain/entities"
	"github.com/taskboard/api/internal/infrastructure/config"
	"github.com/taskboard/api/internal/infrastructure/database"
	"github.com/taskboard/api/internal/infrastructure/logger"
	"github.com/taskboard/api/internal/infrastructure/server"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Taskboard API server",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewUserCommand creates the user management command. The API's user-creation
// route is itself auth-gated, so the first user has to be created here.
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		Run: func(cmd *cobra.Command, args []string) {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")
			name, _ := cmd.Flags().GetString("name")
			createUser(email, password, name)
		},
	}
	createCmd.Flags().String("email", "", "Email address (required)")
	createCmd.Flags().String("password", "", "Password (required)")
	createCmd.Flags().String("name", "", "Display name")
	createCmd.MarkFlagRequired("email")
	createCmd.MarkFlagRequired("password")

	userCmd.AddCommand(createCmd)
	return userCmd
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Mongo)
	if err != nil {
		appLogger.Fatalw("Failed to connect to document store", "error", err)
	}

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)

	authService := services.NewAuthService(cfg.JWT, appLogger)

	taskHandler := gateway.NewTaskHandler(taskRepo, authService, appLogger)
	userHandler := gateway.NewUserHandler(userRepo, authService, appLogger)
	router := gateway.NewRouter(taskHandler, userHandler, cfg.CORS, appLogger)

	srv := server.New(cfg, db, router, appLogger)

	go func() {
		appLogger.Infow("Starting server", "addr", cfg.Server.Addr())
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatalw("Server stopped unexpectedly", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Errorw("Server shutdown failed", "error", err)
	}
	if err := db.Close(ctx); err != nil {
		appLogger.Errorw("Document store disconnect failed", "error", err)
	}
}

func createUser(email, password, name string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Close()

	db, err := database.New(cfg.Mongo)
	if err != nil {
		appLogger.Fatalw("Failed to connect to document store", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	defer db.Close(ctx)

	authService := services.NewAuthService(cfg.JWT, appLogger)
	hashed, err := authService.HashPassword(password)
	if err != nil {
		appLogger.Fatalw("Failed to hash password", "error", err)
	}

	now := entities.Timestamp(time.Now())
	user := entities.User{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	userRepo := repository.NewUserRepository(db)
	if err := userRepo.Insert(ctx, user); err != nil {
		appLogger.Fatalw("Failed to create user", "error", err)
	}

	fmt.Printf("User created: %s (%s)\n", user.ID, user.Email)
}
