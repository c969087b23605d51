package app

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"proposal-management-api/internal/controller"
	"proposal-management-api/internal/repo"
	"proposal-management-api/internal/service"
	"proposal-management-api/pkg/http_server"
	"proposal-management-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
)

const (
	backendMemory   = "memory"
	backendPostgres = "postgres"

	migrationsSource = "file://migrations"
)

func runMigrations(postgresDB *postgres.Postgres, databaseName string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{DatabaseName: databaseName})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance(migrationsSource, databaseName, driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func buildRepositories() (*repo.Repositories, func() error) {
	backend := os.Getenv("REPOSITORY_BACKEND")
	if backend == "" {
		backend = backendPostgres
	}

	if backend == backendMemory {
		log.Println("Using in-memory repositories...")

		return repo.NewMemoryRepositories(), func() error { return nil }
	}

	url := os.Getenv("POSTGRES_CONN")
	databaseName := os.Getenv("POSTGRES_DATABASE")

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(url)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}

	log.Println("Running migrations...")
	runMigrations(postgresDB, databaseName)

	return repo.NewRepositories(postgresDB), postgresDB.Close
}

func Run() {
	serverAddress := os.Getenv("SERVER_ADDRESS")
	if serverAddress == "" {
		serverAddress = ":8080"
	}

	repositories, closeRepositories := buildRepositories()
	defer func() {
		if err := closeRepositories(); err != nil {
			log.Println("Error closing repositories: ", err)
		}
	}()

	services := service.NewServices(repositories)
	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services)

	log.Println("Starting server...")
	httpServer := http_server.New(handler, serverAddress)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err := <-httpServer.Notify():
		log.Println("Server error: ", err)
	}

	log.Println("Shutting down...")
	if err := httpServer.Shutdown(); err != nil {
		log.Fatal("Shutdown error: ", err)
	}
	log.Println("Successful shutdown")
}
