package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/teuprojeto/flowrev/internal/cli"
	"github.com/teuprojeto/flowrev/internal/db"
	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/policy"
	"github.com/teuprojeto/flowrev/internal/repository"
	"github.com/teuprojeto/flowrev/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.flowrev/flowrev.db
	dbPath := os.Getenv("FLOWREV_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".flowrev", "flowrev.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	productRepo := repository.NewSQLiteProductRepo(database)
	typeRepo := repository.NewSQLiteInsumoTypeRepo(database)
	editionRepo := repository.NewSQLiteEditionRepo(database)
	insumoRepo := repository.NewSQLiteInsumoRepo(database)
	userRepo := repository.NewSQLiteUserRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	// Resolve the signed-in user before building services: the insumo
	// service stamps submissions and reviews with the actor's id.
	users := service.NewUserService(userRepo)
	var actor *domain.User
	if email := os.Getenv("FLOWREV_USER"); email != "" {
		actor, err = users.GetByEmail(context.Background(), email)
		if err != nil {
			return fmt.Errorf("resolving FLOWREV_USER %q: %w", email, err)
		}
	}

	var insumoOpts []service.InsumoServiceOption
	if actor != nil {
		insumoOpts = append(insumoOpts, service.WithActor(actor.ID))
	}
	if os.Getenv("FLOWREV_LOG_USECASES") != "" {
		insumoOpts = append(insumoOpts, service.WithObserver(service.NewLogUseCaseObserver(os.Stderr)))
	}

	// Phase calendar: env var path or the built-in production thresholds.
	phases, err := domain.LoadPhaseCalendar(os.Getenv("FLOWREV_PHASES"))
	if err != nil {
		return fmt.Errorf("loading phase calendar: %w", err)
	}
	for _, w := range phases.Overlaps() {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	app := &cli.App{
		Products:  service.NewProductService(productRepo),
		Types:     service.NewInsumoTypeService(typeRepo),
		Editions:  service.NewEditionService(editionRepo, insumoRepo, typeRepo, uow),
		Insumos:   service.NewInsumoService(insumoRepo, uow, insumoOpts...),
		Users:     users,
		Dashboard: service.NewDashboardService(editionRepo, insumoRepo),
		Import:    service.NewImportService(uow),

		Actor:         actor,
		Policy:        policy.DefaultConfig(),
		PhaseCalendar: phases,
	}

	// Detect interactive terminal for the board and calendar entrypoints.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
