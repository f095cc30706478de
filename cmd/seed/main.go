package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appaccount "github.com/painless/shop/internal/application/account"
	"github.com/painless/shop/internal/infrastructure/config"
	"github.com/painless/shop/internal/infrastructure/event"
	"github.com/painless/shop/internal/infrastructure/logger"
	"github.com/painless/shop/internal/infrastructure/persistence"
)

func main() {
	var (
		logLevel string
		seed     uint64
	)
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Uint64Var(&seed, "seed", 0, "Random seed for fake data (0 picks a random one)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()
	if cfg.Database.Driver == "sqlite" {
		if err := db.AutoMigrate(); err != nil {
			log.Fatal("Failed to migrate sqlite database", zap.Error(err))
		}
	}

	users := persistence.NewGormUserRepository(db.DB)
	profiles := persistence.NewGormProfileRepository(db.DB)

	// The demo user gets its profile the same way registered users do.
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(appaccount.NewProfileSync(profiles, log))
	manager := appaccount.NewUserManager(users, bus, log)
	generator := appaccount.NewGenerator(manager, users, profiles, seed, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch command {
	case "demo-user":
		if _, err := generator.CreateDemoUser(ctx, cfg.Seed); err != nil {
			if errors.Is(err, appaccount.ErrPhoneNumberTaken) {
				log.Error("Demo user already exists", zap.String("phone_number", cfg.Seed.BaseUserPhoneNumber))
				os.Exit(1)
			}
			log.Fatal("Failed to create demo user", zap.Error(err))
		}
		fmt.Println("Demo user created successfully.")

	case "users":
		fs := flag.NewFlagSet("users", flag.ExitOnError)
		total := fs.Int("total", 0, "Number of users to create")
		batch := fs.Int("batch", appaccount.DefaultGeneratorBatchSize, "Progress is reported every batch users")
		_ = fs.Parse(args[1:])
		if *total <= 0 {
			log.Fatal("Total required. Usage: seed users --total <n> [--batch <n>]")
		}
		created, err := generator.CreateFakeUsers(ctx, *total, *batch)
		if err != nil {
			log.Fatal("Failed to create fake users", zap.Int("created", created), zap.Error(err))
		}
		fmt.Printf("%d users created successfully.\n", created)

	case "profiles":
		fs := flag.NewFlagSet("profiles", flag.ExitOnError)
		batch := fs.Int("batch", appaccount.DefaultGeneratorBatchSize, "Users loaded per round")
		_ = fs.Parse(args[1:])
		created, err := generator.CreateFakeProfiles(ctx, *batch)
		if err != nil {
			log.Fatal("Failed to create fake profiles", zap.Int("created", created), zap.Error(err))
		}
		fmt.Printf("%d profiles created successfully.\n", created)

	default:
		log.Error("Unknown command", zap.String("command", command))
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Painless shop demo data

Usage:
  seed [flags] <command> [arguments]

Commands:
  demo-user                        Create the superuser from seed.base_user_phone_number
  users --total <n> [--batch <n>]  Create n fake customers
  profiles [--batch <n>]           Create a fake profile for every user without one

Flags:
  -seed uint            Random seed for fake data (default: random)
  -log-level string     Log level: debug, info, warn, error (default: info)

Environment Variables:
  SHOP_SEED_BASE_USER_PHONE_NUMBER, SHOP_SEED_BASE_PASSWORD`)
}
