package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"vending-machine/config"
	pgStorage "vending-machine/internal/adapter/storage/postgres"
	redisStorage "vending-machine/internal/adapter/storage/redis"
	"vending-machine/internal/adapter/supply"
	"vending-machine/internal/core/domain"
	"vending-machine/internal/core/ports"
	"vending-machine/internal/service"
	"vending-machine/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	pin := flag.String("pin", "1234", "demo card pin")
	productID := flag.String("product", "cola", "product to vend")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("supply_driver", cfg.Supply.Driver).
		Int("max_stock_level", cfg.Machine.MaxStockLevel).
		Msg("Starting vending machine simulator")

	ctx := context.Background()

	// Select the account supplier
	var supplier ports.AccountSupplier
	switch cfg.Supply.Driver {
	case "postgres":
		pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
		}
		defer pool.Close()
		supplier = pgStorage.NewAccountRepo(pool)
	case "static":
		supplier = supply.NewStaticSupplier(supply.DefaultSeeds())
	default:
		log.Fatal().Str("driver", cfg.Supply.Driver).Msg("Unknown supply driver")
	}

	// PIN attempt lockout is optional: without Redis the authenticator runs
	// uncounted.
	var attempts ports.PinAttemptStore
	if rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, pin lockout disabled")
	} else {
		defer rdb.Close()
		attempts = redisStorage.NewAttemptStore(rdb)
	}

	minVendBalance, err := decimal.NewFromString(cfg.Machine.MinVendBalance)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid min_vend_balance")
	}

	machine, err := service.NewVendingMachine(supplier, service.MachineOptions{
		MaxStockLines:  cfg.Machine.MaxStockLines,
		MaxStockLevel:  cfg.Machine.MaxStockLevel,
		MinVendBalance: minVendBalance,
		LockTimeout:    cfg.Machine.LockTimeout,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build vending machine")
	}

	// Stock the planogram
	planogram := cfg.Machine.Planogram
	if len(planogram) == 0 {
		planogram = []config.PlanogramItem{
			{ProductID: "cola", Name: "Cola", Price: "0.75", Stock: 10},
		}
	}
	for _, item := range planogram {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			log.Fatal().Err(err).Str("product_id", item.ProductID).Msg("Invalid planogram price")
		}
		product, err := domain.NewProduct(item.ProductID, item.Name, price)
		if err != nil {
			log.Fatal().Err(err).Str("product_id", item.ProductID).Msg("Invalid planogram product")
		}
		line, err := domain.NewStockLine(product, item.Stock)
		if err != nil {
			log.Fatal().Err(err).Str("product_id", item.ProductID).Msg("Invalid planogram stock")
		}
		if err := machine.Restock(ctx, line); err != nil {
			log.Fatal().Err(err).Str("product_id", item.ProductID).Msg("Failed to stock planogram line")
		}
	}

	// Resolve the account directory and mint a demo card for the first account
	manager, err := machine.Accounts(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve account directory")
	}

	accounts, err := supplier.ListAccounts(ctx)
	if err != nil || len(accounts) == 0 {
		log.Fatal().Err(err).Msg("No accounts available for the demo card")
	}
	accountID := accounts[0].Identifier()

	card, err := domain.NewVendingCard(accountID, manager)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to mint demo card")
	}
	if err := card.SetPin(ctx, *pin); err != nil {
		log.Fatal().Err(err).Msg("Failed to set demo card pin")
	}

	authenticator := service.NewCardAuthenticator(attempts, cfg.Auth.MaxPinAttempts, cfg.Auth.LockoutTTL, log)
	ok, err := authenticator.Authenticate(ctx, card, *pin)
	if err != nil {
		log.Fatal().Err(err).Msg("Card authentication failed")
	}
	if !ok {
		log.Fatal().Str("account_id", accountID).Msg("Card refused")
	}

	balance, err := machine.InsertCard(ctx, card)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to insert card")
	}
	log.Info().Str("account_id", accountID).Str("balance", balance.String()).Msg("Card inserted")

	result, err := machine.VendProduct(ctx, *productID, *pin)
	if err != nil {
		log.Fatal().Err(err).Msg("Vend failed")
	}
	if !result.Vended() {
		log.Warn().Str("code", string(result.Code)).Msg("Vend refused")
	} else {
		log.Info().
			Str("receipt_id", result.Receipt.ID.String()).
			Str("product", result.Receipt.ProductName).
			Str("unit_price", result.Receipt.UnitPrice.String()).
			Str("remaining_balance", result.Receipt.RemainingBalance.String()).
			Msg("Product vended")
	}

	if err := machine.EjectCard(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to eject card")
	}

	oos, err := machine.IsOutOfService(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to read machine state")
	}
	log.Info().Bool("out_of_service", oos).Msg("Simulation complete")
}
