package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"awsprep-assessment-service/internal/app"
	"awsprep-assessment-service/internal/config"
	"awsprep-assessment-service/internal/infra/memory"
	pgloader "awsprep-assessment-service/internal/infra/postgres"
	infraredis "awsprep-assessment-service/internal/infra/redis"
	"awsprep-assessment-service/internal/rewards"
	transport "awsprep-assessment-service/internal/transport/http"
)

// Default simulation addresses; the deployer hands token ownership to the
// rewards contract so only it can mint.
const (
	defaultDeployerAddress = "0x00000000000000000000000000000000000d3a1e"
	defaultContractAddress = "0x0000000000000000000000000000000c1a1b0a7d"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the assessment service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}
	sessionTTL := config.TTLDuration(cfg.Assessment.SessionTTL, 2*time.Hour)
	corpusTTL := config.TTLDuration(cfg.Corpus.TTL, 10*time.Minute)
	ledgerTTL := config.TTLDuration(cfg.Rewards.LedgerTTL, 48*time.Hour)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	corpusPath := cfg.Corpus.Path
	if corpusPath == "" {
		corpusPath = "data/questions.json"
	}
	var loader memory.CorpusLoader = memory.NewFileCorpusLoader(corpusPath)
	if pool != nil {
		loader = pgloader.NewCorpusLoader(pool)
	}

	var corpusRepo app.CorpusRepository
	if redisClient != nil {
		corpusRepo = infraredis.NewCorpusRepository(redisClient, loader, corpusTTL)
	} else {
		corpusRepo = memory.NewCorpusRepository(loader, corpusTTL)
	}

	var sessions app.SessionRepository
	if redisClient != nil {
		sessions = infraredis.NewSessionStore(redisClient, sessionTTL)
	} else {
		sessions = memory.NewSessionStore()
	}

	var ledger rewards.ClaimLedger
	if redisClient != nil {
		ledger = infraredis.NewClaimLedger(redisClient, ledgerTTL)
	} else {
		ledger = memory.NewClaimLedger()
	}

	deployer := cfg.Rewards.DeployerAddress
	if deployer == "" {
		deployer = defaultDeployerAddress
	}
	contractAddr := cfg.Rewards.ContractAddress
	if contractAddr == "" {
		contractAddr = defaultContractAddress
	}
	token := rewards.NewToken("AWS Practice Reward", "AWSP", deployer)
	contract := rewards.NewContract(contractAddr, token, ledger)
	if err := token.TransferOwnership(deployer, contractAddr); err != nil {
		return err
	}

	var opts []app.AssessmentOption
	if cfg.Assessment.QuestionCount > 0 {
		opts = append(opts, app.WithSetSize(cfg.Assessment.QuestionCount))
	}
	assessments := app.NewAssessmentService(corpusRepo, sessions, opts...)
	claims := app.NewClaimService(rewards.NewAdvisoryOracle(ledger))

	handler := transport.NewHandler(assessments, claims, contract)
	wsHandler := transport.NewWSHandler(contract)

	mux := http.NewServeMux()
	handler.Register(mux)
	mux.HandleFunc("/ws/rewards", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info().Str("port", finalPort).Msg("starting assessment service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info().Msg("shutting down server...")
	case <-ctx.Done():
		log.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
