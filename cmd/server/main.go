package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/checkers-backend/internal/config"
	"github.com/benbeisheim/checkers-backend/internal/controller"
	"github.com/benbeisheim/checkers-backend/internal/logging"
	"github.com/benbeisheim/checkers-backend/internal/middleware"
	"github.com/benbeisheim/checkers-backend/internal/model"
	"github.com/benbeisheim/checkers-backend/internal/service"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	logging.Configure("info", false)

	if err := config.LoadEnv(); err != nil {
		log.Warn().Err(err).Msg("Error loading .env file")
	}

	app := &cli.App{
		Name:   "checkers",
		Usage:  "Checkers against a minimax opponent",
		Flags:  config.Flags(),
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the game server",
				Flags:  config.Flags(),
				Action: serve,
			},
			{
				Name:  "selfplay",
				Usage: "Let the engine play itself and print the result",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "human-depth", Value: model.DifficultyEasy.MaxDepth(), Usage: "search depth for the human side"},
					&cli.IntFlag{Name: "computer-depth", Value: model.DifficultyMedium.MaxDepth(), Usage: "search depth for the computer side"},
					&cli.IntFlag{Name: "max-plies", Value: 200, Usage: "stop after this many plies"},
					&cli.StringFlag{Name: "first", Value: string(model.SideHuman), Usage: "side to move first: human or computer"},
					&cli.StringFlag{Name: "log-level", Value: "info", EnvVars: []string{"CHECKERS_LOG_LEVEL"}},
				},
				Action: selfplay,
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("exiting")
	}
}

func serve(cCtx *cli.Context) error {
	cfg, err := config.FromContext(cCtx)
	if err != nil {
		return err
	}
	logging.Configure(cfg.LogLevel, cfg.LogPretty)

	// Initialize services
	gameManager := service.NewGameManager(service.ManagerOptions{
		SearchWorkers: cfg.SearchWorkers,
		PollInterval:  cfg.PollInterval,
	})
	gameService := service.NewGameService(gameManager, cfg.Difficulty)
	app := newApp(cfg, gameService)

	g, ctx := errgroup.WithContext(cCtx.Context)
	g.Go(func() error {
		return gameManager.Run(ctx)
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr()).Str("difficulty", string(cfg.Difficulty)).Msg("listening")
		return app.Listen(cfg.Addr())
	})
	g.Go(func() error {
		<-ctx.Done()
		return app.Shutdown()
	})
	return g.Wait()
}

func newApp(cfg config.Config, gameService *service.GameService) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))
	app.Use(middleware.RequestLogger())

	// Initialize controllers
	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	// Set up WebSocket routes
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(func(c *websocket.Conn) {
		wsController.HandleConnection(c)
	}, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}))

	// Set up REST routes
	api := app.Group("/api", middleware.EnsurePlayerID())
	gameController.Register(api.Group("/game"))

	return app
}

func selfplay(cCtx *cli.Context) error {
	logging.Configure(cCtx.String("log-level"), true)

	first, err := model.ParseSide(cCtx.String("first"))
	if err != nil {
		return err
	}

	result, err := service.SelfPlay(cCtx.Context, service.SelfPlayOptions{
		HumanDepth:    cCtx.Int("human-depth"),
		ComputerDepth: cCtx.Int("computer-depth"),
		MaxPlies:      cCtx.Int("max-plies"),
		First:         first,
	})
	if err != nil {
		return err
	}
	logging.Debugf("final position after %d plies", result.Plies)

	fmt.Print(result.Board)
	if result.Winner != nil {
		fmt.Printf("%s wins after %d plies\n", *result.Winner, result.Plies)
	} else {
		fmt.Printf("no result after %d plies\n", result.Plies)
	}
	return nil
}
