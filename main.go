package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v9"

	"github.com/dskvich/chatwriting/pkg/api"
	"github.com/dskvich/chatwriting/pkg/api/handler"
	"github.com/dskvich/chatwriting/pkg/logger"
	"github.com/dskvich/chatwriting/pkg/openai"
	"github.com/dskvich/chatwriting/pkg/repository"
	"github.com/dskvich/chatwriting/pkg/services"
	"github.com/dskvich/chatwriting/pkg/storage"
	"github.com/dskvich/chatwriting/pkg/workers"
)

type Config struct {
	Addr   string `env:"ADDR" envDefault:":8642"`
	DBPath string `env:"DB_PATH" envDefault:"chatwriting.db"`
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(os.Stderr, logger.DefaultOptions)))

	if err := runMain(); err != nil {
		slog.Error("shutting down due to error", logger.Err(err))
		os.Exit(1)
	}
	slog.Info("shutdown complete")
}

func runMain() error {
	workerGroup, err := setupWorkers()
	if err != nil {
		return err
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	defer cancelFn()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		select {
		case s := <-sigCh:
			slog.Info("shutting down due to signal", "signal", s.String())
			cancelFn()
		case <-ctx.Done():
		}
	}()

	return workerGroup.Start(ctx)
}

func setupWorkers() (workers.Group, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	ctx := context.Background()

	db, err := storage.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}
	store := storage.NewStore(db)

	messagesRepository := repository.NewMessagesRepository()

	promptsRepository := repository.NewPromptsRepository(ctx, store)
	settingsRepository := repository.NewSettingsRepository(ctx, store)

	openAIClient := openai.NewClient()

	chatService := services.NewChatService(
		messagesRepository,
		promptsRepository,
		settingsRepository,
		openAIClient,
	)

	sequencerService := services.NewSequencerService(
		chatService,
		promptsRepository,
	)

	promptService := services.NewPromptService(
		messagesRepository,
		promptsRepository,
	)

	router := api.NewRouter(api.Routes{
		ListMessages:              handler.NewListMessages(chatService),
		SendMessage:               handler.NewSendMessage(chatService),
		ResetConversation:         handler.NewResetConversation(chatService),
		ListPrompts:               handler.NewListPrompts(promptsRepository),
		SavePrompt:                handler.NewSavePrompt(promptsRepository),
		DeletePrompt:              handler.NewDeletePrompt(promptsRepository),
		SelectPrompt:              handler.NewSelectPrompt(promptsRepository),
		CreatePromptsFromMessages: handler.NewCreatePromptsFromMessages(promptService),
		GetSettings:               handler.NewGetSettings(settingsRepository),
		UpdateSettings:            handler.NewUpdateSettings(settingsRepository),
		StartBatch:                handler.NewStartBatch(sequencerService),
		StopBatch:                 handler.NewStopBatch(sequencerService),
		GetBatch:                  handler.NewGetBatch(sequencerService),
	})

	var workerGroup workers.Group
	workerGroup = append(workerGroup, sequencerService)

	apiServer, err := workers.NewAPIServer(cfg.Addr, router)
	if err != nil {
		return nil, fmt.Errorf("creating api server: %w", err)
	}
	workerGroup = append(workerGroup, apiServer)

	return workerGroup, nil
}
