// Package main runs the desk pet in a terminal: frames are reported to the
// log and chat happens on stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/easeaico/deskpet/internal/animation"
	"github.com/easeaico/deskpet/internal/chat"
	"github.com/easeaico/deskpet/internal/config"
	"github.com/easeaico/deskpet/internal/console"
	"github.com/easeaico/deskpet/internal/models"
	"github.com/easeaico/deskpet/internal/mood"
	"github.com/easeaico/deskpet/internal/pet"
	"github.com/easeaico/deskpet/internal/storage"
)

func main() {
	cfg := config.Load()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	llm, err := models.New(ctx, cfg.Provider, cfg.LLMModel, cfg.APIKey())
	if err != nil {
		log.Fatalf("failed to create model: %v", err)
	}

	sessionID := uuid.NewString()
	petOpts := []pet.Option{
		pet.WithLogger(logger),
		pet.WithSessionID(sessionID),
		pet.WithHistoryLimit(cfg.HistoryLimit),
		pet.WithPetMode(cfg.PetMode),
	}
	if cfg.DatabaseURL != "" {
		store, err := storage.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer store.Close()
		if err := store.AutoMigrate(ctx); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		petOpts = append(petOpts, pet.WithHistory(store.Transcripts))
	} else {
		logger.Info("DATABASE_URL not set, chat history disabled")
	}

	player := animation.NewPlayer(animation.FileDecoder{},
		animation.WithInterval(cfg.FrameInterval),
		animation.WithLogger(logger),
	)
	defer player.Close()

	engine := mood.NewEngine(
		mood.WithInitialScore(cfg.InitialMood),
		mood.WithFeedWindow(cfg.FeedWindow),
		mood.WithFeedThreshold(cfg.FeedThreshold),
		mood.WithLogger(logger),
	)

	anims := pet.LoadAnimations(cfg.AssetsDir, logger)
	desk := pet.New(player, engine, chat.NewLLMSender(llm), anims, petOpts...)

	frames, unsubscribe := player.Subscribe(1)
	defer unsubscribe()
	go render(ctx, frames, logger)

	go func() {
		if err := desk.Run(ctx); err != nil {
			logger.Error("pet stopped", "error", err.Error())
		}
	}()

	logger.Info("desk pet started",
		"provider", string(cfg.Provider),
		"model", cfg.LLMModel,
		"session", sessionID,
		"mood", engine.Score(),
	)
	fmt.Println("Say hi to your pet, or type /help.")

	if err := readLoop(ctx, console.New(desk, logger)); err != nil {
		log.Fatalf("failed to read input: %v", err)
	}
}

// render stands in for a sprite window: it reports what would be drawn.
func render(ctx context.Context, events <-chan animation.Event, logger *slog.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			switch ev.Kind {
			case animation.EventFrame:
				logger.Debug("frame", "set", ev.Set, "index", ev.Index, "id", ev.ID)
			case animation.EventSkipped:
				logger.Debug("frame skipped", "set", ev.Set, "index", ev.Index, "error", ev.Err.Error())
			case animation.EventFinished:
				logger.Debug("animation finished", "set", ev.Set)
			case animation.EventEmpty:
				logger.Warn("no frames to show", "set", ev.Set)
			}
		}
	}
}

func readLoop(ctx context.Context, c *console.Console) error {
	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanErr <- scanner.Err()
	}()

	for {
		fmt.Print("> ")
		select {
		case <-ctx.Done():
			fmt.Println()
			return nil
		case err := <-scanErr:
			return err
		case line := <-lines:
			out, err := c.Handle(ctx, line)
			if errors.Is(err, console.ErrQuit) {
				return nil
			}
			if out != "" {
				fmt.Println(out)
			}
		}
	}
}
