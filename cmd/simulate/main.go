// Command simulate runs headless bot-vs-bot games and prints aggregate
// results. Useful for soaking the rules engine and for eyeballing whether
// the bot personalities produce sane win rates.
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/truco/internal/game"
	"github.com/cardroom/truco/internal/registry"
	"github.com/cardroom/truco/internal/session"
)

var CLI struct {
	Games       int    `short:"g" long:"games" default:"20" help:"Number of games to run"`
	Size        string `short:"s" long:"size" default:"2v2" help:"Table format (1v1, 2v2, 3v3)"`
	ScoreLimit  int    `long:"score-limit" default:"30" help:"Game score limit (30 or 40)"`
	CutDeck     bool   `long:"cut-deck" help:"Enable the deck cut step"`
	Seed        int64  `long:"seed" default:"1" help:"Base RNG seed, game i uses seed+i"`
	Concurrency int    `short:"j" long:"concurrency" default:"4" help:"Games running at once"`
	Timeout     int    `long:"timeout" default:"120" help:"Per-game timeout in seconds"`
	LogLevel    string `short:"l" long:"log-level" default:"warn" help:"Log level"`
}

// nopSender discards outbound traffic, there are no humans watching.
type nopSender struct{}

func (nopSender) SendEvent(playerID, tableID string, e game.Event) {}
func (nopSender) SendView(playerID string, view game.TableView)    {}

func main() {
	ctx := kong.Parse(&CLI)

	size, ok := registry.ParseRoomSize(CLI.Size)
	if !ok {
		fmt.Printf("Invalid table size: %s\n", CLI.Size)
		ctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch CLI.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "info":
		logger.SetLevel(log.InfoLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.WarnLevel)
	}

	manager := session.NewManager(registry.New(logger), quartz.NewReal(), session.Config{
		AdvanceDelay: time.Millisecond,
		BotDelayMin:  time.Millisecond,
		BotDelayMax:  5 * time.Millisecond,
		Seed:         CLI.Seed,
	}, nopSender{}, logger)
	defer manager.Close()

	var mu sync.Mutex
	wins := make(map[int]int)
	rounds := 0

	start := time.Now()
	g, gctx := errgroup.WithContext(context.Background())
	g.SetLimit(CLI.Concurrency)

	for i := 0; i < CLI.Games; i++ {
		i := i
		g.Go(func() error {
			table, err := manager.CreateTable(fmt.Sprintf("sim-%d", i), nil, size.MaxPlayers(), size, game.Options{
				ScoreLimit: CLI.ScoreLimit,
				CutDeck:    CLI.CutDeck,
				Seed:       CLI.Seed + int64(i),
			})
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}
			if res := table.StartRound(); !res.OK {
				return fmt.Errorf("game %d: start round: %s", i, res.Reason)
			}

			winner, err := waitForWinner(gctx, table, time.Duration(CLI.Timeout)*time.Second)
			if err != nil {
				return fmt.Errorf("game %d: %w", i, err)
			}

			mu.Lock()
			wins[winner]++
			rounds += table.Round()
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Simulation failed", "error", err)
		ctx.Exit(1)
	}

	elapsed := time.Since(start)
	fmt.Printf("Ran %d games (%s, limit %d) in %s\n", CLI.Games, CLI.Size, CLI.ScoreLimit, elapsed.Round(time.Millisecond))
	fmt.Printf("Team 1 wins: %d\n", wins[1])
	fmt.Printf("Team 2 wins: %d\n", wins[2])
	fmt.Printf("Average rounds per game: %.1f\n", float64(rounds)/float64(CLI.Games))
}

// waitForWinner polls the table until a game winner is decided.
func waitForWinner(ctx context.Context, table *game.Table, timeout time.Duration) (int, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(10 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-deadline.C:
			return 0, fmt.Errorf("no winner after %s", timeout)
		case <-tick.C:
			if w := table.GameWinner(); w != 0 {
				return w, nil
			}
		}
	}
}
