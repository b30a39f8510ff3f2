package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
	"github.com/spf13/pflag"

	"github.com/luca-patrignani/set-game/config"
	"github.com/luca-patrignani/set-game/dealer"
)

func main() {
	flags := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	path := flags.StringP("config", "c", "", "path to a YAML, JSON or TOML config file")
	flags.Int("players.human", 0, "number of human players (0-2)")
	flags.Int("players.computer", 0, "number of computer players")
	flags.Duration("game.turn_timeout", 0, "time between reshuffles")
	flags.Bool("game.hints", false, "log every triple on the table")
	flags.String("log.level", "", "debug, info, warn or error")
	flags.String("log.file", "", "write the log to this file")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(*path, flags)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	logger, closeLog, err := newLogger(cfg.Log)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	defer closeLog()

	pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("S", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("E", pterm.FgGreen.ToStyle()),
		putils.LettersFromStringWithStyle("T", pterm.FgMagenta.ToStyle()),
	).Render()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, err := newGame(cfg, logger)
	if err != nil {
		logger.Error("failed to set up the game", "err", err)
		os.Exit(1)
	}
	res, err := g.run(ctx)
	if err != nil {
		logger.Error("game ended with an error", "err", err)
	}
	printResult(g.names, res)
}

func printResult(names []string, res dealer.Result) {
	pterm.Println()
	pterm.Info.Printfln("Game %s finished after %d rounds and %d claims", res.GameID, res.Rounds, res.Claims)
	data := pterm.TableData{{"Player", "Score"}}
	for id, score := range res.Scores {
		data = append(data, []string{names[id], strconv.Itoa(score)})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	for _, id := range res.Winners {
		pterm.Success.Printfln("%s wins", pterm.LightCyan(names[id]))
	}
}
