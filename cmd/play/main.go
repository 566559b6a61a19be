package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/iamasit07/connect4/internal/config"
	"github.com/iamasit07/connect4/internal/domain"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "play",
		Usage: "two players, one terminal",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "height",
				Aliases: []string{"rows"},
				Value:   config.GetEnvAsInt("BOARD_HEIGHT", 6),
				Usage:   "number of rows",
			},
			&cli.IntFlag{
				Name:    "width",
				Aliases: []string{"columns"},
				Value:   config.GetEnvAsInt("BOARD_WIDTH", 7),
				Usage:   "number of columns",
			},
		},
		Action: func(c *cli.Context) error {
			if err := run(c.App.Reader, c.App.Writer, c.Int("height"), c.Int("width")); err != nil {
				return cli.Exit(err.Error(), 1)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// run plays one session. Each input line is a 1-based column, "r" to start
// over or "q" to quit. End of input also quits.
func run(in io.Reader, out io.Writer, height, width int) error {
	g, err := domain.NewGame(height, width)
	if err != nil {
		return err
	}

	show := func() {
		fmt.Fprint(out, g.Board().Render())
		fmt.Fprintln(out, g.DescribeState())
	}
	g.OnStateChanged(func(domain.GameState) { show() })
	show()

	scanner := bufio.NewScanner(in)
	for {
		prompt(out, g)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		switch input {
		case "":
			continue
		case "q", "quit":
			return nil
		case "r", "reset":
			g.Reset()
			continue
		}

		column, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(out, "%q is not a column\n", input)
			continue
		}
		if _, err := g.Play(column - 1); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
		}
	}
}

func prompt(out io.Writer, g *domain.Game) {
	if side, ok := g.State().SideToMove(); ok {
		fmt.Fprintf(out, "%s, pick a column (1-%d), r to reset, q to quit: ", side, g.Width())
		return
	}
	fmt.Fprint(out, "r to play again, q to quit: ")
}
