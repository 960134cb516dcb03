package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"

	"github.com/dkeye/Relay/internal/client"
)

func main() {
	addr := pflag.String("addr", "localhost:50388", "server address")
	wsURL := pflag.String("ws", "", "WebSocket join URL, e.g. ws://localhost:8080/ws/join (overrides --addr)")
	name := pflag.String("name", "", "display name")
	verbose := pflag.Bool("verbose", false, "debug logging")
	pflag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.WarnLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: client --name <name> [--addr host:port | --ws url]")
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, *addr, *wsURL, *name); err != nil {
		log.Error().Str("module", "client").Err(err).Msg("client stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context, addr, wsURL, name string) error {
	dialCtx, dialCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dialCancel()

	var (
		c   *client.Client
		err error
	)
	if wsURL != "" {
		c, err = client.DialWS(dialCtx, wsURL)
	} else {
		c, err = client.Dial(dialCtx, addr)
	}
	if err != nil {
		return err
	}
	defer c.Close()

	if err := c.Join(name); err != nil {
		var je *client.JoinError
		if errors.As(err, &je) {
			fmt.Printf("connection failure - %s\n", je.Code)
			return nil
		}
		return err
	}
	log.Debug().Str("module", "client").Str("name", name).Msg("joined")

	received := make(chan error, 1)
	go func() { received <- printLines(c) }()

	lines := make(chan string)
	go readStdin(lines)

	for {
		select {
		case <-ctx.Done():
			return c.Depart()
		case err := <-received:
			return err
		case line, ok := <-lines:
			if !ok || line == "/quit" {
				return c.Depart()
			}
			if line == "" {
				continue
			}
			if err := c.Send(line); err != nil {
				return err
			}
		}
	}
}

func printLines(c *client.Client) error {
	for {
		line, err := c.RecvLine()
		switch {
		case errors.Is(err, client.ErrServerClosing):
			fmt.Println("******Exit: the chat server closes.******")
			return nil
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return err
		}
		fmt.Println(line)
	}
}

func readStdin(out chan<- string) {
	defer close(out)
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		out <- strings.TrimRight(sc.Text(), "\r")
	}
}
