package main

import (
	"bufio"
	"chat-server/server"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/mama165/sdk-go/logs"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddress   string        `env:"CHAT_SERVER_ADDR,default=127.0.0.1:8080" validate:"required,hostname_port"`
	ResponseTimeout time.Duration `env:"CHAT_RESPONSE_TIMEOUT,default=500ms" validate:"gt=0"`
	LogLevel        string        `env:"LOG_LEVEL,default=INFO" validate:"required"`
}

var validate = validator.New()

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run sends every stdin line as one request and prints the response.
// Typing END closes the connection.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}

	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Establish connection to the chat server.
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", config.ServerAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to server at %s: %w", config.ServerAddress, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()
	context.AfterFunc(ctx, func() { _ = conn.Close() })

	log.Info(fmt.Sprintf(">>> Connected to %s! Type requests, %s to quit", config.ServerAddress, server.Sentinel))

	// 4. Request loop.
	lines := bufio.NewScanner(os.Stdin)
	for lines.Scan() {
		request := strings.TrimSpace(lines.Text())
		if request == "" {
			continue
		}
		if _, err = conn.Write([]byte(request)); err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("write error: %w", err)
		}
		if request == server.Sentinel {
			return exitOK, nil
		}

		response, err := readResponse(conn, config.ResponseTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, err
		}
		fmt.Print(response)
		if !strings.HasSuffix(response, "\n") {
			fmt.Println()
		}
	}
	return exitOK, lines.Err()
}

// readResponse collects bytes until the server stays silent for timeout.
// Some requests have no response at all.
func readResponse(conn net.Conn, timeout time.Duration) (string, error) {
	var response strings.Builder
	buffer := make([]byte, 4096)
	for {
		if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
			return "", err
		}
		n, err := conn.Read(buffer)
		response.Write(buffer[:n])
		var netErr net.Error
		switch {
		case err == nil:
			continue
		case errors.As(err, &netErr) && netErr.Timeout():
			return response.String(), nil
		case errors.Is(err, io.EOF):
			return response.String(), fmt.Errorf("server closed the connection")
		default:
			return response.String(), fmt.Errorf("read error: %w", err)
		}
	}
}
