package main

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	statemachine "github.com/ndrukelly2/state-machine"
	"github.com/ndrukelly2/state-machine/internal/logging"
	flowhttp "github.com/ndrukelly2/state-machine/pkg/adapters/http"
	"github.com/ndrukelly2/state-machine/pkg/adapters/memory"
	flowredis "github.com/ndrukelly2/state-machine/pkg/adapters/redis"
	"github.com/ndrukelly2/state-machine/pkg/observability"
	"github.com/ndrukelly2/state-machine/pkg/persistence/middleware"
	"github.com/ndrukelly2/state-machine/pkg/ports"
	"github.com/ndrukelly2/state-machine/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the flow over HTTP",
	Long: `Starts a REST server exposing session creation, probing, and event
submission, plus Prometheus metrics on /metrics. Sessions live in memory
unless a Redis address is given, in which case they survive restarts and
are lock-protected across replicas.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", ":8080", "Listen address")
	serveCmd.Flags().String("redis", "", "Redis address for durable sessions (empty = in-memory)")
	serveCmd.Flags().String("encrypt-key", "", "Base64-encoded 32-byte key; encrypts sessions at rest")
	serveCmd.Flags().StringArray("redact", nil, "Context key pattern to mask in trace logs (repeatable)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	verbose, _ := cmd.Flags().GetBool("verbose")
	addr, _ := cmd.Flags().GetString("addr")
	redisAddr, _ := cmd.Flags().GetString("redis")
	encryptKey, _ := cmd.Flags().GetString("encrypt-key")
	redact, _ := cmd.Flags().GetStringArray("redact")

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := logging.New(level)

	registry := prometheus.NewRegistry()
	var sink ports.EventSink = observability.Multi{
		observability.NewMetrics(registry),
		observability.NewSlogSink(logger),
	}
	if len(redact) > 0 {
		sink = observability.NewRedactor(sink, redact)
	}

	eng, err := statemachine.New(dir,
		statemachine.WithLogger(logger),
		statemachine.WithSink(sink),
	)
	if err != nil {
		return fmt.Errorf("failed to load flow: %w", err)
	}

	var (
		store       ports.SessionStore
		managerOpts = []session.Option{session.WithLogger(logger)}
	)
	if redisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: redisAddr})
		defer client.Close()
		store = flowredis.NewFromClient(client)
		managerOpts = append(managerOpts, session.WithLocker(flowredis.NewLocker(client, "authflow:")))
	} else {
		store = memory.NewStore()
	}

	if encryptKey != "" {
		key, err := base64.StdEncoding.DecodeString(encryptKey)
		if err != nil {
			return fmt.Errorf("invalid encrypt-key: %w", err)
		}
		if len(key) != 32 {
			return fmt.Errorf("encrypt-key must decode to 32 bytes, got %d", len(key))
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
	}

	manager := session.NewManager(eng, store, managerOpts...)

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.Handle("/", flowhttp.NewHandler(manager, logger))

	logger.Info("serving flow", "addr", addr, "entry", eng.Entry())
	return http.ListenAndServe(addr, mux)
}
