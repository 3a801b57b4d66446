package cmd

import (
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/yechim/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the solver over HTTP",
	Long: "Start the HTTP API. Endpoints:\n" +
		"  POST /v1/solve         {\"problem\": \"...\", \"topic\": \"\"}\n" +
		"  POST /v1/solve/image   multipart form, field \"image\"\n" +
		"  POST /v1/classify      {\"problem\": \"...\"}\n" +
		"  GET  /v1/history       ?limit=N\n" +
		"  GET  /v1/history/:id\n" +
		"  GET  /v1/stats\n" +
		"  GET  /health, /metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd, false)
		if err != nil {
			return err
		}
		defer e.Close()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		srv := server.New(server.Deps{
			Solver:         e.Solver,
			Tracker:        e.Tracker,
			History:        e.History,
			Extractor:      e.Extractor,
			Registry:       reg,
			Mode:           cfg.Server.Mode,
			ExtractTimeout: cfg.LLM.Timeout,
		})

		log.Info().Str("addr", addr).Bool("images", e.Extractor != nil).Msg("starting server")
		return srv.Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
}
