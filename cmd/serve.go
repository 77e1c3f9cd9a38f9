package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/contact-cli/internal/model"
	"github.com/sells-group/contact-cli/internal/pipeline"
)

var (
	servePort       int
	serveCheckpoint string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve discovery results over HTTP",
	Long:  "Exposes the checkpointed results read-only: GET /health, GET /status, GET /results.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		checkpointPath := serveCheckpoint
		if checkpointPath == "" {
			checkpointPath = cfg.Discover.Checkpoint
		}
		checkpoint := pipeline.NewCheckpointFile(checkpointPath)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newServeMux(checkpoint),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("checkpoint", checkpointPath),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// newServeMux builds the read-only results API. The checkpoint reloads per
// request so a concurrently running discover shows up without a restart.
func newServeMux(checkpoint *pipeline.CheckpointFile) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		cp, err := checkpoint.Load()
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]int{
			"organizations_completed": len(cp.Completed),
			"contacts_accumulated":    len(cp.Results),
		})
	})

	mux.HandleFunc("GET /results", func(w http.ResponseWriter, r *http.Request) {
		cp, err := checkpoint.Load()
		if err != nil {
			writeError(w, err)
			return
		}
		results := cp.Results
		if results == nil {
			results = []model.ContactRecord{}
		}
		writeJSON(w, http.StatusOK, results)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	zap.L().Error("serve: request failed", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveCheckpoint, "checkpoint", "", "checkpoint file (default from config)")
	rootCmd.AddCommand(serveCmd)
}
