package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/spboyer/prepscore/internal/store"
	"github.com/spboyer/prepscore/internal/webserver"
)

func newServeCommand() *cobra.Command {
	var (
		weightsPath  string
		modelPath    string
		engine       string
		variant      string
		databasePath string
		port         int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the scoring JSON API",
		Long: `Start an HTTP server exposing the assessment pipeline.

Endpoints:
  POST /api/score                 assess a profile snapshot posted as JSON
  GET  /api/profiles/{id}/score   assess a profile stored in the database
  GET  /api/healthz               liveness plus model availability

The server binds to loopback only and shuts down gracefully on Ctrl-C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(runtimeOverrides{
				weightsPath: weightsPath,
				modelPath:   modelPath,
				engine:      engine,
				variant:     variant,
			})
			if err != nil {
				return err
			}

			dbPath := rt.project.Paths.Database
			if databasePath != "" {
				dbPath = databasePath
			}
			var st *store.Store
			if dbPath != "" {
				st, err = store.Open(dbPath)
				if err != nil {
					return err
				}
				defer st.Close() //nolint:errcheck
			}

			serverPort := rt.project.Server.Port
			if port != 0 {
				serverPort = port
			}

			srv, err := webserver.New(webserver.Config{
				Port:     serverPort,
				Pipeline: rt.pipeline,
				Store:    st,
				Model:    rt.predictor,
				Logger:   slog.Default(),
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&weightsPath, "weights", "", "Path to a YAML weights override file")
	cmd.Flags().StringVar(&modelPath, "model", "", "Path to a trained model artifact")
	cmd.Flags().StringVar(&engine, "engine", "", "Scoring engine: rule or model")
	cmd.Flags().StringVar(&variant, "variant", "", "Feature schema variant")
	cmd.Flags().StringVar(&databasePath, "database", "", "Path to the profile database")
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on")

	return cmd
}
