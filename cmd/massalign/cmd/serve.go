package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/masstools/massalign/pkg/serve"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve alignment, isobaric and modification lookups over HTTP",
	Long: `Start a JSON HTTP API exposing the same operations as the CLI:
POST /api/align, POST /api/isobaric, GET /api/modifications?q=.., and
GET /health.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveHost, "host", "localhost", "Host to bind to")
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
}

func runServe(cmd *cobra.Command, args []string) error {
	lib, err := loadLibrary()
	if err != nil {
		return err
	}
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	s := &serve.Server{Lib: lib, Scoring: opts.Scoring}
	addr := fmt.Sprintf("%s:%d", serveHost, servePort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	fmt.Printf("listening on http://%s\n", addr)
	return srv.ListenAndServe()
}
