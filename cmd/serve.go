package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tawindow/internal/marketdata"
	"tawindow/internal/score"
)

var (
	serveAddr   string
	serveDir    string
	serveLang   string
	scoreCache  = cache.New(5*time.Minute, 10*time.Minute)
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve composite fear & greed scores over HTTP, reading tickers as <dir>/<ticker>.csv",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&serveDir, "data-dir", ".", "directory holding <ticker>.csv files")
	serveCmd.Flags().StringVar(&serveLang, "lang", "en", "label language: en or zh")
	rootCmd.AddCommand(serveCmd)
}

// runServe starts the JSON HTTP API, adapted from the teacher's
// internal/api/handler.go: a logging middleware wraps every route, and
// computed scores are memoized per ticker in go-cache with the same
// 5-minute TTL / 10-minute purge interval the teacher used for its
// /fear-greed handler.
func runServe(cmd *cobra.Command, args []string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/score/", handleScore)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:         serveAddr,
		Handler:      loggingMiddleware(mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logrus.WithField("addr", serveAddr).Info("tacli serve listening")
	return srv.ListenAndServe()
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logrus.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Info("request")
	})
}

func handleScore(w http.ResponseWriter, r *http.Request) {
	ticker := r.URL.Path[len("/score/"):]
	if ticker == "" {
		http.Error(w, "ticker required", http.StatusBadRequest)
		return
	}

	if cached, ok := scoreCache.Get(ticker); ok {
		writeJSON(w, cached)
		return
	}

	path := fmt.Sprintf("%s/%s.csv", serveDir, ticker)
	f, err := os.Open(path)
	if err != nil {
		http.Error(w, fmt.Sprintf("no data for ticker %q", ticker), http.StatusNotFound)
		return
	}
	defer f.Close()

	frame, err := marketdata.LoadCSV(f, ticker, "1d")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	results := score.Compute(frame, score.DefaultConfig, serveLang)
	scoreCache.Set(ticker, results, cache.DefaultExpiration)
	writeJSON(w, results)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
