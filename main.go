package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"solar-forecaster/config"
	"solar-forecaster/form"
	"solar-forecaster/models"
	"solar-forecaster/predictor"
	"solar-forecaster/server"
	"solar-forecaster/session"
)

var (
	cfg    *config.Config
	logger *slog.Logger
	pred   *predictor.HTTPPredictor
)

func main() {
	// Загружаем конфигурацию
	var err error
	cfg, err = config.Load()
	if err != nil {
		slog.Error("ошибка загрузки конфигурации", "error", err)
		os.Exit(1)
	}

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	pred = predictor.NewHTTPPredictor(cfg.PredictAPIURL,
		predictor.WithTimeout(cfg.RequestTimeout),
		predictor.WithBreaker(cfg.BreakerThreshold),
	)
	logger.Debug("сервис предсказаний", "endpoint", pred.Endpoint(), "breaker", pred.BreakerState())

	var rootCmd = &cobra.Command{
		Use:   "forecaster",
		Short: "Solar energy forecaster",
		Long:  "Collects weather features and requests a solar generation forecast from the prediction API",
	}

	// Команда для запуска сервера с формой
	var serverCmd = &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server with the prediction form",
		Run: func(cmd *cobra.Command, args []string) {
			startServer()
		},
	}

	// Команда для разового запроса прогноза
	var predictCmd = &cobra.Command{
		Use:   "predict",
		Short: "Request a forecast for the given weather features",
		Run: func(cmd *cobra.Command, args []string) {
			output, _ := cmd.Flags().GetString("output")
			edits := make(map[string]string)
			for _, f := range form.Schema {
				if cmd.Flags().Changed(f.Key) {
					edits[f.Key], _ = cmd.Flags().GetString(f.Key)
				}
			}
			os.Exit(predictCLI(edits, output))
		},
	}

	defaults := form.Render(form.DefaultFeatures(), models.Idle(), nil)
	for _, fv := range defaults.Fields {
		predictCmd.Flags().String(fv.Key, fv.Value, fv.Label)
	}
	predictCmd.Flags().StringP("output", "o", "text", "Output format (text, json)")

	// Команда для вывода схемы формы
	var featuresCmd = &cobra.Command{
		Use:   "features",
		Short: "List form fields with their default values",
		Run: func(cmd *cobra.Command, args []string) {
			showFeatures()
		},
	}

	rootCmd.AddCommand(serverCmd, predictCmd, featuresCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newController() *form.Controller {
	return form.NewController(pred, logger)
}

// startServer запускает HTTP сервер
func startServer() {
	store := session.NewStore(cfg.SessionTTL, cfg.MaxSessions, newController)
	srv := server.New(store, pred.Endpoint(), cfg.CORSOrigins, logger)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go store.RunJanitor(ctx, time.Minute)

	// Настройка сервера
	httpServer := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      srv.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	if cfg.RequestTimeout == 0 || cfg.RequestTimeout > httpServer.WriteTimeout {
		// ответ ждет сервис предсказаний, у которого может не быть таймаута
		httpServer.WriteTimeout = 0
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("сервер запущен", "port", cfg.ServerPort, "endpoint", pred.Endpoint())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("ошибка сервера", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	logger.Info("завершение работы сервера...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("ошибка при завершении работы сервера", "error", err)
		os.Exit(1)
	}

	logger.Info("сервер остановлен")
}

// predictCLI применяет значения из флагов, запрашивает прогноз и
// возвращает код выхода
func predictCLI(edits map[string]string, output string) int {
	controller := newController()
	if err := controller.EditAll(edits); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	state, err := controller.Submit(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	view := controller.View()

	if output == "json" {
		data, _ := json.MarshalIndent(map[string]interface{}{
			"state": state,
			"view":  view,
		}, "", "  ")
		fmt.Println(string(data))
	} else {
		printView(view)
	}

	if state.Status != models.StatusSucceeded {
		return 1
	}
	return 0
}

// printView текстовый вывод формы и результата
func printView(view form.View) {
	fmt.Println("☀️  Solar Energy Forecaster")
	fmt.Println(strings.Repeat("=", 40))
	for _, f := range view.Fields {
		fmt.Printf("%-16s %s\n", f.Label+":", f.Value)
	}
	fmt.Println(strings.Repeat("-", 40))

	if view.Error != "" {
		fmt.Println(view.Error)
		return
	}
	fmt.Printf("Prediction: %s %s\n", view.Result, view.Unit)
}

// showFeatures показывает поля формы
func showFeatures() {
	view := form.Render(form.DefaultFeatures(), models.Idle(), nil)

	fmt.Println("📋 Form fields:")
	fmt.Println(strings.Repeat("-", 40))
	for _, f := range view.Fields {
		fmt.Printf("%-16s %-7s default %s\n", f.Key, f.Type, f.Value)
	}
	fmt.Printf("\nEndpoint: %s\n", pred.Endpoint())
}
