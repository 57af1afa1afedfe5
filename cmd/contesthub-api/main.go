package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/contesthub/backend/internal/bookmarks"
	"github.com/contesthub/backend/internal/config"
	"github.com/contesthub/backend/internal/contests"
	"github.com/contesthub/backend/internal/database"
	"github.com/contesthub/backend/internal/ingest"
	"github.com/contesthub/backend/internal/logging"
	"github.com/contesthub/backend/internal/scheduler"
	"github.com/contesthub/backend/internal/server"
	"github.com/contesthub/backend/internal/solutions"
	"github.com/contesthub/backend/internal/videos"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "contesthub-api",
		Short: "ContestHub contest aggregation backend",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().Int("fetch-interval-minutes", defaults.GetInt("fetch.interval_minutes"), "Minutes between scheduled ingestion runs")
	cmd.PersistentFlags().Int("fetch-timeout-seconds", defaults.GetInt("fetch.timeout_seconds"), "Timeout per outbound platform call in seconds")
	cmd.PersistentFlags().String("admin-token", "", "Bearer token for privileged fetch endpoints (overrides env)")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "fetch.interval_minutes", "fetch-interval-minutes")
	bindFlag(cmd, "fetch.timeout_seconds", "fetch-timeout-seconds")
	bindFlag(cmd, "admin.token", "admin-token")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.Open(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	contestsService, err := contests.NewService(contests.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: contests.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	bookmarksService, err := bookmarks.NewService(bookmarks.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: contests.NewUUIDProvider(),
	})
	if err != nil {
		return err
	}

	solutionsService, err := solutions.NewService(solutions.ServiceConfig{
		Database:   db,
		Clock:      time.Now,
		IDProvider: contests.NewUUIDProvider(),
	})
	if err != nil {
		return err
	}

	coordinator, err := ingest.NewCoordinator(ingest.CoordinatorConfig{
		Adapters: []ingest.Adapter{
			ingest.NewCodeforcesAdapter(ingest.CodeforcesConfig{BaseURL: appConfig.CodeforcesAPIURL, Timeout: appConfig.FetchTimeout}),
			ingest.NewCodeChefAdapter(ingest.CodeChefConfig{BaseURL: appConfig.CodechefAPIURL, Timeout: appConfig.FetchTimeout}),
			ingest.NewLeetCodeAdapter(ingest.LeetCodeConfig{BaseURL: appConfig.LeetcodeAPIURL, Timeout: appConfig.FetchTimeout}),
		},
		Store:        contestsService,
		FetchTimeout: appConfig.FetchTimeout * 3,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	ingestScheduler, err := scheduler.New(scheduler.Config{
		Runner:   coordinator,
		Interval: appConfig.FetchInterval,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	playlists, err := parsePlaylists(appConfig.YoutubePlaylists)
	if err != nil {
		return err
	}
	videoService, err := videos.NewService(videos.ServiceConfig{
		Playlists: playlists,
		Contests:  contestsService,
		Solutions: solutionsService,
		Feed: videos.NewPlaylistClient(videos.PlaylistClientConfig{
			BaseURL: appConfig.YoutubeAPIURL,
			APIKey:  appConfig.YoutubeAPIKey,
			Timeout: appConfig.FetchTimeout,
		}),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Contests:   contestsService,
		Bookmarks:  bookmarksService,
		Solutions:  solutionsService,
		Ingestion:  coordinator,
		Videos:     videoService,
		AdminToken: appConfig.AdminToken,
		Clock:      time.Now,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ingestScheduler.Start(signalCtx)
	defer ingestScheduler.Stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func parsePlaylists(raw map[string]string) (map[contests.Platform]string, error) {
	playlists := make(map[contests.Platform]string, len(raw))
	for name, playlistID := range raw {
		platform, err := contests.ParsePlatform(name)
		if err != nil {
			return nil, err
		}
		playlists[platform] = playlistID
	}
	return playlists, nil
}
