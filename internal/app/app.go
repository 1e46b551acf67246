package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gharapp/server/internal/controller"
	"github.com/gharapp/server/internal/identity"
	"github.com/gharapp/server/internal/remoteplayer"
	"github.com/gharapp/server/internal/repository/connection/inmemory"
	docstoreRedis "github.com/gharapp/server/internal/repository/docstore/redis"
	"github.com/gharapp/server/internal/repository/wssender"
	"github.com/gharapp/server/internal/service/gate"
	"github.com/gharapp/server/internal/service/music"
	"github.com/gharapp/server/internal/service/photo"
	"github.com/gharapp/server/internal/service/player"
	"github.com/gharapp/server/pkg/cloudinary"
	"github.com/gharapp/server/pkg/ctxlogger"
	"github.com/gharapp/server/pkg/redisclient"
)

type AppConfig struct {
	Secret                 string `json:"-"`
	Host                   string `json:"host"`
	Port                   int    `json:"port"`
	LogLevel               string `json:"log_level"`
	RedisHost              string `json:"redis_host"`
	RedisPort              int    `json:"redis_port"`
	RedisPassword          string `json:"-"`
	CloudinaryCloudName    string `json:"cloudinary_cloud_name"`
	CloudinaryUploadPreset string `json:"-"`
	MaxUploadSize          int64  `json:"max_upload_size"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return errors.New("secret must be set")
	}
	if cfg.CloudinaryCloudName == "" {
		return errors.New("cloudinary cloud name must be set")
	}
	if cfg.CloudinaryUploadPreset == "" {
		return errors.New("cloudinary upload preset must be set")
	}
	return nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(cfg.LogLevel))); err != nil {
		log.Fatal(err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}
	slog.SetDefault(slog.New(&h))

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	docRepo := docstoreRedis.NewRepo(rc)
	connectionRepo := inmemory.NewRepo()
	sender := wssender.NewRepo(connectionRepo)
	facility := remoteplayer.NewFacility(sender)

	identityProvider := identity.NewProvider()
	gateService := gate.NewService(identityProvider, docRepo, cfg.Secret)
	defer gateService.Close()

	musicService := music.NewService(docRepo)
	if err := musicService.EnsureSeeded(ctx); err != nil {
		return fmt.Errorf("failed to seed playlists: %w", err)
	}

	playerService := player.NewService(facility, musicService)

	uploader := cloudinary.NewClient(&cloudinary.Config{
		CloudName:    cfg.CloudinaryCloudName,
		UploadPreset: cfg.CloudinaryUploadPreset,
		Folder:       "ghar-photos",
	})
	photoService := photo.NewService(docRepo, uploader, cfg.MaxUploadSize)

	c := controller.NewController(&controller.NewControllerParams{
		GateService:   gateService,
		PlayerService: playerService,
		MusicService:  musicService,
		PhotoService:  photoService,
		RemotePlayer:  facility,
		ConnRepo:      connectionRepo,
		Broadcaster:   sender,
		MaxUploadSize: cfg.MaxUploadSize,
	})
	stopListeners := c.StartListeners(ctx)
	defer stopListeners()

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: c.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	slog.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
