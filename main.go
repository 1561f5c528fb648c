package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/danielhkuo/connecthub/auth"
	"github.com/danielhkuo/connecthub/backup"
	"github.com/danielhkuo/connecthub/cliparse"
	"github.com/danielhkuo/connecthub/events"
	"github.com/danielhkuo/connecthub/flow"
	"github.com/danielhkuo/connecthub/grouping"
	"github.com/danielhkuo/connecthub/middleware"
	"github.com/danielhkuo/connecthub/router"
	"github.com/danielhkuo/connecthub/session"
	"github.com/danielhkuo/connecthub/store"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Open the attendee store (creates the SQL schema if needed)
	st, err := store.Open(cfg.StoreType, cfg.StoreTarget())
	if err != nil {
		slog.Error("store open failed", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Store ready", "store", cfg.StoreType)

	if cfg.BackupS3Bucket != "" {
		dest, err := backup.NewS3Destination(context.Background(),
			cfg.BackupS3Bucket, cfg.BackupS3Key, cfg.BackupS3Region, cfg.BackupS3Endpoint)
		if err != nil {
			slog.Error("backup setup failed", "error", err)
			os.Exit(1)
		}
		st = backup.Wrap(st, dest)
		slog.Info("Mirroring attendees to S3", "bucket", cfg.BackupS3Bucket, "key", cfg.BackupS3Key)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			slog.Error("NATS connection failed", "error", err)
			os.Exit(1)
		}
		publisher = np
		slog.Info("Publishing events to NATS", "url", cfg.NATSURL)
	}
	defer publisher.Close()

	grouper := grouping.NewHTTPClient(cfg.GroupingURL, cfg.GroupingTimeout)
	slog.Info("Grouping service", "url", grouper.URL(), "timeout", cfg.GroupingTimeout)

	ctrl := flow.NewController(st, grouper,
		auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword},
		flow.WithLoginLimiter(auth.NewLoginLimiter(cfg.LoginRate)),
		flow.WithPublisher(publisher),
	)
	sessions := session.NewManager(cfg.SessionSalt, session.DefaultIdleTimeout)

	// Create router
	mux := router.NewRouter(ctrl, sessions, cfg)

	// Create server
	server := http.Server{
		Handler: middleware.SecurityHeaders(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), cfg.GroupingTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
