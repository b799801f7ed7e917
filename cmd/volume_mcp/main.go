// Package main runs the volume MCP server over stdio, for local MCP clients.
// The same server is mounted on the HTTP service at /mcp.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/hypertrophytoolbox/internal/config"
	"github.com/2beens/hypertrophytoolbox/internal/db"
	"github.com/2beens/hypertrophytoolbox/internal/logging"
	"github.com/2beens/hypertrophytoolbox/internal/training/catalog"
	"github.com/2beens/hypertrophytoolbox/internal/training/entries"
	volumemcp "github.com/2beens/hypertrophytoolbox/internal/training/mcp"
	"github.com/2beens/hypertrophytoolbox/internal/training/volume"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		ServiceName: "volume-mcp",
		LogFileName: cfg.LogsPath,
		LogLevel:    cfg.LogLevel,
		Environment: cfg.Environment,
	})
	if cfg.LogsPath == "" {
		// stdout belongs to the MCP transport
		log.SetOutput(os.Stderr)
	}

	weights, classifier, err := volume.FromConfig(cfg.Volume)
	if err != nil {
		log.Fatalf("volume settings: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         os.Getenv("HT_DB_USER"),
		DBPassword:     os.Getenv("HT_DB_PASS"),
		MaxConns:       4,
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	catalogStore := catalog.NewCachedStore(
		catalog.NewRepo(dbPool),
		cfg.Volume.CatalogCacheSizeMB,
		cfg.Volume.CatalogCacheTTL.Duration,
	)
	service := volume.NewService(entries.NewRepo(dbPool), catalogStore, classifier, weights, nil)
	server := volumemcp.NewServer(service)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
