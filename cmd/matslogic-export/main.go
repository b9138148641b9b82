// matslogic-export assembles a compressed snapshot of one account's graphs
// and stores it locally or in S3.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/matslogic/matslogic/pkg/config"
	"github.com/matslogic/matslogic/pkg/export"
	"github.com/matslogic/matslogic/pkg/graph"
	"github.com/matslogic/matslogic/pkg/logging"
	"github.com/matslogic/matslogic/pkg/store/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	ownerID := flag.Int64("owner", 0, "Account id to export")
	outDir := flag.String("out", "./exports", "Local output directory")
	bucket := flag.String("bucket", "", "S3 bucket (uploads instead of writing locally)")
	region := flag.String("region", "", "AWS region for the bucket")
	flag.Parse()

	logger := logging.NewDefaultLogger()

	if *ownerID <= 0 {
		fmt.Fprintln(os.Stderr, "usage: matslogic-export -owner <id> [-bucket <name>] [-out <dir>]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", logging.Err(err))
		os.Exit(1)
	}
	if cfg.Storage.DatabaseURL == "" {
		logger.Error("export requires a database, set DATABASE_URL")
		os.Exit(1)
	}

	ctx := context.Background()

	store, err := postgres.New(ctx, cfg.Storage.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", logging.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	svc := graph.NewService(store, graph.WithLogger(logger))
	exporter := export.NewExporter(svc, logger)

	var sink export.Sink
	if *bucket != "" {
		s3sink, err := export.NewS3Sink(ctx, *bucket, *region)
		if err != nil {
			logger.Error("failed to configure S3", logging.Err(err))
			os.Exit(1)
		}
		sink = s3sink
	} else {
		sink = export.DirSink{Root: *outDir}
	}

	key, err := exporter.Run(ctx, *ownerID, sink)
	if err != nil {
		logger.Error("export failed", logging.Err(err))
		os.Exit(1)
	}
	fmt.Println(key)
}
