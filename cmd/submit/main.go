package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/JaimeStill/examiner/internal/config"
	"github.com/JaimeStill/examiner/pkg/formatting"
	"github.com/JaimeStill/examiner/pkg/storage"
)

const uploadTimeout = time.Minute

func main() {
	var (
		file        = flag.String("file", "", "Path to the document to upload")
		key         = flag.String("key", "", "Blob key (defaults to the watcher prefix plus the file name)")
		contentType = flag.String("content-type", "application/pdf", "Content type for the uploaded blob")
	)
	flag.Parse()

	if *file == "" {
		fmt.Println("usage: submit -file <path> [-key <blob-key>] [-content-type <type>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		log.Fatalf("storage init failed: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("open %s: %v", *file, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		log.Fatalf("stat %s: %v", *file, err)
	}

	target := *key
	if target == "" {
		target = cfg.Watcher.Prefix + filepath.Base(*file)
	}

	ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
	defer cancel()

	if err := store.Upload(ctx, target, f, *contentType); err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	fmt.Printf("uploaded %s (%s) to %s/%s\n",
		filepath.Base(*file),
		formatting.FormatBytes(info.Size(), 1),
		cfg.Storage.ContainerName,
		target,
	)
}
