package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nithinv16/DukaaOnWebsite/internal/config"
	"github.com/nithinv16/DukaaOnWebsite/internal/logger"
	"github.com/nithinv16/DukaaOnWebsite/internal/seed"
)

// sellers/products JSON 파일을 DB에 적재
func main() {
	file := flag.String("file", "seed.json", "seed file path")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	cfg := config.Load()

	if err := logger.Init(cfg.ServerEnv); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()
	l := logger.GetLogger("seed")

	fh, err := os.Open(*file)
	if err != nil {
		l.Fatalf("Failed to open seed file: %v", err)
	}
	defer fh.Close()

	doc, err := seed.Parse(fh)
	if err != nil {
		l.Fatalf("Invalid seed file: %v", err)
	}

	ctx := context.Background()
	pool, err := seed.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		l.Fatalf("DB 연결 실패: %v", err)
	}
	defer pool.Close()

	res, err := seed.Load(ctx, pool, doc)
	if err != nil {
		l.Fatalf("Seed 실패: %v", err)
	}
	l.Infof("Loaded %d sellers and %d products from %s", res.Sellers, res.Products, *file)
}
