// Command reindex drops both collections and rebuilds them from the source
// workbook. This is the operator path for picking up source-data changes;
// the agent itself never re-indexes populated collections.
package main

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"github.com/avives/mall-dining-rag/config"
	"github.com/avives/mall-dining-rag/embed"
	"github.com/avives/mall-dining-rag/loader"
	"github.com/avives/mall-dining-rag/search"
	"github.com/avives/mall-dining-rag/store"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	loc, err := time.LoadLocation(cfg.Mall.Timezone)
	if err != nil {
		log.Fatal(err)
	}

	db, err := store.NewPg(cfg.Postgres.ConnStr())
	if err != nil {
		log.Fatal("failed to connect to postgres:", err)
	}

	embedder, err := embed.NewOllama(cfg.Ollama.Address(), cfg.Ollama.EmbeddingModel)
	if err != nil {
		log.Fatal("failed to create embedder:", err)
	}

	restaurants := store.NewRestaurantStore(db, embedder)
	dishes := store.NewDishStore(db, embedder)

	searcher := search.New(restaurants, dishes, loader.New(time.Duration(cfg.Sheets.FetchTimeout)*time.Second), loc)

	ctx := context.Background()
	if err := searcher.LoadAndIndex(ctx, search.LoadOptions{
		WorkbookID: cfg.Sheets.WorkbookID,
		TopNDishes: cfg.Index.TopNDishes,
		Force:      true,
	}); err != nil {
		log.Fatal("reindex failed:", err)
	}

	restaurantCount, err := restaurants.Count(ctx)
	if err != nil {
		log.Fatal(err)
	}
	dishCount, err := dishes.Count(ctx)
	if err != nil {
		log.Fatal(err)
	}

	slog.Info("reindex complete", "restaurants", restaurantCount, "dishes", dishCount)
}
