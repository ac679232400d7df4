package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/avives/mall-dining-rag/embed"
	"github.com/avives/mall-dining-rag/models"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DishStore wraps the dish collection, keyed by (restaurant_id, dish_id).
type DishStore struct {
	db       *gorm.DB
	embedder embed.Embedder
}

func NewDishStore(db *gorm.DB, embedder embed.Embedder) *DishStore {
	return &DishStore{
		db:       db,
		embedder: embedder,
	}
}

// Index upserts dish documents by composite key; same exactly-upsert,
// never-prune policy as the restaurant collection.
func (s *DishStore) Index(ctx context.Context, docs []models.DishDoc, force bool) error {
	if force {
		if err := s.drop(ctx); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).AutoMigrate(&models.DishDoc{}); err != nil {
		return fmt.Errorf("failed to migrate dish collection: %w", err)
	}

	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Document
	}

	vectors, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed dish documents: %w", err)
	}
	for i := range docs {
		docs[i].Embedding = pgvector.NewVector(vectors[i])
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "restaurant_id"}, {Name: "dish_id"}},
		UpdateAll: true,
	}).Create(&docs).Error
	if err != nil {
		return fmt.Errorf("failed to upsert dish documents: %w", err)
	}

	slog.Info("indexed dishes", "count", len(docs))

	return nil
}

func (s *DishStore) Query(ctx context.Context, text string, k int, filter Filter) ([]models.DishDoc, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	q := s.db.WithContext(ctx).
		Model(&models.DishDoc{}).
		Select("*, embedding <=> ? AS distance", pgvector.NewVector(vectors[0])).
		Order("distance ASC").
		Limit(k)
	q = filter.apply(q)

	var results []models.DishDoc
	if err := q.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to query dish collection: %w", err)
	}

	return results, nil
}

func (s *DishStore) Get(ctx context.Context, restaurantID, dishID uint64) (*models.DishDoc, error) {
	var doc models.DishDoc
	err := s.db.WithContext(ctx).
		First(&doc, "restaurant_id = ? AND dish_id = ?", restaurantID, dishID).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			slog.Warn("dish lookup failed", "restaurant_id", restaurantID, "dish_id", dishID, "error", err)
		}

		return nil, ErrNotFound
	}

	return &doc, nil
}

func (s *DishStore) Count(ctx context.Context) (int64, error) {
	if !s.db.WithContext(ctx).Migrator().HasTable(&models.DishDoc{}) {
		return 0, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.DishDoc{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count dish collection: %w", err)
	}

	return count, nil
}

func (s *DishStore) drop(ctx context.Context) error {
	migrator := s.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(&models.DishDoc{}) {
		return nil
	}
	if err := migrator.DropTable(&models.DishDoc{}); err != nil {
		return fmt.Errorf("failed to drop dish collection: %w", err)
	}

	return nil
}
