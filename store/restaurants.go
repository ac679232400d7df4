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

// RestaurantStore wraps the restaurant collection.
type RestaurantStore struct {
	db       *gorm.DB
	embedder embed.Embedder
}

func NewRestaurantStore(db *gorm.DB, embedder embed.Embedder) *RestaurantStore {
	return &RestaurantStore{
		db:       db,
		embedder: embedder,
	}
}

// Index upserts the given documents by id: existing ids are replaced with
// fresh text, metadata and embeddings, new ids are inserted, and ids absent
// from the batch are left untouched. force drops and recreates the
// collection first, losing all prior vectors. Indexing failures propagate;
// a half-built index is worse than a failed one.
func (s *RestaurantStore) Index(ctx context.Context, docs []models.RestaurantDoc, force bool) error {
	if force {
		if err := s.drop(ctx); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).AutoMigrate(&models.RestaurantDoc{}); err != nil {
		return fmt.Errorf("failed to migrate restaurant collection: %w", err)
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
		return fmt.Errorf("failed to embed restaurant documents: %w", err)
	}
	for i := range docs {
		docs[i].Embedding = pgvector.NewVector(vectors[i])
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&docs).Error
	if err != nil {
		return fmt.Errorf("failed to upsert restaurant documents: %w", err)
	}

	slog.Info("indexed restaurants", "count", len(docs))

	return nil
}

// Query returns up to k documents ranked by embedding similarity, nearest
// first, each annotated with its cosine distance. Under-filled results are
// not an error.
func (s *RestaurantStore) Query(ctx context.Context, text string, k int, filter Filter) ([]models.RestaurantDoc, error) {
	vectors, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	q := s.db.WithContext(ctx).
		Model(&models.RestaurantDoc{}).
		Select("*, embedding <=> ? AS distance", pgvector.NewVector(vectors[0])).
		Order("distance ASC").
		Limit(k)
	q = filter.apply(q)

	var results []models.RestaurantDoc
	if err := q.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to query restaurant collection: %w", err)
	}

	return results, nil
}

func (s *RestaurantStore) GetByID(ctx context.Context, id uint64) (*models.RestaurantDoc, error) {
	var doc models.RestaurantDoc
	if err := s.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, s.degrade(err, "id", id)
	}

	return &doc, nil
}

func (s *RestaurantStore) GetByName(ctx context.Context, name string) (*models.RestaurantDoc, error) {
	var doc models.RestaurantDoc
	if err := s.db.WithContext(ctx).First(&doc, "name = ?", name).Error; err != nil {
		return nil, s.degrade(err, "name", name)
	}

	return &doc, nil
}

// Count reports the exact collection cardinality, zero when the collection
// has not been created yet.
func (s *RestaurantStore) Count(ctx context.Context) (int64, error) {
	if !s.db.WithContext(ctx).Migrator().HasTable(&models.RestaurantDoc{}) {
		return 0, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.RestaurantDoc{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count restaurant collection: %w", err)
	}

	return count, nil
}

func (s *RestaurantStore) drop(ctx context.Context) error {
	migrator := s.db.WithContext(ctx).Migrator()
	if !migrator.HasTable(&models.RestaurantDoc{}) {
		return nil
	}
	if err := migrator.DropTable(&models.RestaurantDoc{}); err != nil {
		return fmt.Errorf("failed to drop restaurant collection: %w", err)
	}

	return nil
}

// degrade maps lookup failures to ErrNotFound. Connection errors are logged
// rather than propagated; lookup paths never surface store failures.
func (s *RestaurantStore) degrade(err error, key string, value any) error {
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		slog.Warn("restaurant lookup failed", key, value, "error", err)
	}

	return ErrNotFound
}
