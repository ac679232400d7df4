// Package embed turns document text into normalized float vectors.
package embed

import (
	"context"
	"fmt"
	"math"

	"github.com/tmc/langchaingo/llms/ollama"
)

// Embedder converts a batch of texts into one vector per text.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Ollama embeds through a local ollama embedding model.
type Ollama struct {
	llm *ollama.LLM
}

func NewOllama(serverURL, model string) (*Ollama, error) {
	llm, err := ollama.New(
		ollama.WithServerURL(serverURL),
		ollama.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama embedder: %w", err)
	}

	return &Ollama{llm: llm}, nil
}

func (o *Ollama) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeds, err := o.llm.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding: %w", err)
	}
	if len(embeds) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeds))
	}

	for i := range embeds {
		Normalize(embeds[i])
	}

	return embeds, nil
}

// Normalize scales vec to unit length in place. Zero vectors are left as-is.
func Normalize(vec []float32) {
	var sum float32
	for _, v := range vec {
		sum += v * v
	}
	if sum == 0 {
		return
	}

	norm := float32(math.Sqrt(float64(sum)))
	for i := range vec {
		vec[i] /= norm
	}
}
