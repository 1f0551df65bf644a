package service

import (
	"context"

	"sharebox-backend/internal/repository"

	"github.com/google/uuid"
)

// DownloadCounter é uma costura nomeada sobre o incremento atômico do store.
// Não guarda estado próprio: existe para deixar o contrato de atomicidade
// explícito e testável de forma independente.
type DownloadCounter struct {
	store repository.FileStore
}

// NewDownloadCounter cria um novo contador de downloads
func NewDownloadCounter(store repository.FileStore) *DownloadCounter {
	return &DownloadCounter{store: store}
}

// Increment incrementa o contador do arquivo e retorna o novo valor
func (c *DownloadCounter) Increment(ctx context.Context, fileID uuid.UUID) (int64, error) {
	return c.store.IncrementDownloadCount(ctx, fileID)
}
