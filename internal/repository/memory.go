package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sharebox-backend/internal/models"

	"github.com/google/uuid"
)

// InMemoryStore é uma implementação em-memória da interface FileStore.
// Usada em testes e para rodar o servidor sem um PostgreSQL.
type InMemoryStore struct {
	mu               sync.RWMutex
	filesByID        map[uuid.UUID]*models.File
	filesByShortCode map[string]*models.File
}

// NewInMemoryStore cria uma nova instância do store em memória
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		filesByID:        make(map[uuid.UUID]*models.File),
		filesByShortCode: make(map[string]*models.File),
	}
}

func (s *InMemoryStore) CreateFile(ctx context.Context, file *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.filesByShortCode[file.ShortCode]; exists {
		return fmt.Errorf("código '%s' já existe", file.ShortCode)
	}
	if _, exists := s.filesByID[file.ID]; exists {
		return fmt.Errorf("arquivo com ID '%s' já existe", file.ID)
	}

	s.filesByID[file.ID] = file
	s.filesByShortCode[file.ShortCode] = file
	return nil
}

func (s *InMemoryStore) GetFileByShortCode(ctx context.Context, shortCode string) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, exists := s.filesByShortCode[shortCode]
	if !exists {
		return nil, ErrFileNotFound
	}
	return copyFile(file), nil
}

func (s *InMemoryStore) GetFileByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	file, exists := s.filesByID[id]
	if !exists {
		return nil, ErrFileNotFound
	}
	return copyFile(file), nil
}

func (s *InMemoryStore) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.filesByShortCode[shortCode]
	return exists, nil
}

// IncrementDownloadCount é atômico: o incremento acontece sob o mesmo lock
// da leitura, então N chamadas concorrentes resultam em exatamente +N.
func (s *InMemoryStore) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, exists := s.filesByID[id]
	if !exists {
		return 0, ErrFileNotFound
	}

	file.DownloadCount++
	return file.DownloadCount, nil
}

// SetExpiresAt ajusta a expiração de um registro. Existe apenas para testes
// (simular a passagem do tempo); o core nunca muta a expiração.
func (s *InMemoryStore) SetExpiresAt(id uuid.UUID, expiresAt *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if file, exists := s.filesByID[id]; exists {
		file.ExpiresAt = expiresAt
	}
}

// copyFile devolve uma cópia para que os callers não mutem o estado interno
func copyFile(f *models.File) *models.File {
	c := *f
	return &c
}
