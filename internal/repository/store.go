package repository

import (
	"context"
	"errors"

	"sharebox-backend/internal/models"

	"github.com/google/uuid"
)

// ErrFileNotFound é retornado quando nenhum registro corresponde ao código ou ID.
// Os callers devem testar com errors.Is, nunca comparando strings.
var ErrFileNotFound = errors.New("arquivo não encontrado")

// FileStore define a interface para operações de links de compartilhamento no DB
type FileStore interface {
	CreateFile(ctx context.Context, file *models.File) error
	GetFileByShortCode(ctx context.Context, shortCode string) (*models.File, error)
	GetFileByID(ctx context.Context, id uuid.UUID) (*models.File, error)

	// ShortCodeExists é usado pelo gerador de códigos para detectar colisões
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)

	// IncrementDownloadCount incrementa o contador de downloads e retorna o
	// novo valor. DEVE ser atômico: N chamadas concorrentes para o mesmo
	// registro resultam em exatamente +N, sem updates perdidos.
	IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error)
}
