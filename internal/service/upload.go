package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"sharebox-backend/internal/models"
	"sharebox-backend/internal/repository"
	"sharebox-backend/internal/shortcode"

	"github.com/google/uuid"
)

// UploadURLSigner é o colaborador de armazenamento que emite URLs
// assinadas de upload (implementado pelo S3Service)
type UploadURLSigner interface {
	GeneratePresignedUploadURL(ctx context.Context, storageKey string, lifetime time.Duration) (string, error)
}

// UploadService implementa o contrato do colaborador de upload: cria o
// registro do arquivo com um código curto recém-emitido e devolve a URL
// assinada para o cliente enviar os bytes direto ao armazenamento.
// Validação de conteúdo (tipo/tamanho máximo) fica fora deste core.
type UploadService struct {
	store     repository.FileStore
	generator *shortcode.Generator
	gate      *PasswordGate
	signer    UploadURLSigner
	uploadTTL time.Duration
}

// NewUploadService cria um novo serviço de upload
func NewUploadService(
	store repository.FileStore,
	generator *shortcode.Generator,
	gate *PasswordGate,
	signer UploadURLSigner,
	uploadTTL time.Duration,
) *UploadService {
	return &UploadService{
		store:     store,
		generator: generator,
		gate:      gate,
		signer:    signer,
		uploadTTL: uploadTTL,
	}
}

// CreateFileRequest define os parâmetros para registrar um arquivo.
// Espelha o formulário de upload do cliente: hasExpiry/expiresAt (horas a
// partir de agora), isPassword/password.
type CreateFileRequest struct {
	OwnerID        *uuid.UUID
	Name           string
	MimeType       string
	SizeBytes      int64
	HasExpiry      bool
	ExpiresInHours int
	IsPassword     bool
	Password       string
}

// CreateFileResult é o resultado da criação de um registro
type CreateFileResult struct {
	File      *models.File
	UploadURL string
	ShortURL  string // caminho público do link (/f/{code})
}

// Create registra os metadados de um novo arquivo compartilhado
func (s *UploadService) Create(ctx context.Context, req CreateFileRequest) (*CreateFileResult, error) {
	if req.Name == "" || req.MimeType == "" {
		return nil, fmt.Errorf("%w: name e mimeType são obrigatórios", ErrValidation)
	}
	if req.SizeBytes < 0 {
		return nil, fmt.Errorf("%w: sizeBytes não pode ser negativo", ErrValidation)
	}
	if req.IsPassword && req.Password == "" {
		return nil, fmt.Errorf("%w: password é obrigatório quando isPassword é true", ErrValidation)
	}
	// Horas positivas garantem a invariante expiresAt > createdAt
	if req.HasExpiry && req.ExpiresInHours <= 0 {
		return nil, fmt.Errorf("%w: expiresAt (horas) deve ser positivo", ErrValidation)
	}

	// 1. Emitir um código curto livre de colisão
	code, err := s.generator.Generate(ctx)
	if err != nil {
		return nil, fmt.Errorf("falha ao emitir código curto: %w", err)
	}

	now := time.Now()

	file := &models.File{
		ID:                  uuid.New(),
		OwnerID:             req.OwnerID,
		ShortCode:           code,
		Name:                req.Name,
		MimeType:            req.MimeType,
		SizeBytes:           req.SizeBytes,
		IsPasswordProtected: req.IsPassword,
		CreatedAt:           now,
		DownloadCount:       0,
	}

	// 2. Hash da senha, se o link for protegido
	// (PasswordHash presente se e somente se IsPasswordProtected)
	if req.IsPassword {
		hash, err := s.gate.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		file.PasswordHash = hash
	}

	if req.HasExpiry {
		expiresAt := now.Add(time.Duration(req.ExpiresInHours) * time.Hour)
		file.ExpiresAt = &expiresAt
	}

	// 3. Gerar uma chave de objeto única para o armazenamento
	// Formato: uploads/OWNER_ID/ARQUIVO_UUID (ou uploads/guest/... para anônimos)
	ownerSegment := "guest"
	if req.OwnerID != nil {
		ownerSegment = req.OwnerID.String()
	}
	file.StorageKey = fmt.Sprintf("uploads/%s/%s", ownerSegment, uuid.New().String())

	// 4. Gerar a URL assinada de upload (PUT)
	uploadURL, err := s.signer.GeneratePresignedUploadURL(ctx, file.StorageKey, s.uploadTTL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorage, err)
	}

	// 5. Persistir o registro
	if err := s.store.CreateFile(ctx, file); err != nil {
		log.Printf("Erro ao salvar arquivo no store: %v", err)
		return nil, fmt.Errorf("erro interno ao salvar arquivo")
	}

	return &CreateFileResult{
		File:      file,
		UploadURL: uploadURL,
		ShortURL:  "/f/" + code,
	}, nil
}
