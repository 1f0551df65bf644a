package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"sharebox-backend/internal/auth"
	"sharebox-backend/internal/expiry"
	"sharebox-backend/internal/models"
	"sharebox-backend/internal/repository"

	"github.com/google/uuid"
)

// DownloadURLSigner é o colaborador de armazenamento que emite URLs
// assinadas de download (implementado pelo S3Service)
type DownloadURLSigner interface {
	GeneratePresignedDownloadURL(ctx context.Context, storageKey, filename string, lifetime time.Duration) (string, error)
}

// LinkResolver orquestra resolução de link, verificação de senha e download
type LinkResolver struct {
	store        repository.FileStore
	gate         *PasswordGate
	signer       DownloadURLSigner
	counter      *DownloadCounter
	unlockTokens *auth.UnlockTokenService
	downloadTTL  time.Duration
}

// NewLinkResolver cria um novo resolvedor de links
func NewLinkResolver(
	store repository.FileStore,
	gate *PasswordGate,
	signer DownloadURLSigner,
	counter *DownloadCounter,
	unlockTokens *auth.UnlockTokenService,
	downloadTTL time.Duration,
) *LinkResolver {
	return &LinkResolver{
		store:        store,
		gate:         gate,
		signer:       signer,
		counter:      counter,
		unlockTokens: unlockTokens,
		downloadTTL:  downloadTTL,
	}
}

// ShareLinkView é a visão pública de um link: nunca contém PasswordHash
// nem StorageKey. Os nomes dos campos seguem o contrato consumido pelo
// cliente (type/size em vez de mimeType/sizeBytes).
type ShareLinkView struct {
	FileID              string            `json:"fileId"`
	Name                string            `json:"name"`
	Type                string            `json:"type"`
	Size                int64             `json:"size"`
	IsPasswordProtected bool              `json:"isPasswordProtected"`
	CreatedAt           time.Time         `json:"createdAt"`
	ExpiresAt           *time.Time        `json:"expiresAt,omitempty"`
	Status              models.FileStatus `json:"status"`
}

// Resolve busca os metadados públicos de um link pelo código curto.
// Links expirados ainda são resolvíveis (o cliente mostra os metadados
// com status "expired"); só o download é negado por expiração.
func (s *LinkResolver) Resolve(ctx context.Context, shortCode string) (*ShareLinkView, error) {
	file, err := s.store.GetFileByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("erro interno ao buscar link: %w", err)
	}

	classification := expiry.Classify(time.Now(), file.ExpiresAt)

	return &ShareLinkView{
		FileID:              file.ID.String(),
		Name:                file.Name,
		Type:                file.MimeType,
		Size:                file.SizeBytes,
		IsPasswordProtected: file.IsPasswordProtected,
		CreatedAt:           file.CreatedAt,
		ExpiresAt:           file.ExpiresAt,
		Status:              classification.Status,
	}, nil
}

// VerifyPassword confere a senha de um link e, em caso de sucesso, emite um
// token de desbloqueio de curta duração. Não há nenhum efeito persistido:
// o download re-verifica de forma independente (senha ou token).
// Um link sem senha é trivialmente satisfeito.
func (s *LinkResolver) VerifyPassword(ctx context.Context, shortCode, password string) (string, error) {
	file, err := s.store.GetFileByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("erro interno ao buscar link: %w", err)
	}

	if file.IsPasswordProtected && !s.gate.Verify(file.PasswordHash, password) {
		return "", ErrUnauthorized
	}

	unlockToken, err := s.unlockTokens.NewUnlockToken(file.ID)
	if err != nil {
		log.Printf("Erro ao emitir token de desbloqueio: %v", err)
		return "", fmt.Errorf("erro interno ao emitir token de desbloqueio")
	}

	return unlockToken, nil
}

// Download valida expiração e senha e emite uma URL assinada de download.
//
// Ordem das verificações (cada uma independente, reavaliada a cada chamada):
//  1. registro existe (senão ErrNotFound)
//  2. link ativo (senão ErrExpiredLink — mesmo que a resolução funcione)
//  3. senha ou token de desbloqueio, se o link for protegido (senão ErrUnauthorized)
//
// O contador só é incrementado DEPOIS da URL ser emitida: nunca contar um
// download sem ter produzido uma URL utilizável. A falha do incremento é
// não-fatal para o caller (a URL continua válida) e apenas logada.
func (s *LinkResolver) Download(ctx context.Context, fileID uuid.UUID, password, unlockToken string) (string, error) {
	file, err := s.store.GetFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("erro interno ao buscar arquivo: %w", err)
	}

	if expiry.Classify(time.Now(), file.ExpiresAt).Status == models.StatusExpired {
		return "", ErrExpiredLink
	}

	if file.IsPasswordProtected && !s.authorized(file, password, unlockToken) {
		return "", ErrUnauthorized
	}

	downloadURL, err := s.signer.GeneratePresignedDownloadURL(ctx, file.StorageKey, file.Name, s.downloadTTL)
	if err != nil {
		// Erro retornável pelo cliente; a mensagem nunca contém a storage key
		return "", fmt.Errorf("%w: %v", ErrStorage, err)
	}

	if _, err := s.counter.Increment(ctx, file.ID); err != nil {
		// Contagem é best-effort em relação à emissão da URL
		log.Printf("Aviso: falha ao incrementar contador do arquivo %s: %v", file.ID, err)
	}

	return downloadURL, nil
}

// authorized aceita a senha em texto plano (o cliente capturado reenvia a
// senha no download) ou um token de desbloqueio emitido por VerifyPassword
func (s *LinkResolver) authorized(file *models.File, password, unlockToken string) bool {
	if password != "" && s.gate.Verify(file.PasswordHash, password) {
		return true
	}
	if unlockToken != "" {
		fileID, err := s.unlockTokens.ValidateUnlockToken(unlockToken)
		if err == nil && fileID == file.ID {
			return true
		}
	}
	return false
}
