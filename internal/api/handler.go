package api

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"sharebox-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Handler gerencia as dependências para os handlers HTTP
type Handler struct {
	linkResolver  *service.LinkResolver
	uploadService *service.UploadService
	validate      *validator.Validate
	clientURL     string // origem permitida no CORS (frontend)
}

// NewHandler cria uma nova instância do Handler
func NewHandler(
	linkResolver *service.LinkResolver,
	uploadService *service.UploadService,
	clientURL string,
) *Handler {
	return &Handler{
		linkResolver:  linkResolver,
		uploadService: uploadService,
		validate:      validator.New(),
		clientURL:     clientURL,
	}
}

// === Funções Auxiliares de Resposta ===

func (h *Handler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, map[string]interface{}{
		"error": map[string]interface{}{
			"code":    code,
			"message": message,
		},
	})
}

func (h *Handler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Erro ao serializar JSON: %v", err)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"Erro interno ao serializar resposta"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError mapeia a taxonomia de erros do domínio para
// status HTTP. Erros desconhecidos viram 500 com mensagem genérica, para
// nunca vazar detalhes internos (hash, storage key).
func (h *Handler) respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.respondWithError(w, http.StatusNotFound, service.ErrNotFound.Error())
	case errors.Is(err, service.ErrExpiredLink):
		h.respondWithError(w, http.StatusGone, service.ErrExpiredLink.Error())
	case errors.Is(err, service.ErrUnauthorized):
		h.respondWithError(w, http.StatusUnauthorized, service.ErrUnauthorized.Error())
	case errors.Is(err, service.ErrValidation):
		h.respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStorage):
		// 502: falha do colaborador de armazenamento, o cliente pode tentar de novo
		h.respondWithError(w, http.StatusBadGateway, service.ErrStorage.Error())
	default:
		log.Printf("Erro não mapeado no handler: %v", err)
		h.respondWithError(w, http.StatusInternalServerError, "Erro interno do servidor")
	}
}

// === Schemas de Resposta da API ===

type (
	// VerifyPasswordResponse (POST /files/verifyFilePassword)
	VerifyPasswordResponse struct {
		Message     string `json:"message"`
		UnlockToken string `json:"unlockToken"`
	}

	// DownloadResponse (POST /files/download/{fileId})
	DownloadResponse struct {
		DownloadURL string `json:"downloadUrl"`
	}

	// CreateFileResponse (POST /files)
	CreateFileResponse struct {
		FileID    string     `json:"fileId"`
		ShortCode string     `json:"shortCode"`
		ShortURL  string     `json:"shortUrl"`
		UploadURL string     `json:"uploadUrl"`
		ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	}
)

// === Handlers de Links de Compartilhamento ===

// handleResolveShareLink (GET /files/resolveShareLink/{code})
func (h *Handler) handleResolveShareLink(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		h.respondWithError(w, http.StatusBadRequest, "Código do link não fornecido")
		return
	}

	// Links expirados ainda resolvem (status "expired" no corpo);
	// só o download é negado por expiração.
	view, err := h.linkResolver.Resolve(r.Context(), code)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, view)
}

// handleVerifyFilePassword (POST /files/verifyFilePassword)
func (h *Handler) handleVerifyFilePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShortCode string `json:"shortCode" validate:"required"`
		Password  string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	unlockToken, err := h.linkResolver.VerifyPassword(r.Context(), req.ShortCode, req.Password)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, VerifyPasswordResponse{
		Message:     "Senha verificada com sucesso.",
		UnlockToken: unlockToken,
	})
}

// handleDownloadFile (POST /files/download/{fileId})
func (h *Handler) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	fileID, err := uuid.Parse(chi.URLParam(r, "fileId"))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "ID do arquivo inválido")
		return
	}

	// O corpo é opcional: arquivos sem senha são baixados com POST vazio
	var req struct {
		Password    string `json:"password"`
		UnlockToken string `json:"unlockToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	downloadURL, err := h.linkResolver.Download(r.Context(), fileID, req.Password, req.UnlockToken)
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, DownloadResponse{DownloadURL: downloadURL})
}

// handleCreateFile (POST /files) — contrato do colaborador de upload.
// Registra os metadados, emite o código curto e devolve a URL assinada
// de upload; os bytes vão direto do cliente para o armazenamento.
func (h *Handler) handleCreateFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OwnerID        *uuid.UUID `json:"ownerId"`
		Name           string     `json:"name" validate:"required"`
		MimeType       string     `json:"mimeType" validate:"required"`
		SizeBytes      int64      `json:"sizeBytes" validate:"gte=0"`
		HasExpiry      bool       `json:"hasExpiry"`
		ExpiresInHours int        `json:"expiresAt"` // horas a partir de agora (nome vindo do formulário do cliente)
		IsPassword     bool       `json:"isPassword"`
		Password       string     `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Payload JSON inválido")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "Dados inválidos: "+err.Error())
		return
	}

	result, err := h.uploadService.Create(r.Context(), service.CreateFileRequest{
		OwnerID:        req.OwnerID,
		Name:           req.Name,
		MimeType:       req.MimeType,
		SizeBytes:      req.SizeBytes,
		HasExpiry:      req.HasExpiry,
		ExpiresInHours: req.ExpiresInHours,
		IsPassword:     req.IsPassword,
		Password:       req.Password,
	})
	if err != nil {
		h.respondWithServiceError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusCreated, CreateFileResponse{
		FileID:    result.File.ID.String(),
		ShortCode: result.File.ShortCode,
		ShortURL:  result.ShortURL,
		UploadURL: result.UploadURL,
		ExpiresAt: result.File.ExpiresAt,
	})
}
