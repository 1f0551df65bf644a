package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"sharebox-backend/internal/auth"
	"sharebox-backend/internal/models"
	"sharebox-backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSigner simula o colaborador de armazenamento nos testes
type fakeSigner struct {
	err   error
	calls int
}

func (f *fakeSigner) GeneratePresignedDownloadURL(ctx context.Context, storageKey, filename string, lifetime time.Duration) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://storage.local/%s?assinada=1", storageKey), nil
}

func (f *fakeSigner) GeneratePresignedUploadURL(ctx context.Context, storageKey string, lifetime time.Duration) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://storage.local/%s?upload=1", storageKey), nil
}

type linkFixture struct {
	store    *repository.InMemoryStore
	signer   *fakeSigner
	gate     *PasswordGate
	unlock   *auth.UnlockTokenService
	resolver *LinkResolver
}

func newLinkFixture(t *testing.T) *linkFixture {
	t.Helper()

	store := repository.NewInMemoryStore()
	signer := &fakeSigner{}
	gate := NewPasswordGate()
	unlock, err := auth.NewUnlockTokenService("segredo-de-teste")
	require.NoError(t, err)

	return &linkFixture{
		store:    store,
		signer:   signer,
		gate:     gate,
		unlock:   unlock,
		resolver: NewLinkResolver(store, gate, signer, NewDownloadCounter(store), unlock, 5*time.Minute),
	}
}

// seedFile persiste um registro de teste; password vazio = sem proteção
func (f *linkFixture) seedFile(t *testing.T, shortCode, password string, expiresAt *time.Time) *models.File {
	t.Helper()

	file := &models.File{
		ID:         uuid.New(),
		ShortCode:  shortCode,
		StorageKey: "uploads/guest/" + uuid.New().String(),
		Name:       "fotos-ferias.zip",
		MimeType:   "application/zip",
		SizeBytes:  4096,
		ExpiresAt:  expiresAt,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
	if password != "" {
		hash, err := f.gate.Hash(password)
		require.NoError(t, err)
		file.IsPasswordProtected = true
		file.PasswordHash = hash
	}
	require.NoError(t, f.store.CreateFile(context.Background(), file))
	return file
}

func futureTime(d time.Duration) *time.Time {
	ts := time.Now().Add(d)
	return &ts
}

// === Resolve ===

func TestResolveUnknownCode(t *testing.T) {
	f := newLinkFixture(t)

	_, err := f.resolver.Resolve(context.Background(), "naoexiste")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveActiveLink(t *testing.T) {
	f := newLinkFixture(t)
	file := f.seedFile(t, "ativo123", "", futureTime(48*time.Hour))

	view, err := f.resolver.Resolve(context.Background(), "ativo123")
	require.NoError(t, err)

	assert.Equal(t, file.ID.String(), view.FileID)
	assert.Equal(t, "fotos-ferias.zip", view.Name)
	assert.Equal(t, "application/zip", view.Type)
	assert.Equal(t, int64(4096), view.Size)
	assert.False(t, view.IsPasswordProtected)
	assert.Equal(t, models.StatusActive, view.Status)
}

// Link expirado continua resolvível; só o download é negado
func TestResolveExpiredLinkStillResolves(t *testing.T) {
	f := newLinkFixture(t)
	f.seedFile(t, "vencido1", "senha-qualquer", futureTime(-time.Minute))

	view, err := f.resolver.Resolve(context.Background(), "vencido1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusExpired, view.Status)
	assert.True(t, view.IsPasswordProtected)
}

// === VerifyPassword ===

func TestVerifyPasswordUnknownCode(t *testing.T) {
	f := newLinkFixture(t)

	_, err := f.resolver.VerifyPassword(context.Background(), "naoexiste", "tanto-faz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestVerifyPasswordUnprotectedIsTriviallySatisfied(t *testing.T) {
	f := newLinkFixture(t)
	file := f.seedFile(t, "livre123", "", nil)

	token, err := f.resolver.VerifyPassword(context.Background(), "livre123", "")
	require.NoError(t, err)

	fileID, err := f.unlock.ValidateUnlockToken(token)
	require.NoError(t, err)
	assert.Equal(t, file.ID, fileID)
}

func TestVerifyPasswordMatchAndMismatch(t *testing.T) {
	f := newLinkFixture(t)
	f.seedFile(t, "trancado", "senha-certa", nil)

	_, err := f.resolver.VerifyPassword(context.Background(), "trancado", "senha-errada")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.resolver.VerifyPassword(context.Background(), "trancado", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	token, err := f.resolver.VerifyPassword(context.Background(), "trancado", "senha-certa")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

// === Download ===

func TestDownloadUnknownID(t *testing.T) {
	f := newLinkFixture(t)

	_, err := f.resolver.Download(context.Background(), uuid.New(), "", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDownloadUnprotectedIncrementsCount(t *testing.T) {
	ctx := context.Background()
	f := newLinkFixture(t)
	file := f.seedFile(t, "baixavel", "", futureTime(48*time.Hour))

	// Dois downloads sequenciais: cada um devolve URL e soma 1
	for i := 1; i <= 2; i++ {
		url, err := f.resolver.Download(ctx, file.ID, "", "")
		require.NoError(t, err)
		assert.Contains(t, url, file.StorageKey)

		got, err := f.store.GetFileByID(ctx, file.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i), got.DownloadCount)
	}

	// Expirando o link, o terceiro download é negado e o contador congela em 2
	f.store.SetExpiresAt(file.ID, futureTime(-time.Second))
	_, err := f.resolver.Download(ctx, file.ID, "", "")
	assert.ErrorIs(t, err, ErrExpiredLink)

	got, err := f.store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.DownloadCount)
}

func TestDownloadProtectedRequiresPassword(t *testing.T) {
	ctx := context.Background()
	f := newLinkFixture(t)
	file := f.seedFile(t, "seguro12", "senha-certa", nil)

	// Sem senha e com senha errada: negado, contador intocado
	_, err := f.resolver.Download(ctx, file.ID, "", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.resolver.Download(ctx, file.ID, "senha-errada", "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	got, err := f.store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.DownloadCount)

	// Com a senha certa: URL emitida e contador soma 1
	url, err := f.resolver.Download(ctx, file.ID, "senha-certa", "")
	require.NoError(t, err)
	assert.NotEmpty(t, url)

	got, err = f.store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.DownloadCount)
}

func TestDownloadAcceptsUnlockToken(t *testing.T) {
	ctx := context.Background()
	f := newLinkFixture(t)
	file := f.seedFile(t, "comtoken", "senha-certa", nil)

	token, err := f.resolver.VerifyPassword(ctx, "comtoken", "senha-certa")
	require.NoError(t, err)

	url, err := f.resolver.Download(ctx, file.ID, "", token)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

// Token de desbloqueio de um arquivo não abre outro arquivo
func TestDownloadRejectsTokenForOtherFile(t *testing.T) {
	ctx := context.Background()
	f := newLinkFixture(t)
	f.seedFile(t, "arquivoA", "senha-a", nil)
	fileB := f.seedFile(t, "arquivoB", "senha-b", nil)

	tokenA, err := f.resolver.VerifyPassword(ctx, "arquivoA", "senha-a")
	require.NoError(t, err)

	_, err = f.resolver.Download(ctx, fileB.ID, "", tokenA)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

// Nunca incrementar sem ter produzido uma URL utilizável
func TestDownloadSignerFailureDoesNotIncrement(t *testing.T) {
	ctx := context.Background()
	f := newLinkFixture(t)
	file := f.seedFile(t, "semstore", "", nil)
	f.signer.err = errors.New("bucket indisponível")

	_, err := f.resolver.Download(ctx, file.ID, "", "")
	assert.ErrorIs(t, err, ErrStorage)

	got, err := f.store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.DownloadCount)
}

// incrementFailingStore emite URLs normalmente mas falha no contador
type incrementFailingStore struct {
	*repository.InMemoryStore
}

func (s *incrementFailingStore) IncrementDownloadCount(ctx context.Context, id uuid.UUID) (int64, error) {
	return 0, errors.New("contador fora do ar")
}

// Falha do contador DEPOIS da URL emitida é não-fatal: a URL continua válida
func TestDownloadCounterFailureIsNonFatal(t *testing.T) {
	ctx := context.Background()
	f := newLinkFixture(t)
	file := f.seedFile(t, "bestefrt", "", nil)

	broken := &incrementFailingStore{InMemoryStore: f.store}
	resolver := NewLinkResolver(broken, f.gate, f.signer, NewDownloadCounter(broken), f.unlock, 5*time.Minute)

	url, err := resolver.Download(ctx, file.ID, "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, url)
}

// N downloads concorrentes somam exatamente N no contador
func TestDownloadConcurrentCounts(t *testing.T) {
	ctx := context.Background()
	f := newLinkFixture(t)
	file := f.seedFile(t, "paralelo", "", futureTime(time.Hour))

	const n = 32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			url, err := f.resolver.Download(ctx, file.ID, "", "")
			assert.NoError(t, err)
			assert.NotEmpty(t, url)
		}()
	}
	wg.Wait()

	got, err := f.store.GetFileByID(ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), got.DownloadCount)
}
