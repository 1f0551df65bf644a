package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sharebox-backend/internal/api"
	"sharebox-backend/internal/auth"
	"sharebox-backend/internal/config"
	"sharebox-backend/internal/repository"
	"sharebox-backend/internal/service"
	"sharebox-backend/internal/shortcode"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Carregar o arquivo .env (antes de carregar a configuração)
	err := godotenv.Load()
	if err != nil {
		// Em produção o app pode rodar sem .env, desde que as variáveis
		// estejam setadas no ambiente (ex: no Docker/K8s)
		log.Printf("Aviso: Não foi possível carregar o arquivo .env: %v. (Usando variáveis de ambiente existentes)", err)
	}

	var cfg config.Config
	if err := config.Load(&cfg); err != nil {
		log.Fatalf("Falha ao carregar configuração: %v", err)
	}

	// 2. Inicializar Camada de Repositório (PostgreSQL)
	initCtx, cancelInit := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelInit()

	store, err := repository.NewPostgresStore(initCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Falha ao conectar ao banco de dados: %v", err)
	}
	defer store.Close()
	log.Println("Conectado ao PostgreSQL!")

	// 3. Rodar Migrations
	migrationSQL, err := os.ReadFile("./migrations/001_init.sql")
	if err != nil {
		log.Fatalf("Falha ao ler arquivo de migração: %v", err)
	}

	if err := store.RunMigrations(initCtx, string(migrationSQL)); err != nil {
		log.Printf("Aviso ao rodar migrações: %v. (Continuando...)", err)
	} else {
		log.Println("Migrações do banco de dados aplicadas com sucesso.")
	}

	// 4. Inicializar o cliente S3 (colaborador de armazenamento)
	awsCfg, err := awsconfig.LoadDefaultConfig(initCtx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		log.Fatalf("Falha ao carregar configuração AWS: %v", err)
	}
	s3Service := service.NewS3Service(s3.NewFromConfig(awsCfg), cfg.AWSBucketName)

	// 5. Inicializar Camada de Serviço
	unlockTokens, err := auth.NewUnlockTokenService(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Falha ao iniciar UnlockTokenService: %v", err)
	}

	generator := shortcode.NewGenerator(store, cfg.ShortCodeLength)
	passwordGate := service.NewPasswordGate()
	counter := service.NewDownloadCounter(store)
	linkResolver := service.NewLinkResolver(store, passwordGate, s3Service, counter, unlockTokens, cfg.DownloadURLLifetime)
	uploadService := service.NewUploadService(store, generator, passwordGate, s3Service, cfg.UploadURLLifetime)

	// 6. Inicializar Camada de API
	handler := api.NewHandler(linkResolver, uploadService, cfg.ClientURL)

	// 7. Configurar Servidor HTTP
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      handler.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Iniciar Servidor
	go func() {
		log.Printf("Servidor iniciado em http://localhost:%d/v1", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Erro ao iniciar servidor: %v", err)
		}
	}()

	// Aguardar sinal de interrupção
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Recebido sinal de desligamento, encerrando servidor...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Erro no graceful shutdown: %v", err)
	}
	log.Println("Servidor encerrado.")
}
