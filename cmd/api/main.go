package main

import (
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/bluecascade/tilestore/internal/config"
	"github.com/bluecascade/tilestore/internal/handler"
	"github.com/bluecascade/tilestore/internal/infra/db"
	infraRepo "github.com/bluecascade/tilestore/internal/infra/repository"
	"github.com/bluecascade/tilestore/internal/logger"
	"github.com/bluecascade/tilestore/internal/server"
	"github.com/bluecascade/tilestore/internal/usecase"
	auth "github.com/bluecascade/tilestore/internal/usecase/auth_usecase"
)

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()

	log, err := logger.New(cfg.IsDev())
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if err := db.Migrate(gormDB); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	if err := db.SeedDefaultAdmin(gormDB, cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatal("admin seed failed", zap.Error(err))
	}

	tileRepo := infraRepo.NewTileGormRepository(gormDB)
	adminRepo := infraRepo.NewAdminGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)

	clock := &realClock{}
	verifier := auth.NewBcryptPasswordVerifier()
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.TokenTTL)

	tileUC := usecase.NewTileUsecase(tileRepo, auditRepo, log)
	dashUC := usecase.NewDashboardUsecase(tileRepo, auditRepo, log)
	loginUC := auth.NewLoginUsecase(adminRepo, auditRepo, verifier, tokens, tokens, clock, log)

	dev := cfg.IsDev()
	e := server.New(log, tokens, server.Handlers{
		Tiles:      handler.NewTileHandler(tileUC, dev),
		AdminTiles: handler.NewAdminTileHandler(tileUC, dev),
		Auth:       handler.NewAuthHandler(loginUC, dev),
		Admin:      handler.NewAdminHandler(dashUC, dev),
	})

	addr := ":" + cfg.Port
	log.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.GoEnv))
	if err := server.Start(e, addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
