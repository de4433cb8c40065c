package handlers

import (
	"taskhub/internal/config"
	"taskhub/internal/services"
	"taskhub/internal/store"
)

type Deps struct {
	AuthHandler *AuthHandler
	TaskHandler *TaskHandler
	Tokens      *services.TokenService
}

// NewDeps wires the service graph once at startup; everything below the
// handlers is stateless and shared by reference.
func NewDeps(cfg config.Config) *Deps {
	st := store.NewClient(cfg.StoreURL, cfg.StoreTimeout)
	creds := services.NewCredentialService(cfg.BcryptCost)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTExpire)

	authSvc := services.NewAuthService(st, creds, tokens)
	taskSvc := services.NewTaskService(st)

	return &Deps{
		AuthHandler: &AuthHandler{Auth: authSvc},
		TaskHandler: &TaskHandler{Tasks: taskSvc},
		Tokens:      tokens,
	}
}
