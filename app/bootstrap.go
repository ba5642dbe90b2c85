package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"library-management-backend/db"
	"library-management-backend/models"
)

// BootstrapFirstAdmin creates the initial admin account when the users
// table has none and bootstrap credentials are configured. Without an
// admin nobody can approve requests or manage the catalog.
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo, log zerolog.Logger) {
	if cfg.BootstrapAdminUsername == "" || cfg.BootstrapAdminPassword == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap: count admins")
		return
	}
	if n > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Error().Err(err).Msg("bootstrap: hash password")
		return
	}
	u := &models.User{
		ID:           uuid.NewString(),
		Username:     cfg.BootstrapAdminUsername,
		Email:        cfg.BootstrapAdminEmail,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		FullName:     cfg.BootstrapAdminUsername,
		IsActive:     true,
	}
	if err := repo.CreateUser(ctx, u); err != nil {
		log.Error().Err(err).Msg("bootstrap: create admin")
		return
	}
	log.Info().Str("username", u.Username).Msg("bootstrap: created first admin")
}
