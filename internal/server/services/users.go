// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, dashboards, and
// issuing/refreshing JWTs plus server-stored refresh tokens.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ciclone-ptc/ciclone/internal/common"
	"github.com/ciclone-ptc/ciclone/internal/dbx"
	"github.com/ciclone-ptc/ciclone/internal/server/auth"
	"github.com/ciclone-ptc/ciclone/internal/server/config"
	"github.com/ciclone-ptc/ciclone/internal/server/models"
	"github.com/ciclone-ptc/ciclone/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// UserService provides account-related operations:
// - Register: create accounts with hashed passwords
// - Login / LoginCompleto: verify credentials and mint tokens
// - Dashboard: account plus click counters by id
// - RefreshToken: rotate refresh tokens and mint new access tokens
type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// RegisterRequest carries the /api/cadastro payload.
type RegisterRequest struct {
	Nome     string
	Email    string
	Senha    string
	ChavePix string
	Telefone string
	Avatar   string
}

// Register creates a new account. The password is stored as a bcrypt hash
// and the account starts receiving credits with a zero balance.
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*models.Account, error) {
	if strings.TrimSpace(req.Nome) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		req.Senha == "" {
		return nil, common.ErrorValidation
	}

	hash, err := auth.HashPassword(req.Senha)
	if err != nil {
		return nil, common.ErrorInternal
	}

	account := &models.Account{
		Nome:             req.Nome,
		Email:            req.Email,
		SenhaHash:        hash,
		ChavePix:         req.ChavePix,
		Telefone:         req.Telefone,
		Avatar:           req.Avatar,
		ReceivingCredits: true,
	}

	repo := s.repomanager.Accounts(s.db)
	created, err := repo.Create(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("error creating account: %v", err)
	}
	return created, nil
}

// Login verifies the email/password pair against the stored bcrypt hash and,
// on success, returns the account and a new TokenPair.
func (s *UserService) Login(ctx context.Context, email, senha string) (*models.Account, *TokenPair, error) {
	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorUnauthorized
		}
		return nil, nil, common.ErrorInternal
	}
	if !auth.CheckPassword(account.SenhaHash, senha) {
		return nil, nil, common.ErrorUnauthorized
	}
	pair, err := s.generateTokenPair(ctx, account.ID, s.db)
	if err != nil {
		return nil, nil, err
	}
	return account, pair, nil
}

// LoginCompleto behaves like Login and additionally returns the account's
// click counters.
func (s *UserService) LoginCompleto(ctx context.Context, email, senha string) (*models.Account, *models.ClickCounter, *TokenPair, error) {
	account, pair, err := s.Login(ctx, email, senha)
	if err != nil {
		return nil, nil, nil, err
	}
	counter, err := s.repomanager.Clicks(s.db).Get(ctx, account.Email)
	if err != nil {
		return nil, nil, nil, common.ErrorInternal
	}
	return account, counter, pair, nil
}

// Dashboard returns the account and its click counters by account id.
func (s *UserService) Dashboard(ctx context.Context, userID int64) (*models.Account, *models.ClickCounter, error) {
	account, err := s.repomanager.Accounts(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, common.ErrorNotFound
		}
		return nil, nil, common.ErrorInternal
	}
	counter, err := s.repomanager.Clicks(s.db).Get(ctx, account.Email)
	if err != nil {
		return nil, nil, common.ErrorInternal
	}
	return account, counter, nil
}

// RefreshToken validates a refresh token, rotates it transactionally, and
// returns a fresh TokenPair. Expired tokens yield ErrRefreshTokenExpired.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	repo := s.repomanager.RefreshTokens(s.db)

	token, err := repo.Find(ctx, refreshToken)
	if err != nil {
		return nil, fmt.Errorf("error searching refresh token: %v", err)
	}
	if token.Expires.Before(time.Now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repoTx := s.repomanager.RefreshTokens(tx)
		if err := repoTx.Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %v", err)
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, token.UserID, tx)
		return genErr
	}); err != nil {
		return nil, err
	}
	return pair, nil
}

// --- helpers below ---

func (s *UserService) generateAccessToken(userID int64) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
}

func (s *UserService) generateRefreshToken() (string, error) {
	return common.MakeRandHexString(32)
}

func (s *UserService) generateTokenPair(ctx context.Context, userID int64, tx dbx.DBTX) (*TokenPair, error) {
	access, err := s.generateAccessToken(userID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := s.generateRefreshToken()
	if err != nil {
		return nil, common.ErrorInternal
	}
	refreshRepo := s.repomanager.RefreshTokens(tx)
	if err := refreshRepo.Create(ctx, userID, refresh, s.refreshTokenValidityDuration); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
