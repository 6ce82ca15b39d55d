// Package auth はOAuth認証フロー、セッション管理、VIP解決を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/repository"
)

// OAuthUserInfo はOAuthプロバイダーから取得したユーザー情報を表す。
type OAuthUserInfo struct {
	ProviderUserID string
	Name           string
	AvatarURL      string
	Provider       string // "github" 等
}

// OAuthProvider はOAuth認証プロバイダーのインターフェース。
// 将来的に複数IdP（GitHub, Google等）に対応するための抽象化。
type OAuthProvider interface {
	// GetLoginURL はOAuth認証URLを生成する。
	GetLoginURL(state string) string
	// ExchangeCode は認可コードをトークンに交換し、ユーザー情報を取得する。
	ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
// セッション作成時に支援者レコードを参照してVIPステータスを解決する。
type Service struct {
	oauth       OAuthProvider
	donorRepo   repository.DonorRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	oauth OAuthProvider,
	donorRepo repository.DonorRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		oauth:       oauth,
		donorRepo:   donorRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// GetLoginURL はOAuth認証URLを生成する。
func (s *Service) GetLoginURL(state string) string {
	return s.oauth.GetLoginURL(state)
}

// HandleCallback はOAuthコールバックを処理し、セッションを発行する。
// VIPステータスと最終寄付日時はここで1回だけ解決され、
// セッションに焼き付けられる（セッションの生存期間中は不変）。
func (s *Service) HandleCallback(ctx context.Context, code string) (*model.Session, error) {
	// 1. 認可コードをトークンに交換し、ユーザー情報を取得
	userInfo, err := s.oauth.ExchangeCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code: %w", err)
	}

	// 2. 支援者レコードからVIPステータスを解決
	vip, lastDonate := s.ResolveVIP(ctx, userInfo.ProviderUserID)

	// 3. セッションを発行
	session, err := s.createSession(ctx, userInfo, vip, lastDonate)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in",
		slog.String("identity_id", userInfo.ProviderUserID),
		slog.String("provider", userInfo.Provider),
		slog.Bool("vip", vip),
	)

	return session, nil
}

// ResolveVIP は支援者レコードの有無からVIPステータスを導出する。
// レコードが存在しlast_donateが設定されていればVIP。
// レコードがない場合、および参照に失敗した場合は非VIPにフェイルオープンする
// （リトライなし、ログのみ）。参照失敗でもidentityは保持される。
func (s *Service) ResolveVIP(ctx context.Context, identityID string) (bool, *time.Time) {
	record, err := s.donorRepo.FindByIdentityID(ctx, identityID)
	if err != nil {
		slog.Warn("donor lookup failed, degrading to non-VIP",
			slog.String("identity_id", identityID),
			slog.String("error", err.Error()),
		)
		return false, nil
	}
	if record == nil || record.LastDonate.IsZero() {
		return false, nil
	}

	lastDonate := record.LastDonate
	return true, &lastDonate
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetSession はセッションIDから有効なセッションを取得する。
// 見つからない・期限切れの場合はnilを返す。
func (s *Service) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session ID is required")
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	return session, nil
}

// createSession はVIPスナップショット付きのセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userInfo *OAuthUserInfo, vip bool, lastDonate *time.Time) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:          sessionID,
		IdentityID:  userInfo.ProviderUserID,
		DisplayName: userInfo.Name,
		AvatarURL:   userInfo.AvatarURL,
		VIP:         vip,
		LastDonate:  lastDonate,
		ExpiresAt:   time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt:   time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
