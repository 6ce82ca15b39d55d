// Package donation は寄付の検証と記録を提供する。
package donation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
	"github.com/hitoshi/taskboard/internal/paypal"
	"github.com/hitoshi/taskboard/internal/repository"
)

// OrderVerifier はPayPal注文の照会インターフェース。
type OrderVerifier interface {
	GetOrder(ctx context.Context, orderID string) (*paypal.Order, error)
}

// MetricsRecorder は寄付処理のメトリクス記録インターフェース。
type MetricsRecorder interface {
	RecordDonationRecorded()
	RecordDonationGrantFailed()
}

// Service は寄付の検証・記録のサービス層。
type Service struct {
	verifier  OrderVerifier
	donorRepo repository.DonorRepository
	metrics   MetricsRecorder
}

// NewService はServiceの新しいインスタンスを生成する。
// metricsはnil可。
func NewService(verifier OrderVerifier, donorRepo repository.DonorRepository, metrics MetricsRecorder) *Service {
	return &Service{
		verifier:  verifier,
		donorRepo: donorRepo,
		metrics:   metrics,
	}
}

// Record は支払い完了を検証した上でドナー記録をupsertする。
// 決済は完了しているのに記録に失敗した状態はsplit-brainであり、
// 通常の障害とは区別してアラート対象のエラーとして返す。
func (s *Service) Record(ctx context.Context, session *model.Session, orderID string) error {
	order, err := s.verifier.GetOrder(ctx, orderID)
	if err != nil {
		return fmt.Errorf("failed to verify paypal order: %w", err)
	}
	if !order.Completed() {
		return model.NewPaymentNotCompletedError(orderID)
	}

	record := &model.DonorRecord{
		IdentityID: session.IdentityID,
		Donated:    true,
		LastDonate: time.Now(),
		AvatarURL:  session.AvatarURL,
		UpdatedAt:  time.Now(),
	}

	if err := s.donorRepo.Upsert(ctx, record); err != nil {
		// 決済完了済み・記録失敗。手動リカバリが必要になるためここは必ず検知する
		slog.Error("ALERT: donation captured but grant failed",
			slog.String("identity_id", session.IdentityID),
			slog.String("order_id", orderID),
			slog.String("error", err.Error()),
		)
		if s.metrics != nil {
			s.metrics.RecordDonationGrantFailed()
		}
		return model.NewDonationGrantFailedError()
	}

	if s.metrics != nil {
		s.metrics.RecordDonationRecorded()
	}

	slog.Info("donation recorded",
		slog.String("identity_id", session.IdentityID),
		slog.String("order_id", orderID),
	)

	return nil
}

// ListSupporters は全ドナー記録を最終寄付日時の新しい順で返す。
func (s *Service) ListSupporters(ctx context.Context) ([]*model.DonorRecord, error) {
	donors, err := s.donorRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("ドナー一覧の取得に失敗しました: %w", err)
	}
	return donors, nil
}
