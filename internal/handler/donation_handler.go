package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/hitoshi/taskboard/internal/middleware"
	"github.com/hitoshi/taskboard/internal/model"
)

// DonationServiceInterface は寄付ハンドラーが必要とするサービスインターフェース。
type DonationServiceInterface interface {
	// Record は支払い完了を検証した上でドナー記録をupsertする。
	Record(ctx context.Context, session *model.Session, orderID string) error
	// ListSupporters は全ドナー記録を返す。
	ListSupporters(ctx context.Context) ([]*model.DonorRecord, error)
}

// DonationHandler は寄付記録のHTTPハンドラー。
type DonationHandler struct {
	service DonationServiceInterface
}

// NewDonationHandler はDonationHandlerを生成する。
func NewDonationHandler(service DonationServiceInterface) *DonationHandler {
	return &DonationHandler{service: service}
}

// recordDonationRequest は支払い完了コールバックのボディ。
// PayerNameはログ出力のみに使い、保存はしない。
type recordDonationRequest struct {
	OrderID   string `json:"order_id"`
	PayerName string `json:"payer_name"`
}

// RecordDonation は支払い完了を検証して寄付を記録する。
// POST /api/donations
func (h *DonationHandler) RecordDonation(w http.ResponseWriter, r *http.Request) {
	session, err := middleware.SessionFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req recordDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, invalidRequestError())
		return
	}

	if req.OrderID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest, &model.APIError{
			Code:     "INVALID_REQUEST",
			Message:  "注文IDが空です。",
			Category: "validation",
			Action:   "order_idを指定してください。",
		})
		return
	}

	slog.Info("donation callback received",
		slog.String("identity_id", session.IdentityID),
		slog.String("order_id", req.OrderID),
		slog.String("payer_name", req.PayerName),
	)

	if err := h.service.Record(r.Context(), session, req.OrderID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]bool{"recorded": true})
}
