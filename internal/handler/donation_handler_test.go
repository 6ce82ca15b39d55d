package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hitoshi/taskboard/internal/model"
)

// mockDonationService はDonationServiceInterfaceのモック実装。
type mockDonationService struct {
	recordFn         func(ctx context.Context, session *model.Session, orderID string) error
	listSupportersFn func(ctx context.Context) ([]*model.DonorRecord, error)
}

func (m *mockDonationService) Record(ctx context.Context, session *model.Session, orderID string) error {
	if m.recordFn != nil {
		return m.recordFn(ctx, session, orderID)
	}
	return nil
}

func (m *mockDonationService) ListSupporters(ctx context.Context) ([]*model.DonorRecord, error) {
	if m.listSupportersFn != nil {
		return m.listSupportersFn(ctx)
	}
	return nil, nil
}

func TestDonationHandler_RecordDonation_Success(t *testing.T) {
	var recordedOrderID string
	svc := &mockDonationService{
		recordFn: func(ctx context.Context, session *model.Session, orderID string) error {
			if session.IdentityID != "github:1234" {
				t.Errorf("identityID = %q, want %q", session.IdentityID, "github:1234")
			}
			recordedOrderID = orderID
			return nil
		},
	}

	h := NewDonationHandler(svc)

	body, _ := json.Marshal(recordDonationRequest{OrderID: "ORDER-1", PayerName: "Hitoshi I."})
	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
	req = withSession(req, handlerTestSession(false))
	w := httptest.NewRecorder()

	h.RecordDonation(w, req)

	if w.Result().StatusCode != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusCreated)
	}
	if recordedOrderID != "ORDER-1" {
		t.Errorf("orderID = %q, want %q", recordedOrderID, "ORDER-1")
	}
}

func TestDonationHandler_RecordDonation_NoSession_Returns401(t *testing.T) {
	h := NewDonationHandler(&mockDonationService{})

	body, _ := json.Marshal(recordDonationRequest{OrderID: "ORDER-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
	w := httptest.NewRecorder()

	h.RecordDonation(w, req)

	if w.Result().StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnauthorized)
	}
}

func TestDonationHandler_RecordDonation_EmptyOrderID_Returns400(t *testing.T) {
	svc := &mockDonationService{
		recordFn: func(ctx context.Context, session *model.Session, orderID string) error {
			t.Fatal("service should not be called for empty order ID")
			return nil
		},
	}
	h := NewDonationHandler(svc)

	body, _ := json.Marshal(recordDonationRequest{OrderID: ""})
	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
	req = withSession(req, handlerTestSession(false))
	w := httptest.NewRecorder()

	h.RecordDonation(w, req)

	if w.Result().StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusBadRequest)
	}
}

func TestDonationHandler_RecordDonation_IncompletePayment_Returns422(t *testing.T) {
	svc := &mockDonationService{
		recordFn: func(ctx context.Context, session *model.Session, orderID string) error {
			return model.NewPaymentNotCompletedError(orderID)
		},
	}
	h := NewDonationHandler(svc)

	body, _ := json.Marshal(recordDonationRequest{OrderID: "ORDER-PENDING"})
	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
	req = withSession(req, handlerTestSession(false))
	w := httptest.NewRecorder()

	h.RecordDonation(w, req)

	if w.Result().StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusUnprocessableEntity)
	}

	errResp := parseAPIErrorResponse(t, w)
	if errResp["code"] != model.ErrCodePaymentNotCompleted {
		t.Errorf("code = %q, want %q", errResp["code"], model.ErrCodePaymentNotCompleted)
	}
}

func TestDonationHandler_RecordDonation_GrantFailure_Returns409(t *testing.T) {
	svc := &mockDonationService{
		recordFn: func(ctx context.Context, session *model.Session, orderID string) error {
			return model.NewDonationGrantFailedError()
		},
	}
	h := NewDonationHandler(svc)

	body, _ := json.Marshal(recordDonationRequest{OrderID: "ORDER-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
	req = withSession(req, handlerTestSession(false))
	w := httptest.NewRecorder()

	h.RecordDonation(w, req)

	if w.Result().StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusConflict)
	}
}

func TestDonationHandler_RecordDonation_UnexpectedError_Returns500(t *testing.T) {
	svc := &mockDonationService{
		recordFn: func(ctx context.Context, session *model.Session, orderID string) error {
			return errors.New("connection refused")
		},
	}
	h := NewDonationHandler(svc)

	body, _ := json.Marshal(recordDonationRequest{OrderID: "ORDER-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/donations", bytes.NewReader(body))
	req = withSession(req, handlerTestSession(false))
	w := httptest.NewRecorder()

	h.RecordDonation(w, req)

	if w.Result().StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Result().StatusCode, http.StatusInternalServerError)
	}
}
