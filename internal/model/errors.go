package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, task, payment, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeValidationFailed    = "VALIDATION_FAILED"
	ErrCodeTaskNotFound        = "TASK_NOT_FOUND"
	ErrCodeNotTaskOwner        = "NOT_TASK_OWNER"
	ErrCodeVIPRequired         = "VIP_REQUIRED"
	ErrCodePaymentNotCompleted = "PAYMENT_NOT_COMPLETED"
	ErrCodeDonationGrantFailed = "DONATION_GRANT_FAILED"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewEmptyTaskTextError はタスク本文が空の場合のバリデーションエラーを生成する。
// ストアへの書き込みが行われる前に返す。
func NewEmptyTaskTextError() *APIError {
	return &APIError{
		Code:     ErrCodeValidationFailed,
		Message:  "タスクを入力してください。",
		Category: "validation",
		Action:   "タスクの内容を入力してから追加してください。",
	}
}

// NewTaskNotFoundError はタスク未検出エラーを生成する。
func NewTaskNotFoundError(taskID string) *APIError {
	return &APIError{
		Code:     ErrCodeTaskNotFound,
		Message:  fmt.Sprintf("指定されたタスクが見つかりません: %s", taskID),
		Category: "task",
		Action:   "タスク一覧を再読み込みしてください。",
	}
}

// NewNotTaskOwnerError は所有者以外による操作エラーを生成する。
func NewNotTaskOwnerError() *APIError {
	return &APIError{
		Code:     ErrCodeNotTaskOwner,
		Message:  "このタスクを操作する権限がありません。",
		Category: "auth",
		Action:   "自分が作成したタスクのみ操作できます。",
	}
}

// NewVIPRequiredError はVIP限定機能への非VIPアクセスエラーを生成する。
func NewVIPRequiredError() *APIError {
	return &APIError{
		Code:     ErrCodeVIPRequired,
		Message:  "この機能は支援者限定です。",
		Category: "auth",
		Action:   "寄付ページから支援するとタスクの編集ができるようになります。",
	}
}

// NewPaymentNotCompletedError は決済が完了状態でない場合のエラーを生成する。
func NewPaymentNotCompletedError(orderID string) *APIError {
	return &APIError{
		Code:     ErrCodePaymentNotCompleted,
		Message:  fmt.Sprintf("決済が完了していません: %s", orderID),
		Category: "payment",
		Action:   "決済の完了後に再度お試しください。",
	}
}

// NewDonationGrantFailedError は決済完了後の支援者登録失敗エラーを生成する。
// 決済は外部プロバイダーで既に成立しているため、このエラーは
// 入金済み・特典未付与の不整合（要アラート）を意味する。
func NewDonationGrantFailedError() *APIError {
	return &APIError{
		Code:     ErrCodeDonationGrantFailed,
		Message:  "支援者情報の登録に失敗しました。",
		Category: "payment",
		Action:   "お手数ですが運営までお問い合わせください。決済は完了しています。",
	}
}
