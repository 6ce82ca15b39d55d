package cleanup

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

// SessionDeleter インターフェースに対するモック実装
type mockSessionDeleter struct {
	deleteCalled int
	deletedCount int64
	err          error
}

func (m *mockSessionDeleter) DeleteExpired(ctx context.Context) (int64, error) {
	m.deleteCalled++
	return m.deletedCount, m.err
}

// MetricsRecorder インターフェースに対するモック実装
type mockMetrics struct {
	cleaned int64
}

func (m *mockMetrics) RecordSessionsCleaned(count int64) {
	m.cleaned += count
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestNewCleanupJob_ReturnsNonNil(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	job := NewCleanupJob(&mockSessionDeleter{}, logger, nil)

	if job == nil {
		t.Fatal("NewCleanupJob は nil を返してはならない")
	}
}

func TestCleanupJob_Run_DeletesExpiredSessions(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	mock := &mockSessionDeleter{deletedCount: 5}
	job := NewCleanupJob(mock, logger, nil)

	err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() がエラーを返した: %v", err)
	}

	if mock.deleteCalled != 1 {
		t.Errorf("DeleteExpired の呼び出し回数 = %d, want 1", mock.deleteCalled)
	}
}

func TestCleanupJob_Run_LogsDeletedCount(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	mock := &mockSessionDeleter{deletedCount: 42}
	job := NewCleanupJob(mock, logger, nil)

	_ = job.Run(context.Background())

	// ログ出力に削除件数が含まれること
	var entry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	found := false
	for _, line := range lines {
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if count, ok := entry["deleted_count"]; ok {
			if count == float64(42) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Errorf("ログに deleted_count=42 が記録されていない。ログ出力: %s", buf.String())
	}
}

func TestCleanupJob_Run_RecordsMetrics(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	metrics := &mockMetrics{}
	job := NewCleanupJob(&mockSessionDeleter{deletedCount: 7}, logger, metrics)

	err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() がエラーを返した: %v", err)
	}

	if metrics.cleaned != 7 {
		t.Errorf("計測された削除件数 = %d, want 7", metrics.cleaned)
	}
}

func TestCleanupJob_Run_ReturnsErrorOnDBFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	mock := &mockSessionDeleter{err: sql.ErrConnDone}
	job := NewCleanupJob(mock, logger, nil)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatal("DBエラー時に Run() は nil でないエラーを返すべき")
	}

	if !strings.Contains(err.Error(), "sql: connection is already closed") {
		t.Errorf("エラーメッセージが期待と異なる: %v", err)
	}
}

func TestCleanupJob_Run_LogsErrorOnDBFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	mock := &mockSessionDeleter{err: sql.ErrConnDone}
	job := NewCleanupJob(mock, logger, nil)

	_ = job.Run(context.Background())

	logOutput := buf.String()
	if !strings.Contains(logOutput, "ERROR") {
		t.Errorf("エラー時にERRORレベルのログが記録されていない。ログ出力: %s", logOutput)
	}
}

func TestCleanupJob_Run_DoesNotRecordMetricsOnFailure(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	metrics := &mockMetrics{}
	job := NewCleanupJob(&mockSessionDeleter{err: sql.ErrConnDone}, logger, metrics)

	_ = job.Run(context.Background())

	if metrics.cleaned != 0 {
		t.Errorf("失敗時に計測された削除件数 = %d, want 0", metrics.cleaned)
	}
}

func TestCleanupJob_Run_Idempotent_ZeroRows(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	mock := &mockSessionDeleter{deletedCount: 0}
	job := NewCleanupJob(mock, logger, nil)

	// 1回目の実行
	err := job.Run(context.Background())
	if err != nil {
		t.Fatalf("1回目の Run() がエラーを返した: %v", err)
	}

	// 2回目の実行（冪等性: 削除対象がなくてもエラーにならない）
	err = job.Run(context.Background())
	if err != nil {
		t.Fatalf("2回目の Run() がエラーを返した: %v", err)
	}
}

func TestCleanupJob_Run_LogsZeroDeletedCount(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	mock := &mockSessionDeleter{deletedCount: 0}
	job := NewCleanupJob(mock, logger, nil)

	_ = job.Run(context.Background())

	// 0件削除でもログが出力されること
	var entry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	found := false
	for _, line := range lines {
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if count, ok := entry["deleted_count"]; ok {
			if count == float64(0) {
				found = true
				break
			}
		}
	}
	if !found {
		t.Errorf("0件削除時にもログに deleted_count=0 が記録されるべき。ログ出力: %s", buf.String())
	}
}

func TestCleanupJob_Run_LogsExecutionTime(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	mock := &mockSessionDeleter{deletedCount: 3}
	job := NewCleanupJob(mock, logger, nil)

	_ = job.Run(context.Background())

	var entry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	found := false
	for _, line := range lines {
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		if _, ok := entry["duration_ms"]; ok {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("ログに duration_ms が記録されていない。ログ出力: %s", buf.String())
	}
}
