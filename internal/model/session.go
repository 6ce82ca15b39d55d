// Package model はドメインモデルを定義する。
package model

import "time"

// Session はユーザーのログインセッションを表す。
// VIPとLastDonateはセッション作成時に寄付レコードから解決され、
// セッションの生存期間中は不変として扱う。
type Session struct {
	ID          string
	IdentityID  string
	DisplayName string
	AvatarURL   string
	VIP         bool
	LastDonate  *time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
}
