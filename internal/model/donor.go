package model

import "time"

// DonorRecord は決済が完了した支援者の永続レコードを表す。
// identityごとに1件、決済成功のたびに上書きされる。削除はされない。
// LastDonateが設定されたレコードの存在は、そのidentityの以後の
// セッションでVIP=trueになることを意味する。
type DonorRecord struct {
	IdentityID string
	Donated    bool
	LastDonate time.Time
	AvatarURL  string
	UpdatedAt  time.Time
}
