package model

import "time"

// Task はボード上のタスクを表す。
// 作成したidentityが排他的に所有する。名前変更は所有者かつVIPのみ、
// 削除はVIPにかかわらず所有者のみが行える。
type Task struct {
	ID        string
	CreatedAt time.Time
	TaskName  string
	OwnerID   string
	OwnerName string
}
