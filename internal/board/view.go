package board

import (
	"context"
	"sync"

	"github.com/hitoshi/taskboard/internal/model"
)

// ViewMode はタスク一覧表示の状態。
type ViewMode int

const (
	// ModeViewing は通常の一覧表示状態。
	ModeViewing ViewMode = iota
	// ModeEditing は特定タスクの名前を編集中の状態。
	ModeEditing
)

// View はタスク一覧の画面状態を保持するコントローラ。
// ローカルのタスク一覧はストアへの書き込みが成功した後にのみ更新される。
// 全操作はミューテックスで直列化される。
type View struct {
	mu      sync.Mutex
	service *Service
	session *model.Session

	tasks     []*model.Task
	mode      ViewMode
	editingID string
	draft     string
}

// NewView は指定セッション向けのViewを生成する。初期状態はViewing。
func NewView(service *Service, session *model.Session) *View {
	return &View{
		service: service,
		session: session,
		mode:    ModeViewing,
	}
}

// Load はストアからタスク一覧を読み込み、ローカル一覧を置き換える。
// 編集状態はリセットされる。
func (v *View) Load(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	tasks, err := v.service.Load(ctx, v.session)
	if err != nil {
		return err
	}

	v.tasks = tasks
	v.mode = ModeViewing
	v.editingID = ""
	v.draft = ""
	return nil
}

// Tasks は現在のローカル一覧のコピーを返す。
func (v *View) Tasks() []*model.Task {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]*model.Task, len(v.tasks))
	copy(out, v.tasks)
	return out
}

// Mode は現在の表示状態を返す。
func (v *View) Mode() ViewMode {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode
}

// EditingTask は編集中のタスクIDと下書きテキストを返す。
// Viewing状態では空文字列を返す。
func (v *View) EditingTask() (taskID, draft string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.editingID, v.draft
}

// Add は新しいタスクを作成し、成功した場合のみ一覧の末尾に追加する。
// 失敗時はローカル一覧は変化しない。
func (v *View) Add(ctx context.Context, text string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	task, err := v.service.Add(ctx, v.session, text)
	if err != nil {
		return err
	}

	v.tasks = append(v.tasks, task)
	return nil
}

// StartEdit は指定タスクの編集を開始し、下書きに現在の名前を設定する。
// VIPでないセッションは編集を開始できない。
func (v *View) StartEdit(taskID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.session.VIP {
		return model.NewVIPRequiredError()
	}

	for _, t := range v.tasks {
		if t.ID == taskID {
			v.mode = ModeEditing
			v.editingID = taskID
			v.draft = t.TaskName
			return nil
		}
	}
	return model.NewTaskNotFoundError(taskID)
}

// SetDraft は編集中の下書きテキストを更新する。Viewing状態ではno-op。
func (v *View) SetDraft(text string) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode != ModeEditing {
		return
	}
	v.draft = text
}

// CancelEdit は編集を破棄してViewing状態に戻る。一覧は変化しない。
func (v *View) CancelEdit() {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.mode = ModeViewing
	v.editingID = ""
	v.draft = ""
}

// SubmitEdit は下書きの内容でタスク名を確定する。
// 更新が成功した場合のみローカル一覧を書き換え（位置・id・created_atは不変）、
// Viewing状態に戻る。失敗時は編集状態を保持する。
func (v *View) SubmitEdit(ctx context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode != ModeEditing {
		return nil
	}

	task, err := v.service.Rename(ctx, v.session, v.editingID, v.draft)
	if err != nil {
		return err
	}

	for i, t := range v.tasks {
		if t.ID == task.ID {
			v.tasks[i] = task
			break
		}
	}

	v.mode = ModeViewing
	v.editingID = ""
	v.draft = ""
	return nil
}

// Delete はタスクを削除し、成功した場合のみローカル一覧から取り除く。
// 削除したタスクを編集中だった場合は編集状態もクリアする。
func (v *View) Delete(ctx context.Context, taskID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.service.Delete(ctx, v.session, taskID); err != nil {
		return err
	}

	for i, t := range v.tasks {
		if t.ID == taskID {
			v.tasks = append(v.tasks[:i], v.tasks[i+1:]...)
			break
		}
	}

	if v.editingID == taskID {
		v.mode = ModeViewing
		v.editingID = ""
		v.draft = ""
	}

	return nil
}
