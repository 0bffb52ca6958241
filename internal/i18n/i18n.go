// Package i18n resolves user-visible labels from message catalogs.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys
const (
	KeyAppTitle            = "app.title"
	KeyLoading             = "app.loading"
	KeyNoPulls             = "list.empty"
	KeyRepoLoadFailed      = "list.repo_failed"
	KeyUnknownUser         = "list.unknown_user"
	KeyCommentLabel        = "form.comment"
	KeyCommentPlaceholder  = "form.comment.placeholder"
	KeySelected            = "form.selected"
	KeyButtonComment       = "button.comment"
	KeyButtonApprove       = "button.approve"
	KeyButtonRequestChange = "button.request_changes"
	KeyTitleComment        = "dialog.title.comment"
	KeyTitleApprove        = "dialog.title.approve"
	KeyTitleRequestChange  = "dialog.title.request_changes"
	KeyDialogTargets       = "dialog.targets"
	KeyDialogConfirm       = "dialog.confirm"
	KeyDialogRunning       = "dialog.running"
	KeyDialogError         = "dialog.error"
	KeyDialogCopy          = "dialog.copy"
	KeyAlertFailed         = "alert.failed"
	KeyAlertCopied         = "alert.copied"
	KeyToastSuccess        = "toast.success"
	KeyHelpList            = "help.list"
	KeyHelpComment         = "help.comment"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeyAppTitle:            "Batch review",
		KeyLoading:             "Loading pull requests…",
		KeyNoPulls:             "No open pull requests",
		KeyRepoLoadFailed:      "failed to load: %v",
		KeyUnknownUser:         "Signed-in user unknown: self-review protection is off",
		KeyCommentLabel:        "Comment",
		KeyCommentPlaceholder:  "Leave a comment",
		KeySelected:            "%d selected",
		KeyButtonComment:       "c comment",
		KeyButtonApprove:       "a approve",
		KeyButtonRequestChange: "x request changes",
		KeyTitleComment:        "Comment on selected pull requests",
		KeyTitleApprove:        "Approve selected pull requests",
		KeyTitleRequestChange:  "Request changes on selected pull requests",
		KeyDialogTargets:       "%d pull requests will be reviewed:",
		KeyDialogConfirm:       "enter/y submit   esc/n cancel",
		KeyDialogRunning:       "Submitting… %.0f%%",
		KeyDialogError:         "Error: %v",
		KeyDialogCopy:          "C copy failed items",
		KeyAlertFailed:         "Failed to submit %d review(s):",
		KeyAlertCopied:         "Copied failed items to clipboard",
		KeyToastSuccess:        "Submitted %d review(s)",
		KeyHelpList:            "↑/↓ move   space select   A select repo   tab comment   r reload   q quit",
		KeyHelpComment:         "tab back to list   esc back to list",
	},
	language.Japanese: {
		KeyAppTitle:            "一括レビュー",
		KeyLoading:             "プルリクエストを読み込み中…",
		KeyNoPulls:             "オープンなプルリクエストはありません",
		KeyRepoLoadFailed:      "読み込みに失敗しました: %v",
		KeyUnknownUser:         "ログインユーザーが不明のため、自己レビュー防止は無効です",
		KeyCommentLabel:        "コメント",
		KeyCommentPlaceholder:  "コメントを入力",
		KeySelected:            "%d 件選択中",
		KeyButtonComment:       "c コメント",
		KeyButtonApprove:       "a 承認",
		KeyButtonRequestChange: "x 変更をリクエスト",
		KeyTitleComment:        "選択したプルリクエストにコメント",
		KeyTitleApprove:        "選択したプルリクエストを承認",
		KeyTitleRequestChange:  "選択したプルリクエストに変更をリクエスト",
		KeyDialogTargets:       "%d 件のプルリクエストをレビューします:",
		KeyDialogConfirm:       "enter/y 送信   esc/n キャンセル",
		KeyDialogRunning:       "送信中… %.0f%%",
		KeyDialogError:         "エラー: %v",
		KeyDialogCopy:          "C 失敗した項目をコピー",
		KeyAlertFailed:         "%d 件のレビュー送信に失敗しました:",
		KeyAlertCopied:         "失敗した項目をクリップボードにコピーしました",
		KeyToastSuccess:        "%d 件のレビューを送信しました",
		KeyHelpList:            "↑/↓ 移動   space 選択   A リポジトリ選択   tab コメント   r 再読込   q 終了",
		KeyHelpComment:         "tab/esc 一覧に戻る",
	},
}

// Supported lists the language codes with a catalog.
var Supported = []string{"en", "ja"}

// Translator formats labels for one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns a Translator for lang, falling back to English.
func New(lang string) *Translator {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			// keys and messages are static, SetString only fails on bad tags
			_ = b.SetString(tag, key, msg)
		}
	}

	matcher := language.NewMatcher([]language.Tag{language.English, language.Japanese})
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	tag = language.Make(base.String())

	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(b)),
	}
}

// Language returns the resolved language tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T formats the message stored under key.
func (t *Translator) T(key string, args ...any) string {
	return t.printer.Sprintf(key, args...)
}
