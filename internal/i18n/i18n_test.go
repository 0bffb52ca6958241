package i18n

import (
	"testing"

	"golang.org/x/text/language"
)

func TestNewLanguageFallback(t *testing.T) {
	tests := []struct {
		lang string
		want language.Tag
	}{
		{"en", language.English},
		{"ja", language.Japanese},
		{"ja-JP", language.Japanese},
		{"en-GB", language.English},
		{"fr", language.English},
		{"", language.English},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			got := New(tt.lang).Language()
			if got != tt.want {
				t.Errorf("New(%q).Language() = %v, want %v", tt.lang, got, tt.want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	en := New("en")
	ja := New("ja")

	if got := en.T(KeyTitleApprove); got != "Approve selected pull requests" {
		t.Errorf("en T(%q) = %q", KeyTitleApprove, got)
	}
	if got := ja.T(KeyTitleApprove); got != "選択したプルリクエストを承認" {
		t.Errorf("ja T(%q) = %q", KeyTitleApprove, got)
	}
	if got := en.T(KeyToastSuccess, 3); got != "Submitted 3 review(s)" {
		t.Errorf("en T(%q, 3) = %q", KeyToastSuccess, got)
	}
	if got := en.T(KeySelected, 2); got != "2 selected" {
		t.Errorf("en T(%q, 2) = %q", KeySelected, got)
	}
}

func TestEveryKeyTranslated(t *testing.T) {
	en := messages[language.English]
	for tag, msgs := range messages {
		for key := range en {
			if _, ok := msgs[key]; !ok {
				t.Errorf("%v catalog is missing %q", tag, key)
			}
		}
	}
}
