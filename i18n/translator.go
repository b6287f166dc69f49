// Package i18n resolves human-readable messages for issue codes.
package i18n

import "strings"

// Translator retrieves localized messages for Issue codes.
// data provides optional values to embed in the message (for example,
// "expected" or "got").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		"invalid_type":   "invalid type",
		"invalid_union":  "value matches no union alternative",
		"required":       "required property missing",
		"unknown_key":    "unknown key",
		"duplicate_key":  "duplicate key",
		"too_short":      "too short",
		"too_long":       "too long",
		"invalid_format": "invalid format",
		"parse_error":    "parse error",
		"overflow":       "number out of range",
		"truncated":      "truncated",
	},
	"ja": {
		"invalid_type":   "型が不正です",
		"invalid_union":  "どの候補の型にも一致しません",
		"required":       "必須プロパティが不足しています",
		"unknown_key":    "未知のキーです",
		"duplicate_key":  "キーが重複しています",
		"too_short":      "短すぎます",
		"too_long":       "長すぎます",
		"invalid_format": "形式が不正です",
		"parse_error":    "解析エラー",
		"overflow":       "数値が範囲外です",
		"truncated":      "打ち切られました",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		return code
	}
	if exp := data["expected"]; exp != "" {
		switch t.lang {
		case "ja":
			msg += "（期待: " + exp + "）"
		default:
			msg += " (expected " + exp + ")"
		}
	}
	return msg
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	lang = strings.ToLower(lang)
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
