package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "ref").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "unresolved_ref":
			return withDetail("参照を解決できません", data["ref"])
		case "unsupported_combinator":
			return "サポートされていない組み合わせです"
		case "invalid_type":
			return withDetail("型が不正です", data["expected"])
		case "required":
			return withDetail("必須プロパティが不足しています", data["property"])
		case "invalid_literal":
			return withDetail("値が一致しません", data["expected"])
		case "no_match":
			return "どの候補にも一致しません"
		case "invalid_format":
			return "形式が不正です"
		case "duplicate_key":
			return withDetail("キーが重複しています", data["key"])
		case "parse_error":
			return "解析エラー"
		case "truncated":
			return "打ち切られました"
		}
	default: // "en"
		switch code {
		case "unresolved_ref":
			return withDetail("unresolved reference", data["ref"])
		case "unsupported_combinator":
			return "unsupported combinator"
		case "invalid_type":
			return withDetail("invalid type, expected", data["expected"])
		case "required":
			return withDetail("required property missing", data["property"])
		case "invalid_literal":
			return withDetail("value does not match literal", data["expected"])
		case "no_match":
			return "value matches no alternative"
		case "invalid_format":
			return "invalid format"
		case "duplicate_key":
			return withDetail("duplicate key", data["key"])
		case "parse_error":
			return "parse error"
		case "truncated":
			return "truncated"
		}
	}
	return code
}

func withDetail(msg, detail string) string {
	if detail == "" {
		return msg
	}
	return msg + ": " + detail
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
