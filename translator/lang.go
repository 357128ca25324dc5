package translator

import (
	"fmt"
	"strings"
)

// Language is an ISO 639-1 code, as understood by every backend.
type Language string

const (
	Auto Language = "auto"
	AR   Language = "ar"
	DE   Language = "de"
	EN   Language = "en"
	ES   Language = "es"
	FR   Language = "fr"
	IT   Language = "it"
	JA   Language = "ja"
	PT   Language = "pt"
	RU   Language = "ru"
	TR   Language = "tr"
	ZH   Language = "zh"
)

var names = map[Language]string{
	Auto: "Detected",
	AR:   "Arabic",
	DE:   "German",
	EN:   "English",
	ES:   "Spanish",
	FR:   "French",
	IT:   "Italian",
	JA:   "Japanese",
	PT:   "Portuguese",
	RU:   "Russian",
	TR:   "Turkish",
	ZH:   "Chinese",
}

func (l Language) Name() string {
	if n, ok := names[l]; ok {
		return n
	}
	return string(l)
}

// ParseLanguage accepts a known code, case-insensitively. Auto is rejected
// since it can only be a source.
func ParseLanguage(s string) (Language, error) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := names[l]; !ok || l == Auto {
		return "", fmt.Errorf("Unsupported target language %q", s)
	}
	return l, nil
}
