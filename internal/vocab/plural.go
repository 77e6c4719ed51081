package vocab

import "vokabel_trainer_backend/internal/model"

// 只有复数形式（或惯用复数）的德语名词
var pluralNouns = map[string]bool{
	"Schuhe":       true,
	"Eltern":       true,
	"Geschwister":  true,
	"Großeltern":   true,
	"Nudeln":       true,
	"Pommes":       true,
	"Ferien":       true,
	"Möbel":        true,
	"Verwandte":    true,
	"Erwachsene":   true,
	"Kundinnen":    true,
	"Jahreszeiten": true,
}

// IsPluralNoun 判断名词是否只有复数形式
func IsPluralNoun(noun string) bool {
	return pluralNouns[noun]
}

// EffectiveGender 测试用的词性答案，复数名词和缺失词性都落到 die
func EffectiveGender(word model.WordRecord) model.Gender {
	if word.Gender != "" {
		return word.Gender
	}
	return model.GenderDie
}

// GenderInfo 前端展示用的词性标识
type GenderInfo struct {
	Class string `json:"class"`
	Text  string `json:"text"`
}

// GenderInfoFor 返回词性标识，复数显示复数标识，未知词性返回 nil
func GenderInfoFor(word model.WordRecord) *GenderInfo {
	if IsPluralNoun(word.Noun) {
		return &GenderInfo{Class: "plural", Text: "die"}
	}
	switch word.Gender {
	case model.GenderDer:
		return &GenderInfo{Class: "masculine", Text: "der"}
	case model.GenderDas:
		return &GenderInfo{Class: "neuter", Text: "das"}
	case model.GenderDie:
		return &GenderInfo{Class: "feminine", Text: "die"}
	}
	return nil
}
