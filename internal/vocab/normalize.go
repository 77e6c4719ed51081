package vocab

import "strings"

// CanonicalMeaning 取第一个"、"或"，"分隔符之前的含义，
// 用于干扰项目录查表
func CanonicalMeaning(meaning string) string {
	s := meaning
	if i := strings.Index(s, "、"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "，"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// NormalizeMeaning 答案比较用的标准化：
// 截断"、"、"，"、"（"之后的内容并去除首尾空格，
// 使多义词的正确答案能与同前缀选项匹配
func NormalizeMeaning(meaning string) string {
	if meaning == "" {
		return ""
	}
	s := strings.TrimSpace(meaning)
	if i := strings.Index(s, "、"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "，"); i >= 0 {
		s = s[:i]
	}
	if i := strings.Index(s, "（"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
