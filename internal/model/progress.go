package model

import "time"

// ThemeStatus 主题生命周期状态
type ThemeStatus string

const (
	ThemeLocked    ThemeStatus = "locked"
	ThemeLearning  ThemeStatus = "learning"
	ThemeCompleted ThemeStatus = "completed"
)

// TestStatus 单个测试的子状态
type TestStatus string

const (
	TestLocked    TestStatus = "locked"
	TestAvailable TestStatus = "available"
	TestCompleted TestStatus = "completed"
	TestFailed    TestStatus = "failed"
)

// Mode 当前界面模式
type Mode string

const (
	ModeLearning Mode = "learning"
	ModeTest     Mode = "test"
)

// TestType 测试层级
type TestType string

const (
	TestType1 TestType = "test1" // 语义测试
	TestType2 TestType = "test2" // 词性测试
)

// TestProgress 单个测试的进度记录
// Unlocked/Unlockable 仅对 good 能力下的 test2 有意义
type TestProgress struct {
	Status               TestStatus `json:"status"`
	PassRate             *float64   `json:"passRate"`
	Attempts             int        `json:"attempts"`
	FirstAttemptPassRate *float64   `json:"firstAttemptPassRate,omitempty"`
	LastAttempt          *time.Time `json:"lastAttempt"`
	Unlocked             bool       `json:"unlocked,omitempty"`
	Unlockable           bool       `json:"unlockable,omitempty"`
}

// ThemeProgress 每个主题的进度
type ThemeProgress struct {
	Status ThemeStatus  `json:"status"`
	Test1  TestProgress `json:"test1"`
	Test2  TestProgress `json:"test2"`
}

// CarryOverWord 语义测试中答错、等待复习的词
type CarryOverWord struct {
	Noun        string `json:"noun"`
	Meaning     string `json:"meaning"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Gender      Gender `json:"gender,omitempty"`
	CarryOver   bool   `json:"carryOver"`
	OriginTheme string `json:"originTheme"`
}

// PendingKind 待确认的节奏性转场
type PendingKind string

const (
	PendingEnterTest2       PendingKind = "enter_test2"
	PendingReturnToLearning PendingKind = "return_to_learning"
)

// PendingAction 测试结束后的待确认转场，持久化在进度中，
// 客户端按 DelayMs 的节奏调用 advance 接口执行
type PendingAction struct {
	Kind    PendingKind `json:"kind"`
	DelayMs int         `json:"delayMs"`
}

// LearningProgress 学习进度聚合根，每次变更后持久化
type LearningProgress struct {
	CurrentThemeIndex int                       `json:"currentThemeIndex"`
	CurrentMode       Mode                      `json:"currentMode"`
	CurrentTestType   TestType                  `json:"currentTestType,omitempty"`
	CurrentTheme      string                    `json:"currentTheme"`
	Themes            map[string]*ThemeProgress `json:"themes"`
	CarryOverMistakes []CarryOverWord           `json:"carryOverMistakes"`
	PendingAction     *PendingAction            `json:"pendingAction,omitempty"`
}

// Theme 返回指定主题的进度，不存在时返回 nil
func (p *LearningProgress) Theme(name string) *ThemeProgress {
	if p == nil || p.Themes == nil {
		return nil
	}
	return p.Themes[name]
}

// AddCarryOver 去重添加复习词，同一名词最多一条
func (p *LearningProgress) AddCarryOver(word WordRecord, originTheme string) {
	if word.Noun == "" {
		return
	}
	for _, item := range p.CarryOverMistakes {
		if item.Noun == word.Noun {
			return
		}
	}
	if originTheme == "" {
		originTheme = word.Category
	}
	p.CarryOverMistakes = append(p.CarryOverMistakes, CarryOverWord{
		Noun:        word.Noun,
		Meaning:     word.Meaning,
		Image:       word.Image,
		Category:    word.Category,
		Gender:      word.Gender,
		CarryOver:   true,
		OriginTheme: originTheme,
	})
}

// RemoveCarryOver 按名词移除复习词
func (p *LearningProgress) RemoveCarryOver(noun string) {
	if noun == "" {
		return
	}
	next := p.CarryOverMistakes[:0]
	for _, item := range p.CarryOverMistakes {
		if item.Noun != noun {
			next = append(next, item)
		}
	}
	p.CarryOverMistakes = next
}

// Word 还原复习词对应的词汇记录
func (w CarryOverWord) Word() WordRecord {
	return WordRecord{
		Noun:     w.Noun,
		Meaning:  w.Meaning,
		Image:    w.Image,
		Category: w.Category,
		Gender:   w.Gender,
	}
}
