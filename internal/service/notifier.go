package service

import "vokabel_trainer_backend/internal/model"

// WrongAnswer 测试结束时展示的错误词汇
type WrongAnswer struct {
	Word     string `json:"word"`
	Meaning  string `json:"meaning"`
	Selected string `json:"selected"`
	Correct  string `json:"correct"`
	Image    string `json:"image"`
	Category string `json:"category"`
}

// Notifier 核心向外发出的命名事件，渲染层据此反应，
// 核心不直接操作任何展示面
type Notifier interface {
	UnlockAvailable(theme string, passRate float64)
	RetryRequired(theme string, testType model.TestType, passRate, requiredRate float64)
	ThemeCompleted(theme string)
	TestCompleted(testType model.TestType, passRate float64, correctCount, totalCount int, wrongAnswers []WrongAnswer)
}

// Event 事件的线上表示，按发生顺序返回给客户端
type Event struct {
	Type         string         `json:"type"`
	Theme        string         `json:"theme,omitempty"`
	TestType     model.TestType `json:"testType,omitempty"`
	PassRate     *float64       `json:"passRate,omitempty"`
	RequiredRate *float64       `json:"requiredRate,omitempty"`
	CorrectCount *int           `json:"correctCount,omitempty"`
	TotalCount   *int           `json:"totalCount,omitempty"`
	WrongAnswers []WrongAnswer  `json:"wrongAnswers,omitempty"`
}

const (
	EventUnlockAvailable = "unlock_available"
	EventRetryRequired   = "retry_required"
	EventThemeCompleted  = "theme_completed"
	EventTestCompleted   = "test_completed"
)

// EventCollector 把事件按顺序收集进切片的 Notifier 实现，
// 控制器为每次提交创建一个并随响应返回
type EventCollector struct {
	events []Event
}

func NewEventCollector() *EventCollector {
	return &EventCollector{}
}

func (c *EventCollector) UnlockAvailable(theme string, passRate float64) {
	c.events = append(c.events, Event{Type: EventUnlockAvailable, Theme: theme, PassRate: &passRate})
}

func (c *EventCollector) RetryRequired(theme string, testType model.TestType, passRate, requiredRate float64) {
	c.events = append(c.events, Event{
		Type:         EventRetryRequired,
		Theme:        theme,
		TestType:     testType,
		PassRate:     &passRate,
		RequiredRate: &requiredRate,
	})
}

func (c *EventCollector) ThemeCompleted(theme string) {
	c.events = append(c.events, Event{Type: EventThemeCompleted, Theme: theme})
}

func (c *EventCollector) TestCompleted(testType model.TestType, passRate float64, correctCount, totalCount int, wrongAnswers []WrongAnswer) {
	c.events = append(c.events, Event{
		Type:         EventTestCompleted,
		TestType:     testType,
		PassRate:     &passRate,
		CorrectCount: &correctCount,
		TotalCount:   &totalCount,
		WrongAnswers: wrongAnswers,
	})
}

// Events 已收集的事件
func (c *EventCollector) Events() []Event {
	return c.events
}
