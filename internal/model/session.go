package model

// TestKind 题目形式：语义四选一或词性四选一
type TestKind string

const (
	KindMeaning TestKind = "meaning"
	KindGender  TestKind = "gender"
)

// QuestionSource 题目来源：本主题抽样或上个主题的复习词
type QuestionSource string

const (
	SourceTheme     QuestionSource = "theme"
	SourceCarryOver QuestionSource = "carryover"
)

// Question 单道四选一题目
type Question struct {
	ID            string         `json:"id"`
	Word          WordRecord     `json:"word"`
	Source        QuestionSource `json:"source"`
	CorrectAnswer string         `json:"correctAnswer"`
	Options       []string       `json:"options"`
}

// Answer 对一道题的唯一作答记录，首次作答即定局
type Answer struct {
	SelectedIndex  int    `json:"selectedIndex"`
	SelectedAnswer string `json:"selectedAnswer"`
	Correct        bool   `json:"correct"`
}

// TestSession 一次测试的临时状态，不持久化，
// 完成或放弃后即丢弃
type TestSession struct {
	ID        string     `json:"id"`
	Type      TestKind   `json:"type"`
	TestType  TestType   `json:"testType"`
	Theme     string     `json:"theme"`
	Questions []Question `json:"questions"`
	Answers   []*Answer  `json:"answers"`
	StartTime int64      `json:"startTime"` // epoch 毫秒
	Completed bool       `json:"completed"`
}

// AnsweredCount 已作答题数
func (s *TestSession) AnsweredCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil {
			n++
		}
	}
	return n
}

// CorrectCount 答对题数
func (s *TestSession) CorrectCount() int {
	n := 0
	for _, a := range s.Answers {
		if a != nil && a.Correct {
			n++
		}
	}
	return n
}
