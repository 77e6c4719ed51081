package service

import (
	"context"
	"sync"
	"time"

	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/vocab"

	"github.com/google/uuid"
)

// SessionService 管理进行中的测试会话。
// 会话只存在于内存，完成或被新会话替换后即丢弃
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]*model.TestSession

	generator *GeneratorService
	progress  *ProgressService
	clock     func() time.Time
}

func NewSessionService(generator *GeneratorService, progress *ProgressService) *SessionService {
	return &SessionService{
		sessions:  make(map[string]*model.TestSession),
		generator: generator,
		progress:  progress,
		clock:     time.Now,
	}
}

// Start 在当前主题上开始一次测试。
// 守卫前置条件被拒绝时不改变任何状态，题目为空时不创建会话
func (s *SessionService) Start(ctx context.Context, cfg *model.UserConfig, progress *model.LearningProgress, testType model.TestType) (*model.TestSession, error) {
	if err := s.progress.CanStartTest(cfg, progress, testType); err != nil {
		return nil, err
	}

	theme := progress.CurrentTheme
	carryOver := progress.CarryOverMistakes
	if testType == model.TestType2 {
		carryOver = nil
	}
	questions, err := s.generator.Generate(theme, testType, carryOver)
	if err != nil {
		return nil, err
	}

	kind := model.KindMeaning
	if testType == model.TestType2 {
		kind = model.KindGender
	}
	session := &model.TestSession{
		ID:        uuid.New().String(),
		Type:      kind,
		TestType:  testType,
		Theme:     theme,
		Questions: questions,
		Answers:   make([]*model.Answer, len(questions)),
		StartTime: s.clock().UnixMilli(),
	}

	s.mu.Lock()
	// 同一时刻只有一个活动会话，旧会话直接作废
	for id := range s.sessions {
		delete(s.sessions, id)
	}
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.progress.MarkTestStarted(ctx, progress, testType)
	return session, nil
}

// Get 查询进行中的会话
func (s *SessionService) Get(id string) (*model.TestSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// AnswerResult 单次作答的反馈
type AnswerResult struct {
	Answer          model.Answer `json:"answer"`
	CorrectAnswer   string       `json:"correctAnswer"`
	AlreadyAnswered bool         `json:"alreadyAnswered"`
	AnsweredCount   int          `json:"answeredCount"`
	TotalCount      int          `json:"totalCount"`
	Completed       bool         `json:"completed"`
	Outcome         *TestOutcome `json:"outcome,omitempty"`
	Events          []Event      `json:"events,omitempty"`
}

// Answer 记录一次作答。同一题的后续作答被忽略（首答定局）。
// 最后一题作答后会话完成，结果恰好提交一次给规则引擎
func (s *SessionService) Answer(ctx context.Context, cfg *model.UserConfig, progress *model.LearningProgress, sessionID string, questionIndex, optionIndex int) (*AnswerResult, error) {
	s.mu.Lock()
	session, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrSessionNotFound
	}
	if session.Completed {
		s.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	if questionIndex < 0 || questionIndex >= len(session.Questions) {
		s.mu.Unlock()
		return nil, ErrInvalidQuestion
	}
	question := session.Questions[questionIndex]
	if optionIndex < 0 || optionIndex >= len(question.Options) {
		s.mu.Unlock()
		return nil, ErrInvalidQuestion
	}

	if existing := session.Answers[questionIndex]; existing != nil {
		result := &AnswerResult{
			Answer:          *existing,
			CorrectAnswer:   question.CorrectAnswer,
			AlreadyAnswered: true,
			AnsweredCount:   session.AnsweredCount(),
			TotalCount:      len(session.Questions),
		}
		s.mu.Unlock()
		return result, nil
	}

	selected := question.Options[optionIndex]
	// 标准化比较，处理多义词（如"天、白天"）与同前缀选项
	correct := vocab.NormalizeMeaning(selected) == vocab.NormalizeMeaning(question.CorrectAnswer)

	answer := &model.Answer{
		SelectedIndex:  optionIndex,
		SelectedAnswer: selected,
		Correct:        correct,
	}
	session.Answers[questionIndex] = answer

	answered := session.AnsweredCount()
	completed := answered == len(session.Questions)
	if completed {
		session.Completed = true
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	result := &AnswerResult{
		Answer:        *answer,
		CorrectAnswer: question.CorrectAnswer,
		AnsweredCount: answered,
		TotalCount:    len(session.Questions),
		Completed:     completed,
	}

	if completed {
		collector := NewEventCollector()
		outcome, err := s.progress.SubmitTest(ctx, cfg, progress, session, collector)
		if err != nil {
			return nil, err
		}
		result.Outcome = outcome
		result.Events = collector.Events()
	}
	return result, nil
}
