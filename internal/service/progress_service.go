package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/repository"
	"vokabel_trainer_backend/internal/vocab"
	"vokabel_trainer_backend/pkg/logger"
	"vokabel_trainer_backend/pkg/monitoring"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// 节奏性转场的延迟提示（毫秒），仅作为数据下发，
// 正确性不依赖客户端是否等待
const transitionDelayMs = 2000

// ProgressService 拥有主题/测试生命周期状态机，
// 读写用户配置、学习进度和复习词登记表
type ProgressService struct {
	store repository.StateStore
	table *vocab.Table
	clock func() time.Time
}

func NewProgressService(store repository.StateStore, table *vocab.Table) *ProgressService {
	return &ProgressService{
		store: store,
		table: table,
		clock: time.Now,
	}
}

// ==================== 配置与进度的加载/保存 ====================

// LoadUserConfig 读取持久化配置；缺失返回 nil，
// 损坏或不完整时重置为默认并排队删除坏记录
func (s *ProgressService) LoadUserConfig(ctx context.Context) (*model.UserConfig, error) {
	raw, err := s.store.Get(ctx, model.StateKeyUserConfig)
	if errors.Is(err, repository.ErrStateNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg model.UserConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil || !cfg.Valid() {
		logger.Log.Warn("用户配置损坏，重置为默认", zap.Error(err))
		s.discard(ctx, model.StateKeyUserConfig)
		return nil, nil
	}
	return &cfg, nil
}

// LoadProgress 读取学习进度；缺失或损坏时按课程重新初始化，
// 并做兼容性修复：learning 主题的 test1 不允许停留在 locked
func (s *ProgressService) LoadProgress(ctx context.Context, cfg *model.UserConfig) (*model.LearningProgress, error) {
	raw, err := s.store.Get(ctx, model.StateKeyLearningProgress)
	if errors.Is(err, repository.ErrStateNotFound) {
		progress := s.InitializeProgress(cfg.UserType)
		s.persist(ctx, progress)
		return progress, nil
	}
	if err != nil {
		return nil, err
	}

	var progress model.LearningProgress
	if err := json.Unmarshal([]byte(raw), &progress); err != nil || progress.Themes == nil {
		logger.Log.Warn("学习进度损坏，重新初始化", zap.Error(err))
		s.discard(ctx, model.StateKeyLearningProgress)
		fresh := s.InitializeProgress(cfg.UserType)
		s.persist(ctx, fresh)
		return fresh, nil
	}

	if progress.CurrentMode == "" {
		progress.CurrentMode = model.ModeLearning
	}
	for _, td := range progress.Themes {
		if td != nil && td.Status == model.ThemeLearning && td.Test1.Status == model.TestLocked {
			td.Test1.Status = model.TestAvailable
		}
	}
	if progress.CarryOverMistakes == nil {
		progress.CarryOverMistakes = []model.CarryOverWord{}
	}
	return &progress, nil
}

// InitializeProgress 按主题顺序初始化进度：
// 第一个主题 learning 且 test1 可用，其余全部锁定
func (s *ProgressService) InitializeProgress(userType model.UserType) *model.LearningProgress {
	themes := vocab.ThemeOrder(userType)
	progress := &model.LearningProgress{
		CurrentThemeIndex: 0,
		CurrentMode:       model.ModeLearning,
		Themes:            make(map[string]*model.ThemeProgress, len(themes)),
		CarryOverMistakes: []model.CarryOverWord{},
	}
	if len(themes) > 0 {
		progress.CurrentTheme = themes[0]
	}

	for i, theme := range themes {
		status := model.ThemeLocked
		test1Status := model.TestLocked
		if i == 0 {
			status = model.ThemeLearning
			test1Status = model.TestAvailable
		}
		progress.Themes[theme] = &model.ThemeProgress{
			Status: status,
			Test1:  model.TestProgress{Status: test1Status},
			Test2:  model.TestProgress{Status: model.TestLocked},
		}
	}
	return progress
}

// Setup 引导设置：创建配置并初始化进度，重复设置被拒绝
func (s *ProgressService) Setup(ctx context.Context, userType model.UserType, ability model.Ability) (*model.UserConfig, *model.LearningProgress, error) {
	existing, err := s.LoadUserConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	if existing != nil && existing.SetupCompleted {
		return nil, nil, ErrAlreadySetUp
	}

	cfg := &model.UserConfig{UserType: userType, Ability: ability, SetupCompleted: true}
	if !cfg.Valid() {
		return nil, nil, errors.New("invalid user type or ability")
	}

	if err := s.saveUserConfig(ctx, cfg); err != nil {
		return nil, nil, err
	}
	progress := s.InitializeProgress(userType)
	s.persist(ctx, progress)
	return cfg, progress, nil
}

// Reset 清空两份持久化状态，回到引导前
func (s *ProgressService) Reset(ctx context.Context) {
	s.discard(ctx, model.StateKeyUserConfig)
	s.discard(ctx, model.StateKeyLearningProgress)
}

func (s *ProgressService) saveUserConfig(ctx context.Context, cfg *model.UserConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, model.StateKeyUserConfig, string(data))
}

// persist 保存进度，写失败只记录，内存状态保持权威
func (s *ProgressService) persist(ctx context.Context, progress *model.LearningProgress) {
	data, err := json.Marshal(progress)
	if err != nil {
		logger.Log.Error("序列化学习进度失败", zap.Error(err))
		return
	}
	if err := s.store.Set(ctx, model.StateKeyLearningProgress, string(data)); err != nil {
		logger.Log.Error("保存学习进度失败", zap.Error(err))
	}
}

// discard 尽力删除持久化值，失败只记录
func (s *ProgressService) discard(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		logger.Log.Error("删除持久化状态失败", zap.String("key", key), zap.Error(err))
	}
}

// ==================== 主题与模式操作 ====================

// SelectTheme 切换当前浏览的主题，锁定主题被拒绝
func (s *ProgressService) SelectTheme(ctx context.Context, cfg *model.UserConfig, progress *model.LearningProgress, theme string) error {
	themes := vocab.ThemeOrder(cfg.UserType)
	idx := lo.IndexOf(themes, theme)
	if idx < 0 {
		return ErrUnknownTheme
	}
	td := progress.Theme(theme)
	if td == nil || td.Status == model.ThemeLocked {
		return ErrThemeLocked
	}

	progress.CurrentThemeIndex = idx
	progress.CurrentTheme = theme
	progress.CurrentMode = model.ModeLearning
	s.persist(ctx, progress)
	return nil
}

// SwitchMode 学习/测试模式切换
func (s *ProgressService) SwitchMode(ctx context.Context, progress *model.LearningProgress, mode model.Mode) error {
	if mode != model.ModeLearning && mode != model.ModeTest {
		return errors.New("invalid mode")
	}
	progress.CurrentMode = mode
	s.persist(ctx, progress)
	return nil
}

// Advance 执行待确认的转场。enter_test2 只返回该动作由客户端
// 发起测试；return_to_learning 切回学习模式。导航离开后
// 待确认动作仍然保留，下次确认时照常生效
func (s *ProgressService) Advance(ctx context.Context, progress *model.LearningProgress) (*model.PendingAction, error) {
	pending := progress.PendingAction
	if pending == nil {
		return nil, ErrNoPendingAction
	}
	progress.PendingAction = nil
	if pending.Kind == model.PendingReturnToLearning {
		progress.CurrentMode = model.ModeLearning
	}
	s.persist(ctx, progress)
	return pending, nil
}

// CanStartTest 开始测试的守卫前置条件，被拒绝时不改变任何状态
func (s *ProgressService) CanStartTest(cfg *model.UserConfig, progress *model.LearningProgress, testType model.TestType) error {
	theme := progress.CurrentTheme
	td := progress.Theme(theme)
	if td == nil {
		return ErrUnknownTheme
	}

	switch testType {
	case model.TestType1:
		if td.Status == model.ThemeLocked || td.Test1.Status == model.TestLocked {
			return ErrTestLocked
		}
	case model.TestType2:
		if RulesFor(cfg.Ability).Test2.Hidden {
			return ErrTest2Hidden
		}
		if !td.Test2.Unlocked || td.Test2.Status == model.TestLocked {
			return ErrTest2NotUnlocked
		}
	default:
		return ErrInvalidQuestion
	}
	return nil
}

// MarkTestStarted 守卫通过后记录当前测试类型并进入测试模式
func (s *ProgressService) MarkTestStarted(ctx context.Context, progress *model.LearningProgress, testType model.TestType) {
	progress.CurrentTestType = testType
	progress.CurrentMode = model.ModeTest
	progress.PendingAction = nil
	s.persist(ctx, progress)
}

// ==================== 测试提交状态机 ====================

// TestOutcome 一次提交的完整结果
type TestOutcome struct {
	TestType     model.TestType       `json:"testType"`
	Theme        string               `json:"theme"`
	PassRate     float64              `json:"passRate"`
	CorrectCount int                  `json:"correctCount"`
	TotalCount   int                  `json:"totalCount"`
	Passed       bool                 `json:"passed"`
	WrongAnswers []WrongAnswer        `json:"wrongAnswers"`
	Pending      *model.PendingAction `json:"pending,omitempty"`
}

// SubmitTest 提交一次完成的测试会话，驱动状态机：
// 通过判定、测试2解锁、主题完成、复习词同步。
// 每个会话恰好提交一次，由会话运行时保证
func (s *ProgressService) SubmitTest(ctx context.Context, cfg *model.UserConfig, progress *model.LearningProgress, session *model.TestSession, notifier Notifier) (*TestOutcome, error) {
	total := len(session.Questions)
	if total == 0 {
		return nil, ErrNoQuestions
	}
	correct := session.CorrectCount()
	passRate := float64(correct) / float64(total)

	// 在记录结果前同步复习词
	s.syncCarryOver(progress, session)

	theme := progress.CurrentTheme
	td := progress.Theme(theme)
	if td == nil {
		return nil, ErrUnknownTheme
	}
	rules := RulesFor(cfg.Ability)

	outcome := &TestOutcome{
		TestType:     session.TestType,
		Theme:        theme,
		PassRate:     passRate,
		CorrectCount: correct,
		TotalCount:   total,
		WrongAnswers: collectWrongAnswers(session),
	}

	switch session.TestType {
	case model.TestType1:
		s.applyTest1Result(ctx, cfg, progress, td, rules, passRate, outcome, notifier)
	case model.TestType2:
		s.applyTest2Result(ctx, cfg, progress, td, rules, passRate, outcome, notifier)
	default:
		return nil, ErrInvalidQuestion
	}

	progress.PendingAction = outcome.Pending
	s.persist(ctx, progress)

	label := "failed"
	if outcome.Passed {
		label = "passed"
	}
	monitoring.TestsCompleted.WithLabelValues(string(session.TestType), label).Inc()

	return outcome, nil
}

func (s *ProgressService) applyTest1Result(ctx context.Context, cfg *model.UserConfig, progress *model.LearningProgress, td *model.ThemeProgress, rules AbilityRules, passRate float64, outcome *TestOutcome, notifier Notifier) {
	td.Test1.Attempts++
	now := s.clock()
	td.Test1.LastAttempt = &now

	// 第一次测试的通过率只记录一次，之后不再覆盖
	if td.Test1.Attempts == 1 {
		rate := passRate
		td.Test1.FirstAttemptPassRate = &rate
	}
	rate := passRate
	td.Test1.PassRate = &rate

	if passRate < rules.Test1.PassRate {
		// 未通过，保持available状态以便重试
		td.Test1.Status = model.TestAvailable
		notifier.RetryRequired(outcome.Theme, model.TestType1, passRate, rules.Test1.PassRate)
		outcome.Pending = &model.PendingAction{Kind: model.PendingReturnToLearning}
		notifier.TestCompleted(model.TestType1, passRate, outcome.CorrectCount, outcome.TotalCount, outcome.WrongAnswers)
		return
	}

	td.Test1.Status = model.TestCompleted
	outcome.Passed = true

	// 良好能力：仅第一次尝试能解锁测试2，低于阈值则永久不可解锁
	if cfg.Ability == model.AbilityGood && rules.Test1.UnlockTest2 {
		if td.Test1.Attempts == 1 && passRate >= rules.Test1.UnlockThreshold {
			td.Test2.Unlocked = true
			td.Test2.Unlockable = true
			td.Test2.Status = model.TestAvailable
			notifier.UnlockAvailable(outcome.Theme, passRate)
		} else if td.Test1.Attempts == 1 {
			td.Test2.Unlockable = false
		}
	}

	// 优秀能力旁路：直接进入测试2，跳过主题完成评估。
	// 这是有意保留的行为，测试1单独完成的收尾路径在此等级下不会执行
	if cfg.Ability == model.AbilityExcellent {
		s.applyExcellentBypass(td, outcome)
		return
	}

	if s.checkThemeCompletion(td, rules) {
		s.completeTheme(cfg, progress, outcome.Theme, notifier)
		outcome.Pending = &model.PendingAction{Kind: model.PendingReturnToLearning, DelayMs: transitionDelayMs}
	} else if td.Test2.Unlocked {
		// 已解锁测试2，节奏延迟后进入
		outcome.Pending = &model.PendingAction{Kind: model.PendingEnterTest2, DelayMs: transitionDelayMs}
	} else {
		s.completeTheme(cfg, progress, outcome.Theme, notifier)
		outcome.Pending = &model.PendingAction{Kind: model.PendingReturnToLearning, DelayMs: transitionDelayMs}
	}

	notifier.TestCompleted(model.TestType1, passRate, outcome.CorrectCount, outcome.TotalCount, outcome.WrongAnswers)
}

// applyExcellentBypass 优秀能力下测试1通过的命名旁路分支
func (s *ProgressService) applyExcellentBypass(td *model.ThemeProgress, outcome *TestOutcome) {
	td.Test2.Unlocked = true
	td.Test2.Status = model.TestAvailable
	outcome.Pending = &model.PendingAction{Kind: model.PendingEnterTest2, DelayMs: transitionDelayMs}
}

func (s *ProgressService) applyTest2Result(ctx context.Context, cfg *model.UserConfig, progress *model.LearningProgress, td *model.ThemeProgress, rules AbilityRules, passRate float64, outcome *TestOutcome, notifier Notifier) {
	td.Test2.Attempts++
	now := s.clock()
	td.Test2.LastAttempt = &now
	rate := passRate
	td.Test2.PassRate = &rate

	if rules.Test2.Required && rules.Test2.HasPassRate && passRate >= rules.Test2.PassRate {
		td.Test2.Status = model.TestCompleted
		outcome.Passed = true
	} else if !rules.Test2.Required {
		// 可选测试，完成即可
		td.Test2.Status = model.TestCompleted
		outcome.Passed = true
	} else {
		// 未通过：已解锁则保持available以便重试，否则进入failed死路。
		// 此路径不评估主题完成
		if td.Test2.Unlocked {
			td.Test2.Status = model.TestAvailable
		} else {
			td.Test2.Status = model.TestFailed
		}
		notifier.RetryRequired(outcome.Theme, model.TestType2, passRate, rules.Test2.PassRate)
		outcome.Pending = &model.PendingAction{Kind: model.PendingReturnToLearning}
		return
	}

	if s.checkThemeCompletion(td, rules) {
		s.completeTheme(cfg, progress, outcome.Theme, notifier)
		outcome.Pending = &model.PendingAction{Kind: model.PendingReturnToLearning, DelayMs: transitionDelayMs}
	}

	notifier.TestCompleted(model.TestType2, passRate, outcome.CorrectCount, outcome.TotalCount, outcome.WrongAnswers)
}

// checkThemeCompletion 测试1完成且（测试2非必需或已完成）
func (s *ProgressService) checkThemeCompletion(td *model.ThemeProgress, rules AbilityRules) bool {
	if td.Test1.Status != model.TestCompleted {
		return false
	}
	if rules.Test2.Required {
		return td.Test2.Status == model.TestCompleted
	}
	return true
}

// completeTheme 标记主题完成并解锁顺序中的下一个主题
func (s *ProgressService) completeTheme(cfg *model.UserConfig, progress *model.LearningProgress, theme string, notifier Notifier) {
	td := progress.Theme(theme)
	if td == nil {
		return
	}
	td.Status = model.ThemeCompleted

	themes := vocab.ThemeOrder(cfg.UserType)
	idx := lo.IndexOf(themes, theme)
	if idx >= 0 && idx < len(themes)-1 {
		next := themes[idx+1]
		if nd := progress.Theme(next); nd != nil {
			nd.Status = model.ThemeLearning
			nd.Test1.Status = model.TestAvailable
		}
		progress.CurrentThemeIndex = idx + 1
		progress.CurrentTheme = next
	}

	notifier.ThemeCompleted(theme)
	monitoring.ThemesCompleted.Inc()
}

// SkipTest2 放弃一个已解锁的可选测试2。theme 为空时取当前主题。
// 良好能力下解锁主题在解锁当刻已经完成，跳过只清除待确认转场，
// 测试2保持可用；主题尚未完成时跳过会触发主题完成。
// 必考的测试2（优秀能力）不能跳过
func (s *ProgressService) SkipTest2(ctx context.Context, cfg *model.UserConfig, progress *model.LearningProgress, theme string, notifier Notifier) error {
	if theme == "" {
		theme = progress.CurrentTheme
	}
	td := progress.Theme(theme)
	if td == nil {
		return ErrUnknownTheme
	}
	if RulesFor(cfg.Ability).Test2.Required {
		return ErrTest2Required
	}
	if !td.Test2.Unlocked || td.Test1.Status != model.TestCompleted {
		return ErrTest2NotUnlocked
	}

	if td.Status != model.ThemeCompleted {
		s.completeTheme(cfg, progress, theme, notifier)
		progress.PendingAction = &model.PendingAction{Kind: model.PendingReturnToLearning, DelayMs: transitionDelayMs}
	} else {
		progress.PendingAction = nil
	}
	s.persist(ctx, progress)
	return nil
}

// syncCarryOver 每次测试完成只执行一次：答对的词移出登记表；
// 语义测试中来源为本主题的错题加入登记表。
// 复习题再次答错不会重新加入（保留观察到的既有行为）
func (s *ProgressService) syncCarryOver(progress *model.LearningProgress, session *model.TestSession) {
	isMeaning := session.Type == model.KindMeaning
	for i, q := range session.Questions {
		answer := session.Answers[i]
		if answer != nil && answer.Correct {
			progress.RemoveCarryOver(q.Word.Noun)
		} else if isMeaning && q.Source == model.SourceTheme {
			progress.AddCarryOver(q.Word, progress.CurrentTheme)
		}
	}
}

func collectWrongAnswers(session *model.TestSession) []WrongAnswer {
	wrong := make([]WrongAnswer, 0)
	for i, q := range session.Questions {
		answer := session.Answers[i]
		if answer != nil && !answer.Correct {
			wrong = append(wrong, WrongAnswer{
				Word:     q.Word.Noun,
				Meaning:  q.Word.Meaning,
				Selected: answer.SelectedAnswer,
				Correct:  q.CorrectAnswer,
				Image:    q.Word.Image,
				Category: q.Word.Category,
			})
		}
	}
	return wrong
}
