package service

import (
	"context"
	"testing"
	"time"

	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/repository"
	"vokabel_trainer_backend/internal/vocab"
	"vokabel_trainer_backend/pkg/logger"

	"go.uber.org/zap"
)

// fakeStateStore 内存键值对，替代MySQL/Redis后端
type fakeStateStore struct {
	values map[string]string
}

func newFakeStateStore() *fakeStateStore {
	return &fakeStateStore{values: map[string]string{}}
}

func (f *fakeStateStore) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", repository.ErrStateNotFound
	}
	return v, nil
}

func (f *fakeStateStore) Set(ctx context.Context, key, value string) error {
	f.values[key] = value
	return nil
}

func (f *fakeStateStore) Remove(ctx context.Context, key string) error {
	delete(f.values, key)
	return nil
}

var testTime = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newTestProgressService(t *testing.T, store repository.StateStore) *ProgressService {
	t.Helper()
	logger.Log = zap.NewNop()
	table, err := vocab.Load()
	if err != nil {
		t.Fatalf("load vocabulary: %v", err)
	}
	s := NewProgressService(store, table)
	s.clock = func() time.Time { return testTime }
	return s
}

// fakeSession 构造一个已完成的会话：前 correct 题答对，其余答错
func fakeSession(theme string, testType model.TestType, words []model.WordRecord, correct int) *model.TestSession {
	kind := model.KindMeaning
	if testType == model.TestType2 {
		kind = model.KindGender
	}
	session := &model.TestSession{
		ID:        "s1",
		Type:      kind,
		TestType:  testType,
		Theme:     theme,
		StartTime: testTime.UnixMilli(),
		Completed: true,
	}
	for i, w := range words {
		answer := w.Meaning
		if kind == model.KindGender {
			answer = string(vocab.EffectiveGender(w))
		}
		q := model.Question{
			ID:            "q",
			Word:          w,
			Source:        model.SourceTheme,
			CorrectAnswer: answer,
			Options:       []string{answer},
		}
		session.Questions = append(session.Questions, q)
		session.Answers = append(session.Answers, &model.Answer{
			SelectedAnswer: answer,
			Correct:        i < correct,
		})
	}
	return session
}

func mustSetup(t *testing.T, s *ProgressService, userType model.UserType, ability model.Ability) (*model.UserConfig, *model.LearningProgress) {
	t.Helper()
	cfg, progress, err := s.Setup(context.Background(), userType, ability)
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	return cfg, progress
}

func hasEvent(events []Event, eventType string) bool {
	for _, e := range events {
		if e.Type == eventType {
			return true
		}
	}
	return false
}

func TestSetupInitializesProgress(t *testing.T) {
	store := newFakeStateStore()
	s := newTestProgressService(t, store)

	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	if !cfg.SetupCompleted {
		t.Error("setup completed flag not set")
	}

	order := vocab.ThemeOrder(model.UserTypeAdult)
	if len(order) != 10 {
		t.Fatalf("adult theme order = %d, want 10", len(order))
	}
	if len(progress.Themes) != len(order) {
		t.Fatalf("themes = %d, want %d", len(progress.Themes), len(order))
	}
	if progress.CurrentTheme != order[0] {
		t.Errorf("current theme = %q, want %q", progress.CurrentTheme, order[0])
	}

	first := progress.Theme(order[0])
	if first.Status != model.ThemeLearning {
		t.Errorf("first theme status = %q, want learning", first.Status)
	}
	if first.Test1.Status != model.TestAvailable {
		t.Errorf("first theme test1 = %q, want available", first.Test1.Status)
	}
	for _, theme := range order[1:] {
		if progress.Theme(theme).Status != model.ThemeLocked {
			t.Errorf("theme %q should start locked", theme)
		}
	}

	if _, ok := store.values[model.StateKeyUserConfig]; !ok {
		t.Error("user config not persisted")
	}
	if _, ok := store.values[model.StateKeyLearningProgress]; !ok {
		t.Error("learning progress not persisted")
	}
}

func TestSetupTeenagerHasExtraThemes(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	_, progress := mustSetup(t, s, model.UserTypeTeenager, model.AbilityNormal)
	if len(progress.Themes) != 12 {
		t.Errorf("teenager themes = %d, want 12", len(progress.Themes))
	}
}

func TestSetupRejectsRepeat(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)

	if _, _, err := s.Setup(context.Background(), model.UserTypeAdult, model.AbilityGood); err != ErrAlreadySetUp {
		t.Errorf("second setup err = %v, want ErrAlreadySetUp", err)
	}
}

func TestLoadUserConfigCorruptResets(t *testing.T) {
	store := newFakeStateStore()
	s := newTestProgressService(t, store)
	store.values[model.StateKeyUserConfig] = `{"userType":"alien"}`

	cfg, err := s.LoadUserConfig(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != nil {
		t.Errorf("corrupt config should load as nil, got %+v", cfg)
	}
	if _, ok := store.values[model.StateKeyUserConfig]; ok {
		t.Error("corrupt config record should be deleted")
	}
}

func TestLoadProgressCorruptReinitializes(t *testing.T) {
	store := newFakeStateStore()
	s := newTestProgressService(t, store)
	cfg, _ := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	store.values[model.StateKeyLearningProgress] = `not json at all`

	progress, err := s.LoadProgress(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if progress.CurrentThemeIndex != 0 || len(progress.Themes) != 10 {
		t.Errorf("corrupt progress should reinitialize, got index=%d themes=%d",
			progress.CurrentThemeIndex, len(progress.Themes))
	}
}

func TestLoadProgressRepairsLockedTest1(t *testing.T) {
	store := newFakeStateStore()
	s := newTestProgressService(t, store)
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)

	// 历史数据里 learning 主题可能带着 locked 的 test1
	progress.Theme(progress.CurrentTheme).Test1.Status = model.TestLocked
	s.persist(context.Background(), progress)

	loaded, err := s.LoadProgress(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := loaded.Theme(loaded.CurrentTheme).Test1.Status; got != model.TestAvailable {
		t.Errorf("test1 status = %q, want available after repair", got)
	}
}

func TestProgressRoundTrip(t *testing.T) {
	store := newFakeStateStore()
	s := newTestProgressService(t, store)
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityGood)

	words := s.table.ByCategory(progress.CurrentTheme)
	collector := NewEventCollector()
	if _, err := s.SubmitTest(context.Background(), cfg, progress, fakeSession(progress.CurrentTheme, model.TestType1, words, len(words)), collector); err != nil {
		t.Fatalf("submit: %v", err)
	}

	loaded, err := s.LoadProgress(context.Background(), cfg)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.CurrentTheme != progress.CurrentTheme {
		t.Errorf("round trip current theme = %q, want %q", loaded.CurrentTheme, progress.CurrentTheme)
	}
	td := loaded.Theme(vocab.ThemeOrder(cfg.UserType)[0])
	if td.Test1.Status != model.TestCompleted || td.Test1.Attempts != 1 {
		t.Errorf("round trip test1 = %+v", td.Test1)
	}
	if td.Test1.LastAttempt == nil || !td.Test1.LastAttempt.Equal(testTime) {
		t.Errorf("round trip lastAttempt = %v, want %v", td.Test1.LastAttempt, testTime)
	}
}

func TestNormalPassCompletesThemeAndAdvances(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	order := vocab.ThemeOrder(cfg.UserType)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	collector := NewEventCollector()
	outcome, err := s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 8), collector)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if !outcome.Passed {
		t.Error("80% should pass at normal ability")
	}
	if progress.Theme(theme).Status != model.ThemeCompleted {
		t.Errorf("theme status = %q, want completed", progress.Theme(theme).Status)
	}
	if progress.CurrentTheme != order[1] {
		t.Errorf("current theme = %q, want %q", progress.CurrentTheme, order[1])
	}
	if next := progress.Theme(order[1]); next.Status != model.ThemeLearning || next.Test1.Status != model.TestAvailable {
		t.Errorf("next theme not unlocked: %+v", next)
	}
	if outcome.Pending == nil || outcome.Pending.Kind != model.PendingReturnToLearning || outcome.Pending.DelayMs != 2000 {
		t.Errorf("pending = %+v, want return_to_learning with 2000ms", outcome.Pending)
	}
	if !hasEvent(collector.Events(), EventThemeCompleted) || !hasEvent(collector.Events(), EventTestCompleted) {
		t.Errorf("events = %+v", collector.Events())
	}
	if hasEvent(collector.Events(), EventUnlockAvailable) {
		t.Error("normal ability must never unlock test2")
	}
}

func TestNormalFailKeepsTestAvailable(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	collector := NewEventCollector()
	outcome, err := s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 7), collector)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if outcome.Passed {
		t.Error("70% must not pass at normal ability")
	}
	td := progress.Theme(theme)
	if td.Test1.Status != model.TestAvailable {
		t.Errorf("test1 status = %q, want available for retry", td.Test1.Status)
	}
	if td.Status != model.ThemeLearning {
		t.Errorf("theme status = %q, want learning", td.Status)
	}
	if td.Test1.Attempts != 1 {
		t.Errorf("attempts = %d, want 1", td.Test1.Attempts)
	}
	if td.Test1.FirstAttemptPassRate == nil || *td.Test1.FirstAttemptPassRate != 0.7 {
		t.Errorf("firstAttemptPassRate = %v, want 0.7", td.Test1.FirstAttemptPassRate)
	}
	if !hasEvent(collector.Events(), EventRetryRequired) {
		t.Error("missing retry_required event")
	}
	if outcome.Pending == nil || outcome.Pending.Kind != model.PendingReturnToLearning {
		t.Errorf("pending = %+v, want return_to_learning", outcome.Pending)
	}
	if len(outcome.WrongAnswers) != 3 {
		t.Errorf("wrong answers = %d, want 3", len(outcome.WrongAnswers))
	}
}

func TestFirstAttemptPassRateWriteOnce(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 5), NewEventCollector())
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 9), NewEventCollector())

	td := progress.Theme(theme)
	if td.Test1.FirstAttemptPassRate == nil || *td.Test1.FirstAttemptPassRate != 0.5 {
		t.Errorf("firstAttemptPassRate = %v, want first recorded 0.5", td.Test1.FirstAttemptPassRate)
	}
	if td.Test1.PassRate == nil || *td.Test1.PassRate != 0.9 {
		t.Errorf("passRate = %v, want latest 0.9", td.Test1.PassRate)
	}
	if td.Test1.Attempts != 2 {
		t.Errorf("attempts = %d, want 2", td.Test1.Attempts)
	}
}

func TestGoodUnlocksTest2OnStrongFirstAttempt(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityGood)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	collector := NewEventCollector()
	outcome, err := s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 9), collector)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	td := progress.Theme(theme)
	if !td.Test2.Unlocked || !td.Test2.Unlockable {
		t.Errorf("test2 should unlock on 90%% first attempt: %+v", td.Test2)
	}
	if td.Test2.Status != model.TestAvailable {
		t.Errorf("test2 status = %q, want available", td.Test2.Status)
	}
	if !hasEvent(collector.Events(), EventUnlockAvailable) {
		t.Error("missing unlock_available event")
	}
	// 测试2可选，主题仍然立即完成
	if td.Status != model.ThemeCompleted {
		t.Errorf("theme status = %q, want completed", td.Status)
	}
	if !outcome.Passed {
		t.Error("outcome should be passed")
	}
}

func TestGoodWeakFirstAttemptNeverUnlocks(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityGood)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	// 第一次通过但低于解锁门槛
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 8), NewEventCollector())

	td := progress.Theme(theme)
	if td.Test2.Unlocked {
		t.Error("test2 must not unlock below 90%")
	}
	if td.Test2.Unlockable {
		t.Error("unlockable must be permanently false after weak first attempt")
	}
}

func TestGoodSecondAttemptCannotUnlock(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityGood)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	// 第一次未通过，第二次满分：解锁机会已经用掉
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 5), NewEventCollector())
	collector := NewEventCollector()
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 10), collector)

	td := progress.Theme(theme)
	if td.Test2.Unlocked {
		t.Error("only the first attempt may unlock test2")
	}
	if hasEvent(collector.Events(), EventUnlockAvailable) {
		t.Error("unexpected unlock_available event on second attempt")
	}
	if td.Status != model.ThemeCompleted {
		t.Errorf("theme status = %q, want completed", td.Status)
	}
}

func TestExcellentBypassEntersTest2(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityExcellent)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	collector := NewEventCollector()
	outcome, err := s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 9), collector)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	td := progress.Theme(theme)
	if !td.Test2.Unlocked || td.Test2.Status != model.TestAvailable {
		t.Errorf("test2 should open directly: %+v", td.Test2)
	}
	// 旁路分支跳过主题完成评估
	if td.Status == model.ThemeCompleted {
		t.Error("theme must not complete until test2 passes")
	}
	if hasEvent(collector.Events(), EventThemeCompleted) {
		t.Error("unexpected theme_completed event")
	}
	if outcome.Pending == nil || outcome.Pending.Kind != model.PendingEnterTest2 || outcome.Pending.DelayMs != 2000 {
		t.Errorf("pending = %+v, want enter_test2 with 2000ms", outcome.Pending)
	}
	if progress.PendingAction == nil || progress.PendingAction.Kind != model.PendingEnterTest2 {
		t.Errorf("pending action not persisted: %+v", progress.PendingAction)
	}
}

func TestExcellentTest1BelowThresholdFails(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityExcellent)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	outcome, _ := s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 8), NewEventCollector())
	if outcome.Passed {
		t.Error("80% must not pass test1 at excellent ability")
	}
	if progress.Theme(theme).Test2.Unlocked {
		t.Error("failed test1 must not open test2")
	}
}

func TestExcellentTest2CompletesTheme(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityExcellent)
	order := vocab.ThemeOrder(cfg.UserType)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 10), NewEventCollector())

	collector := NewEventCollector()
	outcome, err := s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType2, words, 7), collector)
	if err != nil {
		t.Fatalf("submit test2: %v", err)
	}

	if !outcome.Passed {
		t.Error("70% should pass test2 at excellent ability")
	}
	if progress.Theme(theme).Status != model.ThemeCompleted {
		t.Errorf("theme status = %q, want completed", progress.Theme(theme).Status)
	}
	if progress.CurrentTheme != order[1] {
		t.Errorf("current theme = %q, want %q", progress.CurrentTheme, order[1])
	}
	if !hasEvent(collector.Events(), EventThemeCompleted) {
		t.Error("missing theme_completed event")
	}
}

func TestExcellentTest2FailAllowsRetry(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityExcellent)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 10), NewEventCollector())

	collector := NewEventCollector()
	outcome, _ := s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType2, words, 6), collector)

	if outcome.Passed {
		t.Error("60% must not pass test2 at excellent ability")
	}
	td := progress.Theme(theme)
	if td.Test2.Status != model.TestAvailable {
		t.Errorf("unlocked test2 should stay available on fail, got %q", td.Test2.Status)
	}
	if td.Status == model.ThemeCompleted {
		t.Error("theme must not complete on failed required test2")
	}
	if !hasEvent(collector.Events(), EventRetryRequired) {
		t.Error("missing retry_required event")
	}
}

func TestCarryOverAddedOnMeaningMiss(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 8), NewEventCollector())

	if len(progress.CarryOverMistakes) != 2 {
		t.Fatalf("carry-over = %d, want 2", len(progress.CarryOverMistakes))
	}
	for _, w := range progress.CarryOverMistakes {
		if !w.CarryOver {
			t.Errorf("carry-over flag missing on %q", w.Noun)
		}
		if w.OriginTheme != theme {
			t.Errorf("origin theme = %q, want %q", w.OriginTheme, theme)
		}
	}
}

func TestCarryOverRemovedWhenAnsweredCorrectly(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	progress.AddCarryOver(words[0], theme)
	progress.AddCarryOver(words[1], theme)

	// words[0] 答对（复习来源），words[1] 再次答错
	session := fakeSession(theme, model.TestType1, words[:2], 1)
	session.Questions[0].Source = model.SourceCarryOver
	session.Questions[1].Source = model.SourceCarryOver
	s.SubmitTest(context.Background(), cfg, progress, session, NewEventCollector())

	if len(progress.CarryOverMistakes) != 1 {
		t.Fatalf("carry-over = %d, want 1", len(progress.CarryOverMistakes))
	}
	if progress.CarryOverMistakes[0].Noun != words[1].Noun {
		t.Errorf("remaining carry-over = %q, want %q", progress.CarryOverMistakes[0].Noun, words[1].Noun)
	}
}

func TestCarryOverDeduplicates(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	progress.AddCarryOver(words[9], theme)

	// 同一个词再次答错不会产生第二条登记
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 9), NewEventCollector())

	count := 0
	for _, w := range progress.CarryOverMistakes {
		if w.Noun == words[9].Noun {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate carry-over entries for %q: %d", words[9].Noun, count)
	}
}

func TestGenderTestDoesNotAddCarryOver(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityExcellent)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 10), NewEventCollector())
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType2, words, 7), NewEventCollector())

	if len(progress.CarryOverMistakes) != 0 {
		t.Errorf("gender test misses must not register carry-over, got %d", len(progress.CarryOverMistakes))
	}
}

func TestAdvanceAppliesPendingAction(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]
	progress.CurrentMode = model.ModeTest

	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 8), NewEventCollector())
	if progress.PendingAction == nil {
		t.Fatal("expected a pending action after submit")
	}

	action, err := s.Advance(context.Background(), progress)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if action.Kind != model.PendingReturnToLearning {
		t.Errorf("action = %q, want return_to_learning", action.Kind)
	}
	if progress.CurrentMode != model.ModeLearning {
		t.Errorf("mode = %q, want learning", progress.CurrentMode)
	}
	if progress.PendingAction != nil {
		t.Error("pending action should be cleared")
	}

	if _, err := s.Advance(context.Background(), progress); err != ErrNoPendingAction {
		t.Errorf("second advance err = %v, want ErrNoPendingAction", err)
	}
}

func TestSelectThemeRejectsLocked(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	order := vocab.ThemeOrder(cfg.UserType)

	if err := s.SelectTheme(context.Background(), cfg, progress, order[3]); err != ErrThemeLocked {
		t.Errorf("locked theme err = %v, want ErrThemeLocked", err)
	}
	if err := s.SelectTheme(context.Background(), cfg, progress, "不存在的主题"); err != ErrUnknownTheme {
		t.Errorf("unknown theme err = %v, want ErrUnknownTheme", err)
	}
	if progress.CurrentTheme != order[0] {
		t.Error("rejected selection must not change current theme")
	}
}

func TestSelectThemeSwitchesToCompleted(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	order := vocab.ThemeOrder(cfg.UserType)
	words := s.table.ByCategory(order[0])[:10]

	s.SubmitTest(context.Background(), cfg, progress, fakeSession(order[0], model.TestType1, words, 10), NewEventCollector())

	if err := s.SelectTheme(context.Background(), cfg, progress, order[0]); err != nil {
		t.Fatalf("select completed theme: %v", err)
	}
	if progress.CurrentTheme != order[0] || progress.CurrentThemeIndex != 0 {
		t.Errorf("current = %q/%d, want %q/0", progress.CurrentTheme, progress.CurrentThemeIndex, order[0])
	}
	if progress.CurrentMode != model.ModeLearning {
		t.Errorf("mode = %q, want learning after theme switch", progress.CurrentMode)
	}
}

func TestCanStartTestGuards(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())

	cfgNormal := &model.UserConfig{UserType: model.UserTypeAdult, Ability: model.AbilityNormal, SetupCompleted: true}
	progress := s.InitializeProgress(model.UserTypeAdult)

	if err := s.CanStartTest(cfgNormal, progress, model.TestType1); err != nil {
		t.Errorf("test1 on learning theme: %v", err)
	}
	if err := s.CanStartTest(cfgNormal, progress, model.TestType2); err != ErrTest2Hidden {
		t.Errorf("normal test2 err = %v, want ErrTest2Hidden", err)
	}

	cfgGood := &model.UserConfig{UserType: model.UserTypeAdult, Ability: model.AbilityGood, SetupCompleted: true}
	if err := s.CanStartTest(cfgGood, progress, model.TestType2); err != ErrTest2NotUnlocked {
		t.Errorf("good locked test2 err = %v, want ErrTest2NotUnlocked", err)
	}

	progress.Theme(progress.CurrentTheme).Test1.Status = model.TestLocked
	progress.Theme(progress.CurrentTheme).Status = model.ThemeLocked
	if err := s.CanStartTest(cfgNormal, progress, model.TestType1); err != ErrTestLocked {
		t.Errorf("locked test1 err = %v, want ErrTestLocked", err)
	}
}

func TestSkipTest2AfterGoodUnlock(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityGood)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	// 9/10 首次通过：主题完成、测试2解锁、当前主题前进
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 9), NewEventCollector())
	if progress.CurrentTheme == theme {
		t.Fatal("strong first attempt should advance the current theme")
	}

	if err := s.SkipTest2(context.Background(), cfg, progress, theme, NewEventCollector()); err != nil {
		t.Fatalf("skip: %v", err)
	}
	td := progress.Theme(theme)
	if td.Status != model.ThemeCompleted {
		t.Error("skipping optional test2 should leave the theme completed")
	}
	if !td.Test2.Unlocked {
		t.Error("skipping should not revoke the test2 unlock")
	}
	if progress.PendingAction != nil {
		t.Error("skipping should clear the pending action")
	}
}

func TestSkipTest2Guards(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityGood)
	theme := progress.CurrentTheme
	words := s.table.ByCategory(theme)[:10]

	// 未解锁时不能跳过，theme 为空取当前主题
	if err := s.SkipTest2(context.Background(), cfg, progress, "", NewEventCollector()); err != ErrTest2NotUnlocked {
		t.Errorf("skip before unlock err = %v, want ErrTest2NotUnlocked", err)
	}

	// 第二次通过不解锁测试2，跳过仍被拒绝
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 5), NewEventCollector())
	s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 9), NewEventCollector())
	if err := s.SkipTest2(context.Background(), cfg, progress, theme, NewEventCollector()); err != ErrTest2NotUnlocked {
		t.Errorf("skip without unlock err = %v, want ErrTest2NotUnlocked", err)
	}

	// 优秀能力的测试2是必考，不能跳过
	sExc := newTestProgressService(t, newFakeStateStore())
	cfgExc, progExc := mustSetup(t, sExc, model.UserTypeAdult, model.AbilityExcellent)
	excTheme := progExc.CurrentTheme
	sExc.SubmitTest(context.Background(), cfgExc, progExc, fakeSession(excTheme, model.TestType1, words, 10), NewEventCollector())
	if err := sExc.SkipTest2(context.Background(), cfgExc, progExc, excTheme, NewEventCollector()); err != ErrTest2Required {
		t.Errorf("skip required test2 err = %v, want ErrTest2Required", err)
	}
}

func TestSingleLearningThemeInvariant(t *testing.T) {
	s := newTestProgressService(t, newFakeStateStore())
	cfg, progress := mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)
	order := vocab.ThemeOrder(cfg.UserType)

	assertInvariants := func(step string) {
		learning := 0
		for theme, td := range progress.Themes {
			if td.Status == model.ThemeLearning {
				learning++
			}
			if td.Status == model.ThemeLocked && td.Test1.Status == model.TestAvailable {
				t.Errorf("%s: locked theme %q has available test1", step, theme)
			}
		}
		if learning != 1 {
			t.Errorf("%s: learning themes = %d, want 1", step, learning)
		}
	}

	assertInvariants("after setup")

	// 顺序完成前三个主题，穿插一次失败
	for i := 0; i < 3; i++ {
		theme := progress.CurrentTheme
		words := s.table.ByCategory(theme)[:10]
		if i == 1 {
			s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 5), NewEventCollector())
			assertInvariants("after failed attempt")
		}
		s.SubmitTest(context.Background(), cfg, progress, fakeSession(theme, model.TestType1, words, 10), NewEventCollector())
		assertInvariants("after completing " + theme)
		if progress.CurrentTheme != order[i+1] {
			t.Fatalf("current theme = %q, want %q", progress.CurrentTheme, order[i+1])
		}
	}
}

func TestResetClearsBothKeys(t *testing.T) {
	store := newFakeStateStore()
	s := newTestProgressService(t, store)
	mustSetup(t, s, model.UserTypeAdult, model.AbilityNormal)

	s.Reset(context.Background())

	if len(store.values) != 0 {
		t.Errorf("store should be empty after reset, got %v", store.values)
	}
	cfg, err := s.LoadUserConfig(context.Background())
	if err != nil || cfg != nil {
		t.Errorf("config after reset = %v, %v, want nil, nil", cfg, err)
	}
}
