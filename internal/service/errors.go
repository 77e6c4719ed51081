package service

import "errors"

var (
	// ErrNotSetUp 尚未完成引导设置
	ErrNotSetUp = errors.New("setup not completed")
	// ErrAlreadySetUp 重复设置
	ErrAlreadySetUp = errors.New("setup already completed")
	// ErrThemeLocked 主题尚未解锁
	ErrThemeLocked = errors.New("theme is locked")
	// ErrUnknownTheme 主题不在当前课程中
	ErrUnknownTheme = errors.New("unknown theme")
	// ErrTestLocked 测试1尚不可用（守卫前置条件，不改变状态）
	ErrTestLocked = errors.New("test is locked")
	// ErrTest2NotUnlocked 测试2尚未解锁
	ErrTest2NotUnlocked = errors.New("test2 not unlocked")
	// ErrTest2Required 必考的测试2不能跳过
	ErrTest2Required = errors.New("test2 is required and cannot be skipped")
	// ErrTest2Hidden normal 能力下测试2不可达
	ErrTest2Hidden = errors.New("test2 not available for this ability")
	// ErrNoQuestions 当前主题没有可测试的题目
	ErrNoQuestions = errors.New("no questions available")
	// ErrSessionNotFound 测试会话不存在或已结束
	ErrSessionNotFound = errors.New("test session not found")
	// ErrSessionCompleted 会话已完成，不再接受作答
	ErrSessionCompleted = errors.New("test session already completed")
	// ErrNoPendingAction 没有待确认的转场
	ErrNoPendingAction = errors.New("no pending action")
	// ErrInvalidQuestion 题目序号或选项序号越界
	ErrInvalidQuestion = errors.New("invalid question or option index")
)
