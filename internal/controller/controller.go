package controller

import (
	"errors"

	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/service"
	"vokabel_trainer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// requireState 加载用户配置与学习进度，未完成引导设置时返回 412
func requireState(ctx *gin.Context, progress *service.ProgressService) (*model.UserConfig, *model.LearningProgress, bool) {
	cfg, err := progress.LoadUserConfig(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return nil, nil, false
	}
	if cfg == nil || !cfg.SetupCompleted {
		util.Error(ctx, 412, "请先完成引导设置")
		return nil, nil, false
	}
	state, err := progress.LoadProgress(ctx.Request.Context(), cfg)
	if err != nil {
		util.LogInternalError(ctx, err)
		return nil, nil, false
	}
	return cfg, state, true
}

// respondServiceError 把服务层错误映射为统一的HTTP响应
func respondServiceError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlreadySetUp):
		util.Conflict(ctx, "引导设置已完成")
	case errors.Is(err, service.ErrUnknownTheme):
		util.BadRequest(ctx, "未知主题")
	case errors.Is(err, service.ErrThemeLocked):
		util.Locked(ctx, "主题尚未解锁")
	case errors.Is(err, service.ErrTestLocked):
		util.Locked(ctx, "测试尚未解锁")
	case errors.Is(err, service.ErrTest2Hidden):
		util.Locked(ctx, "当前能力等级没有词性测试")
	case errors.Is(err, service.ErrTest2NotUnlocked):
		util.Locked(ctx, "词性测试尚未解锁")
	case errors.Is(err, service.ErrTest2Required):
		util.Locked(ctx, "当前能力等级必须参加词性测试")
	case errors.Is(err, service.ErrNoQuestions):
		util.Error(ctx, 422, "该主题没有可用题目")
	case errors.Is(err, service.ErrSessionNotFound):
		util.NotFound(ctx)
	case errors.Is(err, service.ErrSessionCompleted):
		util.Conflict(ctx, "测试会话已完成")
	case errors.Is(err, service.ErrNoPendingAction):
		util.Conflict(ctx, "没有待确认的转场动作")
	case errors.Is(err, service.ErrInvalidQuestion):
		util.BadRequest(ctx, "题目或选项编号无效")
	default:
		util.LogInternalError(ctx, err)
	}
}
