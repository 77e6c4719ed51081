package controller

import (
	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/service"
	"vokabel_trainer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetProgress godoc
// @Summary 查询学习进度
// @Description 返回完整的学习进度，包括主题状态、复习词登记表和待确认转场
// @Tags 进度
// @Produce  json
// @Success 200 {object} util.Response{data=model.LearningProgress}
// @Failure 412 {object} util.Response "尚未完成引导设置"
// @Router /api/progress [get]
func (c *ProgressController) GetProgress(ctx *gin.Context) {
	_, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}
	util.Success(ctx, progress)
}

// SelectThemeRequest 主题切换请求
type SelectThemeRequest struct {
	Theme string `json:"theme" binding:"required"`
}

// SelectTheme godoc
// @Summary 切换当前主题
// @Description 切换到已解锁的主题并回到学习模式，锁定主题被拒绝
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   body body SelectThemeRequest true "目标主题"
// @Success 200 {object} util.Response{data=model.LearningProgress}
// @Failure 400 {object} util.Response "未知主题"
// @Failure 423 {object} util.Response "主题尚未解锁"
// @Router /api/progress/theme [post]
func (c *ProgressController) SelectTheme(ctx *gin.Context) {
	cfg, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	var req SelectThemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.SelectTheme(ctx.Request.Context(), cfg, progress, req.Theme); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// SwitchModeRequest 模式切换请求
type SwitchModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=learning test"`
}

// SwitchMode godoc
// @Summary 切换学习/测试模式
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   body body SwitchModeRequest true "目标模式"
// @Success 200 {object} util.Response{data=model.LearningProgress}
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /api/progress/mode [post]
func (c *ProgressController) SwitchMode(ctx *gin.Context) {
	_, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	var req SwitchModeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.ProgressService.SwitchMode(ctx.Request.Context(), progress, model.Mode(req.Mode)); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, progress)
}

// Advance godoc
// @Summary 执行待确认的转场动作
// @Description 客户端按延迟提示的节奏调用，执行测试结束后登记的转场
// @Tags 进度
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Failure 409 {object} util.Response "没有待确认的转场动作"
// @Router /api/progress/advance [post]
func (c *ProgressController) Advance(ctx *gin.Context) {
	_, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	action, err := c.ProgressService.Advance(ctx.Request.Context(), progress)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"action":   action,
		"progress": progress,
	})
}

// SkipTest2Request 跳过词性测试的请求，theme 为空时取当前主题
type SkipTest2Request struct {
	Theme string `json:"theme"`
}

// SkipTest2 godoc
// @Summary 跳过已解锁的词性测试
// @Description 良好能力解锁词性测试后选择不参加，清除待确认转场并保留解锁状态
// @Tags 进度
// @Accept  json
// @Produce  json
// @Param   body body SkipTest2Request false "目标主题，默认当前主题"
// @Success 200 {object} util.Response{data=object}
// @Failure 423 {object} util.Response "词性测试不可跳过或尚未解锁"
// @Router /api/progress/skip-test2 [post]
func (c *ProgressController) SkipTest2(ctx *gin.Context) {
	cfg, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	var req SkipTest2Request
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	collector := service.NewEventCollector()
	if err := c.ProgressService.SkipTest2(ctx.Request.Context(), cfg, progress, req.Theme, collector); err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"progress": progress,
		"events":   collector.Events(),
	})
}
