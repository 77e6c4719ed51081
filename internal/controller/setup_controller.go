package controller

import (
	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/service"
	"vokabel_trainer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SetupController struct {
	ProgressService *service.ProgressService
}

func NewSetupController(progressService *service.ProgressService) *SetupController {
	return &SetupController{ProgressService: progressService}
}

// SetupRequest 引导设置请求
type SetupRequest struct {
	UserType string `json:"userType" binding:"required,oneof=adult teenager"`
	Ability  string `json:"ability" binding:"required,oneof=normal good excellent"`
}

// Setup godoc
// @Summary 完成引导设置
// @Description 选择用户类型和能力等级，初始化学习进度
// @Tags 设置
// @Accept  json
// @Produce  json
// @Param   body body SetupRequest true "用户类型和能力等级"
// @Success 201 {object} util.Response{data=object} "设置完成"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "已完成设置"
// @Router /api/setup [post]
func (c *SetupController) Setup(ctx *gin.Context) {
	var req SetupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cfg, progress, err := c.ProgressService.Setup(ctx.Request.Context(), model.UserType(req.UserType), model.Ability(req.Ability))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"config":   cfg,
		"progress": progress,
	})
}

// GetSetup godoc
// @Summary 查询引导设置状态
// @Description 返回用户配置，尚未设置时 setupCompleted 为 false
// @Tags 设置
// @Produce  json
// @Success 200 {object} util.Response{data=object}
// @Router /api/setup [get]
func (c *SetupController) GetSetup(ctx *gin.Context) {
	cfg, err := c.ProgressService.LoadUserConfig(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if cfg == nil {
		util.Success(ctx, gin.H{"setupCompleted": false})
		return
	}
	util.Success(ctx, cfg)
}

// ResetSetup godoc
// @Summary 重置全部学习状态
// @Description 删除用户配置和学习进度，回到引导设置前
// @Tags 设置
// @Produce  json
// @Success 200 {object} util.Response
// @Router /api/setup [delete]
func (c *SetupController) ResetSetup(ctx *gin.Context) {
	c.ProgressService.Reset(ctx.Request.Context())
	util.Success(ctx, gin.H{"reset": true})
}
