package controller

import (
	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/service"
	"vokabel_trainer_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	SessionService  *service.SessionService
	ProgressService *service.ProgressService
	StorageService  *service.StorageService
}

func NewTestController(sessionService *service.SessionService, progressService *service.ProgressService, storageService *service.StorageService) *TestController {
	return &TestController{
		SessionService:  sessionService,
		ProgressService: progressService,
		StorageService:  storageService,
	}
}

// QuestionView 下发给客户端的题目，不包含正确答案
type QuestionView struct {
	ID       string               `json:"id"`
	Index    int                  `json:"index"`
	Noun     string               `json:"noun"`
	Meaning  string               `json:"meaning,omitempty"`
	ImageURL string               `json:"imageUrl,omitempty"`
	Source   model.QuestionSource `json:"source"`
	Options  []string             `json:"options"`
	Answer   *model.Answer        `json:"answer,omitempty"`
}

// SessionView 测试会话视图
type SessionView struct {
	ID            string         `json:"id"`
	Type          model.TestKind `json:"type"`
	TestType      model.TestType `json:"testType"`
	Theme         string         `json:"theme"`
	Questions     []QuestionView `json:"questions"`
	AnsweredCount int            `json:"answeredCount"`
	TotalCount    int            `json:"totalCount"`
	StartTime     int64          `json:"startTime"`
	Completed     bool           `json:"completed"`
}

// sessionView 构建会话视图。语义测试隐藏词义（词义即答案），
// 词性测试隐藏词性，已作答的题目附带作答记录
func (c *TestController) sessionView(ctx *gin.Context, session *model.TestSession) SessionView {
	view := SessionView{
		ID:            session.ID,
		Type:          session.Type,
		TestType:      session.TestType,
		Theme:         session.Theme,
		Questions:     make([]QuestionView, 0, len(session.Questions)),
		AnsweredCount: session.AnsweredCount(),
		TotalCount:    len(session.Questions),
		StartTime:     session.StartTime,
		Completed:     session.Completed,
	}
	for i, q := range session.Questions {
		qv := QuestionView{
			ID:       q.ID,
			Index:    i,
			Noun:     q.Word.Noun,
			ImageURL: c.StorageService.WordImageURL(ctx.Request.Context(), q.Word.Category, q.Word.Image),
			Source:   q.Source,
			Options:  q.Options,
			Answer:   session.Answers[i],
		}
		if session.Type == model.KindGender {
			qv.Meaning = q.Word.Meaning
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

// StartTestRequest 开始测试请求
type StartTestRequest struct {
	TestType string `json:"testType" binding:"required,oneof=test1 test2"`
}

// StartTest godoc
// @Summary 开始测试
// @Description 在当前主题上生成一次测试会话，守卫前置条件不满足时拒绝
// @Tags 测试
// @Accept  json
// @Produce  json
// @Param   body body StartTestRequest true "测试层级"
// @Success 201 {object} util.Response{data=SessionView}
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 422 {object} util.Response "没有可用题目"
// @Failure 423 {object} util.Response "测试尚未解锁"
// @Router /api/tests [post]
func (c *TestController) StartTest(ctx *gin.Context) {
	cfg, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	var req StartTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	session, err := c.SessionService.Start(ctx.Request.Context(), cfg, progress, model.TestType(req.TestType))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Created(ctx, c.sessionView(ctx, session))
}

// GetTest godoc
// @Summary 查询测试会话
// @Tags 测试
// @Produce  json
// @Param   id path string true "会话ID"
// @Success 200 {object} util.Response{data=SessionView}
// @Failure 404 {object} util.Response "会话不存在"
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	session, err := c.SessionService.Get(ctx.Param("id"))
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, c.sessionView(ctx, session))
}

// AnswerRequest 作答请求
type AnswerRequest struct {
	QuestionIndex int `json:"questionIndex" binding:"min=0"`
	OptionIndex   int `json:"optionIndex" binding:"min=0"`
}

// SubmitAnswer godoc
// @Summary 提交一次作答
// @Description 首次作答即定局，重复作答返回已有记录。
// @Description 最后一题作答后返回整场测试的结果与事件
// @Tags 测试
// @Accept  json
// @Produce  json
// @Param   id path string true "会话ID"
// @Param   body body AnswerRequest true "题目与选项编号"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 400 {object} util.Response "题目或选项编号无效"
// @Failure 404 {object} util.Response "会话不存在"
// @Failure 409 {object} util.Response "会话已完成"
// @Router /api/tests/{id}/answers [post]
func (c *TestController) SubmitAnswer(ctx *gin.Context) {
	cfg, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.SessionService.Answer(ctx.Request.Context(), cfg, progress, ctx.Param("id"), req.QuestionIndex, req.OptionIndex)
	if err != nil {
		respondServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
