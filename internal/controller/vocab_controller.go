package controller

import (
	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/service"
	"vokabel_trainer_backend/internal/util"
	"vokabel_trainer_backend/internal/vocab"

	"github.com/gin-gonic/gin"
)

type VocabController struct {
	Table           *vocab.Table
	ProgressService *service.ProgressService
	StorageService  *service.StorageService
}

func NewVocabController(table *vocab.Table, progressService *service.ProgressService, storageService *service.StorageService) *VocabController {
	return &VocabController{
		Table:           table,
		ProgressService: progressService,
		StorageService:  storageService,
	}
}

// ThemeView 主题列表项，附带进度徽章
type ThemeView struct {
	Name        string            `json:"name"`
	Index       int               `json:"index"`
	Status      model.ThemeStatus `json:"status"`
	WordCount   int               `json:"wordCount"`
	Test1Status model.TestStatus  `json:"test1Status"`
	Test2Status model.TestStatus  `json:"test2Status"`
	Current     bool              `json:"current"`
}

// ListThemes godoc
// @Summary 主题列表
// @Description 按用户类型返回课程主题顺序及各主题的进度状态
// @Tags 词汇
// @Produce  json
// @Success 200 {object} util.Response{data=[]ThemeView}
// @Failure 412 {object} util.Response "尚未完成引导设置"
// @Router /api/themes [get]
func (c *VocabController) ListThemes(ctx *gin.Context) {
	cfg, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	order := vocab.ThemeOrder(cfg.UserType)
	views := make([]ThemeView, 0, len(order))
	for i, theme := range order {
		view := ThemeView{
			Name:      theme,
			Index:     i,
			Status:    model.ThemeLocked,
			WordCount: len(c.Table.ByCategory(theme)),
			Current:   theme == progress.CurrentTheme,
		}
		if td := progress.Theme(theme); td != nil {
			view.Status = td.Status
			view.Test1Status = td.Test1.Status
			view.Test2Status = td.Test2.Status
		}
		views = append(views, view)
	}
	util.Success(ctx, views)
}

// WordView 词条展示视图，附词性标识与图片地址
type WordView struct {
	Noun       string            `json:"noun"`
	Meaning    string            `json:"meaning"`
	Category   string            `json:"category"`
	Gender     model.Gender      `json:"gender,omitempty"`
	GenderInfo *vocab.GenderInfo `json:"genderInfo,omitempty"`
	Plural     bool              `json:"plural,omitempty"`
	ImageURL   string            `json:"imageUrl,omitempty"`
}

// ListVocabulary godoc
// @Summary 主题词汇
// @Description 返回指定主题的全部词条，锁定主题不可浏览
// @Tags 词汇
// @Produce  json
// @Param   theme query string true "主题名称"
// @Success 200 {object} util.Response{data=[]WordView}
// @Failure 400 {object} util.Response "未知主题"
// @Failure 423 {object} util.Response "主题尚未解锁"
// @Router /api/vocabulary [get]
func (c *VocabController) ListVocabulary(ctx *gin.Context) {
	_, progress, ok := requireState(ctx, c.ProgressService)
	if !ok {
		return
	}

	theme := ctx.Query("theme")
	if theme == "" {
		theme = progress.CurrentTheme
	}
	td := progress.Theme(theme)
	if td == nil {
		respondServiceError(ctx, service.ErrUnknownTheme)
		return
	}
	if td.Status == model.ThemeLocked {
		respondServiceError(ctx, service.ErrThemeLocked)
		return
	}

	words := c.Table.ByCategory(theme)
	views := make([]WordView, 0, len(words))
	for _, w := range words {
		views = append(views, WordView{
			Noun:       w.Noun,
			Meaning:    w.Meaning,
			Category:   w.Category,
			Gender:     w.Gender,
			GenderInfo: vocab.GenderInfoFor(w),
			Plural:     vocab.IsPluralNoun(w.Noun),
			ImageURL:   c.StorageService.WordImageURL(ctx.Request.Context(), w.Category, w.Image),
		})
	}
	util.Success(ctx, views)
}
