package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"vokabel_trainer_backend/internal/model"
	"vokabel_trainer_backend/internal/vocab"

	"github.com/samber/lo"
)

// GeneratorService 为指定主题和测试类型构建测试会话。
// 随机源可注入，测试使用固定种子
type GeneratorService struct {
	table *vocab.Table
	rng   *rand.Rand
}

func NewGeneratorService(table *vocab.Table) *GeneratorService {
	return &GeneratorService{
		table: table,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Generate 生成一次测试的题目集。
// 语义测试：主题词按60%上限抽样（排除登记表中的词），
// 复习词作为语义题插在主题题目之前；
// 词性测试：同样抽样，不注入复习词。
// 没有任何题目时返回 ErrNoQuestions，不创建会话
func (g *GeneratorService) Generate(theme string, testType model.TestType, carryOver []model.CarryOverWord) ([]model.Question, error) {
	kind := model.KindMeaning
	if testType == model.TestType2 {
		kind = model.KindGender
	}

	themeWords := g.table.ByCategory(theme)
	shuffled := make([]model.WordRecord, len(themeWords))
	copy(shuffled, themeWords)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	targetCount := 0
	if len(themeWords) > 0 {
		targetCount = (len(themeWords)*6 + 9) / 10 // ceil(0.6n)
		if targetCount < 1 {
			targetCount = 1
		}
		if targetCount > len(themeWords) {
			targetCount = len(themeWords)
		}
	}

	carryOverNouns := make(map[string]bool, len(carryOver))
	for _, w := range carryOver {
		if w.Noun != "" {
			carryOverNouns[w.Noun] = true
		}
	}

	var selected []model.WordRecord
	for _, word := range shuffled {
		if !carryOverNouns[word.Noun] {
			selected = append(selected, word)
		}
		if len(selected) >= targetCount {
			break
		}
	}

	var questions []model.Question
	if kind == model.KindMeaning {
		for i, w := range carryOver {
			if w.Noun == "" {
				continue
			}
			questions = append(questions, g.buildQuestion(w.Word(), i, model.SourceCarryOver, model.KindMeaning))
		}
	}
	offset := len(questions)
	for i, word := range selected {
		questions = append(questions, g.buildQuestion(word, offset+i, model.SourceTheme, kind))
	}

	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

func (g *GeneratorService) buildQuestion(word model.WordRecord, index int, source model.QuestionSource, kind model.TestKind) model.Question {
	q := model.Question{
		ID:     fmt.Sprintf("%s-%s-%d", source, word.Noun, index),
		Word:   word,
		Source: source,
	}
	if kind == model.KindMeaning {
		q.CorrectAnswer = word.Meaning
		q.Options = g.meaningOptions(word)
	} else {
		q.CorrectAnswer = string(vocab.EffectiveGender(word))
		q.Options = g.genderOptions(word)
	}
	return q
}

// meaningOptions 语义选项合成：正确含义 + 至多1个精心设计的
// 同主题语义诱惑项 + 随机同主题干扰项，不足4个时从全表
// 同类别词汇补足，最后整体打乱
func (g *GeneratorService) meaningOptions(word model.WordRecord) []string {
	correct := word.Meaning
	options := []string{correct}

	themeWords := lo.Filter(g.table.ByCategory(word.Category), func(w model.WordRecord, _ int) bool {
		return w.Meaning != correct
	})

	// 精心设计的诱惑选项（1个）
	for _, lure := range g.table.SemanticDistractors(correct) {
		found, ok := lo.Find(themeWords, func(w model.WordRecord) bool {
			return vocab.CanonicalMeaning(w.Meaning) == lure || strings.Contains(w.Meaning, lure)
		})
		if ok {
			options = append(options, found.Meaning)
			break
		}
	}

	// 随机干扰选项
	remaining := lo.Filter(themeWords, func(w model.WordRecord, _ int) bool {
		return !lo.Contains(options, w.Meaning)
	})
	g.rng.Shuffle(len(remaining), func(i, j int) {
		remaining[i], remaining[j] = remaining[j], remaining[i]
	})
	for i := 0; i < len(remaining) && len(options) < 4; i++ {
		options = append(options, remaining[i].Meaning)
	}

	// 小主题兜底：从全表同类别词汇补足
	if len(options) < 4 {
		backfill := lo.Filter(g.table.Words(), func(w model.WordRecord, _ int) bool {
			return w.Category == word.Category && !lo.Contains(options, w.Meaning)
		})
		g.rng.Shuffle(len(backfill), func(i, j int) {
			backfill[i], backfill[j] = backfill[j], backfill[i]
		})
		for i := 0; i < len(backfill) && len(options) < 4; i++ {
			options = append(options, backfill[i].Meaning)
		}
	}

	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}

// genderOptions 正确词性加上其余两个冠词，打乱顺序
func (g *GeneratorService) genderOptions(word model.WordRecord) []string {
	correct := string(vocab.EffectiveGender(word))
	options := []string{correct}
	for _, gd := range []string{"der", "die", "das"} {
		if gd != correct {
			options = append(options, gd)
		}
	}
	g.rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})
	return options
}
