package vocab

import (
	"embed"
	"encoding/json"
	"fmt"
	"vokabel_trainer_backend/internal/model"

	"github.com/samber/lo"
)

//go:embed data/vocabulary.json data/distractors.json
var dataFS embed.FS

// 主题解锁顺序，青少年列表是成人列表的扩展
var themeOrder = map[model.UserType][]string{
	model.UserTypeAdult: {
		"时间和日期", "提问和交流", "食物", "居住", "交通和旅行",
		"购物", "看医生", "银行和邮局", "学习和工作", "业余活动",
	},
	model.UserTypeTeenager: {
		"时间和日期", "提问和交流", "食物", "居住", "交通和旅行",
		"购物", "看医生", "银行和邮局", "学习和工作", "业余活动",
		"文具", "动物",
	},
}

// 类别对应的静态图片资源目录
var categoryFolders = map[string]string{
	"时间和日期": "A1W01_Zeit_und_Datum_30Woerter",
	"提问和交流": "A1W02_Fragen_und_Kommunikation_38Woerter",
	"衣服":    "A1W03_Kleidung_18Woerter",
	"食物":    "A1W04_Lebensmittel_45Woerter",
	"居住":    "A1W05_Wohnen_50Woerter",
	"交通和旅行": "A1W06_Verkehr_und_Reisen_42Woerter",
	"购物":    "A1W07_Einkaufen_19Woerter",
	"看医生":   "A1W08_Arztbesuch_19Woerter",
	"银行和邮局": "A1W09_Bank_und_Post_22Woerter",
	"学习和工作": "A1W10_Lernen_und_Arbeit_36Woerter",
	"业余活动":  "A1W11_Freizeit_33Woerter",
	"文具":    "A1W12_Schreibwaren_15Woerter_Jugend",
	"动物":    "A1W13_Tiere_11Woerter_Jugend",
}

// Table 启动时加载一次的只读词汇数据
type Table struct {
	words       []model.WordRecord
	byCategory  map[string][]model.WordRecord
	distractors map[string][]string
}

// Load 解析内嵌的词汇表和干扰项目录
func Load() (*Table, error) {
	raw, err := dataFS.ReadFile("data/vocabulary.json")
	if err != nil {
		return nil, fmt.Errorf("read vocabulary: %w", err)
	}
	var words []model.WordRecord
	if err := json.Unmarshal(raw, &words); err != nil {
		return nil, fmt.Errorf("parse vocabulary: %w", err)
	}

	raw, err = dataFS.ReadFile("data/distractors.json")
	if err != nil {
		return nil, fmt.Errorf("read distractors: %w", err)
	}
	var distractors map[string][]string
	if err := json.Unmarshal(raw, &distractors); err != nil {
		return nil, fmt.Errorf("parse distractors: %w", err)
	}

	t := &Table{
		words:       words,
		byCategory:  make(map[string][]model.WordRecord),
		distractors: distractors,
	}
	for _, w := range words {
		t.byCategory[w.Category] = append(t.byCategory[w.Category], w)
	}
	return t, nil
}

// Words 全部词汇记录
func (t *Table) Words() []model.WordRecord {
	return t.words
}

// ByCategory 某主题下的词汇记录
func (t *Table) ByCategory(category string) []model.WordRecord {
	return t.byCategory[category]
}

// SemanticDistractors 查找精心设计的语义诱惑项
// 多义词（如"天、白天"）按第一个含义查表
func (t *Table) SemanticDistractors(meaning string) []string {
	return t.distractors[CanonicalMeaning(meaning)]
}

// ThemeOrder 返回用户类型对应的主题顺序
func ThemeOrder(userType model.UserType) []string {
	return themeOrder[userType]
}

// Categories 全部类别（含主题顺序之外的类别，如"衣服"）
func (t *Table) Categories() []string {
	return lo.Keys(t.byCategory)
}

// CategoryFolder 类别对应的图片目录名，未知类别返回空串
func CategoryFolder(category string) string {
	return categoryFolders[category]
}
