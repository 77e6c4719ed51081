package model

// UserType 用户类型，决定主题顺序
type UserType string

const (
	UserTypeAdult    UserType = "adult"
	UserTypeTeenager UserType = "teenager"
)

// Ability 能力等级，决定通过率阈值和测试2的可达性
type Ability string

const (
	AbilityNormal    Ability = "normal"
	AbilityGood      Ability = "good"
	AbilityExcellent Ability = "excellent"
)

// UserConfig 引导设置时创建，除重置外不再变更
type UserConfig struct {
	UserType       UserType `json:"userType"`
	Ability        Ability  `json:"ability"`
	SetupCompleted bool     `json:"setupCompleted"`
}

// Valid 校验持久化配置的完整性，字段缺失视为损坏
func (c *UserConfig) Valid() bool {
	switch c.UserType {
	case UserTypeAdult, UserTypeTeenager:
	default:
		return false
	}
	switch c.Ability {
	case AbilityNormal, AbilityGood, AbilityExcellent:
	default:
		return false
	}
	return true
}
