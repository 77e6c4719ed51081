package service

import "vokabel_trainer_backend/internal/model"

// TestRule 单个测试在某能力等级下的规则
// HasPassRate 为假表示该测试没有通过率门槛（完成即通过）
type TestRule struct {
	PassRate        float64
	HasPassRate     bool
	Required        bool
	Hidden          bool
	UnlockTest2     bool
	UnlockThreshold float64
}

// AbilityRules 能力等级对应的完整规则记录
type AbilityRules struct {
	Ability model.Ability
	Test1   TestRule
	Test2   TestRule
}

// RulesFor 能力等级到规则的穷举映射
func RulesFor(ability model.Ability) AbilityRules {
	switch ability {
	case model.AbilityNormal:
		return AbilityRules{
			Ability: model.AbilityNormal,
			Test1:   TestRule{PassRate: 0.8, HasPassRate: true, Required: true},
			Test2:   TestRule{Required: false, Hidden: true},
		}
	case model.AbilityGood:
		return AbilityRules{
			Ability: model.AbilityGood,
			Test1: TestRule{
				PassRate:        0.8,
				HasPassRate:     true,
				Required:        true,
				UnlockTest2:     true,
				UnlockThreshold: 0.9, // 第一次测试需要≥90%才解锁
			},
			Test2: TestRule{Required: false},
		}
	case model.AbilityExcellent:
		return AbilityRules{
			Ability: model.AbilityExcellent,
			Test1:   TestRule{PassRate: 0.9, HasPassRate: true, Required: true},
			Test2:   TestRule{PassRate: 0.7, HasPassRate: true, Required: true},
		}
	}
	// 未知等级按 normal 保守处理，入口处已校验
	return RulesFor(model.AbilityNormal)
}

// RequiredRate 重试提示中展示的目标通过率
func (r AbilityRules) RequiredRate(testType model.TestType) float64 {
	if testType == model.TestType1 {
		return r.Test1.PassRate
	}
	return r.Test2.PassRate
}
