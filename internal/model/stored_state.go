package model

import "time"

// 持久化键，对应两份JSON序列化的状态
const (
	StateKeyUserConfig       = "userConfig"
	StateKeyLearningProgress = "learningProgress"
)

// StoredState 键值持久化行，Value 为JSON字符串
type StoredState struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"type:longtext" json:"value"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (StoredState) TableName() string {
	return "stored_states"
}
