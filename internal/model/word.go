package model

// Gender 德语名词词性冠词
type Gender string

const (
	GenderDer Gender = "der"
	GenderDie Gender = "die"
	GenderDas Gender = "das"
)

// WordRecord 词汇表中的一条记录，运行时只读
// Gender 为空表示该名词只有复数形式
type WordRecord struct {
	Noun     string `json:"noun"`
	Meaning  string `json:"meaning"`
	Image    string `json:"image"`
	Category string `json:"category"`
	Gender   Gender `json:"gender,omitempty"`
}
