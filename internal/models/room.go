package models

// Room описывает переговорную комнату из каталога
type Room struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	BaseHourlyRate float64 `yaml:"baseHourlyRate" json:"baseHourlyRate"`
	Capacity       int     `yaml:"capacity" json:"capacity"`
}
