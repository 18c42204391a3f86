package models

// RoomAnalytics агрегат по одной комнате за период
type RoomAnalytics struct {
	RoomID       string  `json:"roomId"`
	RoomName     string  `json:"roomName"`
	TotalHours   float64 `json:"totalHours"`
	TotalRevenue int64   `json:"totalRevenue"`
}
