package catalog

import (
	"fmt"

	"roombook/internal/models"
)

// Catalog хранит справочник комнат, загруженный при старте.
// После загрузки только чтение, поэтому блокировки не нужны.
type Catalog struct {
	rooms  map[string]*models.Room
	sorted []*models.Room
}

func New(rooms []models.Room) (*Catalog, error) {
	c := &Catalog{rooms: make(map[string]*models.Room, len(rooms))}
	for i := range rooms {
		room := rooms[i]
		if _, exists := c.rooms[room.ID]; exists {
			return nil, fmt.Errorf("duplicate room ID: %s", room.ID)
		}
		c.rooms[room.ID] = &room
		c.sorted = append(c.sorted, &room)
	}
	return c, nil
}

// Get возвращает комнату по ID
func (c *Catalog) Get(roomID string) (*models.Room, bool) {
	room, ok := c.rooms[roomID]
	return room, ok
}

// ListAll возвращает комнаты в порядке загрузки
func (c *Catalog) ListAll() []*models.Room {
	out := make([]*models.Room, len(c.sorted))
	copy(out, c.sorted)
	return out
}

// SeedRooms воспроизводит стандартный набор комнат, если конфиг пуст
func SeedRooms() []models.Room {
	return []models.Room{
		{ID: "101", Name: "Cabin 1", BaseHourlyRate: 300, Capacity: 4},
		{ID: "102", Name: "Cabin 2", BaseHourlyRate: 400, Capacity: 6},
		{ID: "103", Name: "Conference Room A", BaseHourlyRate: 600, Capacity: 10},
		{ID: "104", Name: "Conference Room B", BaseHourlyRate: 500, Capacity: 8},
		{ID: "105", Name: "Small Meeting Room", BaseHourlyRate: 250, Capacity: 3},
	}
}
