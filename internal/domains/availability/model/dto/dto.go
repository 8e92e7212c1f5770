package dto

import (
	roomModel "innkeep/internal/domains/room/model"
	"innkeep/shared/daterange"
)

type SearchRequest struct {
	From string `json:"from" validate:"required,isodate"`
	To   string `json:"to"   validate:"required,isodate"`
}

func (s *SearchRequest) Range() (daterange.Range, error) {
	return daterange.Parse(s.From, s.To)
}

type AvailableRoom struct {
	ID         string `json:"id"`
	RoomNumber string `json:"room_number"`
	RoomType   string `json:"room_type"`
	Status     string `json:"status"`
}

type SearchResponse struct {
	From   string          `json:"from"`
	To     string          `json:"to"`
	Nights int             `json:"nights"`
	Rooms  []AvailableRoom `json:"rooms"`
}

func (s *SearchResponse) FromModels(rng daterange.Range, rooms []roomModel.Room) {
	s.From = daterange.Format(rng.Start)
	s.To = daterange.Format(rng.End)
	s.Nights = rng.Nights()

	s.Rooms = make([]AvailableRoom, len(rooms))
	for i, room := range rooms {
		s.Rooms[i] = AvailableRoom{
			ID:         room.ID,
			RoomNumber: room.RoomNumber,
			RoomType:   room.RoomType,
			Status:     room.Status,
		}
	}
}
