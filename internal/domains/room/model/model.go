package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"hostel/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID               = "id"
	FieldRoomNumber       = "room_number"
	FieldHostelID         = "hostel_id"
	FieldType             = "type"
	FieldCapacity         = "capacity"
	FieldCurrentOccupancy = "current_occupancy"
	FieldAvailable        = "available"
)

type RoomType string

const (
	RoomTypeSingle    RoomType = "single"
	RoomTypeDouble    RoomType = "double"
	RoomTypeTriple    RoomType = "triple"
	RoomTypeDormitory RoomType = "dormitory"
)

var RoomTypes = []RoomType{RoomTypeSingle, RoomTypeDouble, RoomTypeTriple, RoomTypeDormitory}

// CommonFacilities are the facility names offered to clients as suggestions.
var CommonFacilities = []string{
	"Wi-Fi", "AC", "Attached Bathroom", "TV", "Refrigerator", "Study Table", "Wardrobe", "Balcony",
}

type Resident struct {
	Name     string     `json:"name"`
	Phone    string     `json:"phone,omitempty"`
	Email    string     `json:"email,omitempty"`
	JoinDate *time.Time `json:"joinDate,omitempty"`
}

// Residents is stored as a jsonb array.
type Residents []Resident

func (r Residents) Value() (driver.Value, error) {
	if r == nil {
		return []byte("[]"), nil
	}

	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode residents: %w", err)
	}

	return b, nil
}

func (r *Residents) Scan(src any) error {
	var data []byte

	switch v := src.(type) {
	case nil:
		*r = Residents{}

		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("residents: unsupported source type")
	}

	if err := json.Unmarshal(data, r); err != nil {
		return fmt.Errorf("failed to decode residents: %w", err)
	}

	return nil
}

type Room struct {
	ID               string         `db:"id"`
	RoomNumber       string         `db:"room_number"`
	HostelID         string         `db:"hostel_id"`
	HostelName       string         `db:"hostel_name"     table:"hostels" column:"name"`
	HostelOwnerID    string         `db:"hostel_owner_id" table:"hostels" column:"owner_id"`
	Type             RoomType       `db:"type"`
	Capacity         int            `db:"capacity"`
	CurrentOccupancy int            `db:"current_occupancy"`
	Rent             float64        `db:"rent"`
	Facilities       pq.StringArray `db:"facilities"`
	Available        bool           `db:"available"`
	Residents        Residents      `db:"residents"`
	model.Metadata
}

func (Room) GetJoinQuery() string {
	return "JOIN hostels ON hostels.id = rooms.hostel_id"
}
