package model

import (
	"hostel/shared/model"

	"github.com/lib/pq"
)

const (
	TableName  = "hostels"
	EntityName = "hostel"

	FieldID            = "id"
	FieldName          = "name"
	FieldOwnerID       = "owner_id"
	FieldCity          = "address_city"
	FieldActive        = "active"
	FieldTotalRooms    = "total_rooms"
	FieldOccupiedRooms = "occupied_rooms"
)

type Hostel struct {
	ID             string         `db:"id"`
	Name           string         `db:"name"`
	AddressStreet  string         `db:"address_street"`
	AddressCity    string         `db:"address_city"`
	AddressState   string         `db:"address_state"`
	AddressPincode string         `db:"address_pincode"`
	OwnerID        string         `db:"owner_id"`
	OwnerName      string         `db:"owner_name"      table:"users" column:"name"`
	OwnerEmail     string         `db:"owner_email"     table:"users" column:"email"`
	ContactPhone   string         `db:"contact_phone"`
	ContactEmail   string         `db:"contact_email"`
	Facilities     pq.StringArray `db:"facilities"`
	Image          string         `db:"image"`
	TotalRooms     int            `db:"total_rooms"`
	OccupiedRooms  int            `db:"occupied_rooms"`
	Active         bool           `db:"active"`
	model.Metadata
}

func (Hostel) GetJoinQuery() string {
	return "JOIN users ON users.id = hostels.owner_id"
}

// Stats aggregates over every hostel and room, regardless of ownership.
type Stats struct {
	TotalHostels  int `db:"total_hostels"`
	TotalRooms    int `db:"total_rooms"`
	OccupiedRooms int `db:"occupied_rooms"`
}
