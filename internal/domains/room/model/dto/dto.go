package dto

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"hostel/internal/domains/room/model"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ResidentRequest struct {
	Name     string     `json:"name"     validate:"required,max=100"`
	Phone    string     `json:"phone"    validate:"omitempty,max=20"`
	Email    string     `json:"email"    validate:"omitempty,email"`
	JoinDate *time.Time `json:"joinDate"`
}

func toResidents(req []ResidentRequest) model.Residents {
	res := make(model.Residents, len(req))
	for i, r := range req {
		res[i] = model.Resident{
			Name:     strings.TrimSpace(r.Name),
			Phone:    r.Phone,
			Email:    r.Email,
			JoinDate: r.JoinDate,
		}
	}

	return res
}

// CreateRoomRequest accepts the hostel reference as either "hostel" or "hostelId".
type CreateRoomRequest struct {
	RoomNumber       string            `json:"roomNumber"       validate:"required,max=20"`
	Hostel           string            `json:"hostel"           validate:"required_without=HostelID,omitempty,uuid"`
	HostelID         string            `json:"hostelId"         validate:"omitempty,uuid"`
	Type             string            `json:"type"             validate:"required,oneof=single double triple dormitory"`
	Capacity         int               `json:"capacity"         validate:"required,min=1"`
	CurrentOccupancy int               `json:"currentOccupancy" validate:"omitempty,min=0"`
	Rent             float64           `json:"rent"             validate:"min=0"`
	Facilities       []string          `json:"facilities"       validate:"omitempty,dive,required,max=50"`
	IsAvailable      *bool             `json:"isAvailable"`
	Residents        []ResidentRequest `json:"residents"        validate:"omitempty,dive"`
}

func (r *CreateRoomRequest) HostelRef() string {
	if r.Hostel != "" {
		return r.Hostel
	}

	return r.HostelID
}

func (r *CreateRoomRequest) ToModel(createdBy string) model.Room {
	available := true
	if r.IsAvailable != nil {
		available = *r.IsAvailable
	}

	return model.Room{
		ID:               uuid.NewString(),
		RoomNumber:       strings.TrimSpace(r.RoomNumber),
		HostelID:         r.HostelRef(),
		Type:             model.RoomType(r.Type),
		Capacity:         r.Capacity,
		CurrentOccupancy: r.CurrentOccupancy,
		Rent:             r.Rent,
		Facilities:       NormalizeFacilities(r.Facilities),
		Available:        available,
		Residents:        toResidents(r.Residents),
		Metadata:         gModel.NewMetadata(timezone.Now(), createdBy),
	}
}

// UpdateRoomRequest is a partial update. The hostel of a room cannot change.
type UpdateRoomRequest struct {
	RoomNumber       *string            `json:"roomNumber"       validate:"omitempty,min=1,max=20"`
	Hostel           *string            `json:"hostel"           validate:"omitempty,uuid"`
	Type             *string            `json:"type"             validate:"omitempty,oneof=single double triple dormitory"`
	Capacity         *int               `json:"capacity"         validate:"omitempty,min=1"`
	CurrentOccupancy *int               `json:"currentOccupancy" validate:"omitempty,min=0"`
	Rent             *float64           `json:"rent"             validate:"omitempty,min=0"`
	Facilities       *[]string          `json:"facilities"       validate:"omitempty,dive,required,max=50"`
	IsAvailable      *bool              `json:"isAvailable"`
	Residents        *[]ResidentRequest `json:"residents"        validate:"omitempty,dive"`
}

// Apply merges the request into room and returns the changed columns.
func (r *UpdateRoomRequest) Apply(room *model.Room) map[string]any {
	fields := map[string]any{}

	if r.RoomNumber != nil {
		room.RoomNumber = strings.TrimSpace(*r.RoomNumber)
		fields[model.FieldRoomNumber] = room.RoomNumber
	}

	if r.Type != nil {
		room.Type = model.RoomType(*r.Type)
		fields[model.FieldType] = string(room.Type)
	}

	if r.Capacity != nil {
		room.Capacity = *r.Capacity
		fields[model.FieldCapacity] = room.Capacity
	}

	if r.CurrentOccupancy != nil {
		room.CurrentOccupancy = *r.CurrentOccupancy
		fields[model.FieldCurrentOccupancy] = room.CurrentOccupancy
	}

	if r.Rent != nil {
		room.Rent = *r.Rent
		fields["rent"] = room.Rent
	}

	if r.Facilities != nil {
		room.Facilities = NormalizeFacilities(*r.Facilities)
		fields["facilities"] = room.Facilities
	}

	if r.IsAvailable != nil {
		room.Available = *r.IsAvailable
		fields[model.FieldAvailable] = room.Available
	}

	if r.Residents != nil {
		room.Residents = toResidents(*r.Residents)
		fields["residents"] = room.Residents
	}

	return fields
}

// ValidateOccupancy checks the hard capacity bounds of a room.
func ValidateOccupancy(room model.Room) error {
	if room.CurrentOccupancy > room.Capacity {
		return fmt.Errorf("currentOccupancy (%d) cannot exceed capacity (%d)", room.CurrentOccupancy, room.Capacity)
	}

	if len(room.Residents) > room.Capacity {
		return fmt.Errorf("residents (%d) cannot exceed capacity (%d)", len(room.Residents), room.Capacity)
	}

	return nil
}

type HostelRef struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type RoomResponse struct {
	ID               string           `json:"_id"`
	RoomNumber       string           `json:"roomNumber"`
	Hostel           HostelRef        `json:"hostel"`
	Type             string           `json:"type"`
	Capacity         int              `json:"capacity"`
	CurrentOccupancy int              `json:"currentOccupancy"`
	Rent             float64          `json:"rent"`
	Facilities       []string         `json:"facilities"`
	IsAvailable      bool             `json:"isAvailable"`
	Residents        []model.Resident `json:"residents"`
	gDto.Metadata
}

func (r *RoomResponse) FromModel(m model.Room) {
	r.ID = m.ID
	r.RoomNumber = m.RoomNumber
	r.Hostel = HostelRef{ID: m.HostelID, Name: m.HostelName}
	r.Type = string(m.Type)
	r.Capacity = m.Capacity
	r.CurrentOccupancy = m.CurrentOccupancy
	r.Rent = m.Rent
	r.Facilities = []string(m.Facilities)
	r.IsAvailable = m.Available
	r.Residents = m.Residents
	r.Metadata.FromModel(m.Metadata)

	if r.Facilities == nil {
		r.Facilities = []string{}
	}

	if r.Residents == nil {
		r.Residents = []model.Resident{}
	}
}

func FromModels(rooms []model.Room) []RoomResponse {
	res := make([]RoomResponse, len(rooms))
	for i, room := range rooms {
		res[i].FromModel(room)
	}

	return res
}

type OptionsResponse struct {
	Types      []model.RoomType `json:"types"`
	Facilities []string         `json:"facilities"`
}

func NormalizeFacilities(facilities []string) pq.StringArray {
	res := make(pq.StringArray, 0, len(facilities))

	for _, facility := range facilities {
		facility = strings.TrimSpace(facility)
		if facility == "" || slices.Contains(res, facility) {
			continue
		}

		res = append(res, facility)
	}

	return res
}
