package dto

import (
	"math"
	"mime/multipart"
	"slices"
	"strings"

	"hostel/internal/domains/hostel/model"
	gDto "hostel/shared/dto"
	gModel "hostel/shared/model"
	"hostel/shared/timezone"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Address struct {
	Street  string `json:"street"  validate:"required,max=200"`
	City    string `json:"city"    validate:"required,max=100"`
	State   string `json:"state"   validate:"required,max=100"`
	Pincode string `json:"pincode" validate:"required,max=12"`
}

type ContactInfo struct {
	Phone string `json:"phone" validate:"required,max=20"`
	Email string `json:"email" validate:"required,email"`
}

type CreateHostelRequest struct {
	Name        string      `json:"name"        validate:"required,max=150"`
	Address     Address     `json:"address"`
	Owner       string      `json:"owner"       validate:"omitempty,uuid"`
	ContactInfo ContactInfo `json:"contactInfo"`
	Facilities  []string    `json:"facilities"  validate:"omitempty,dive,required,max=50"`
	IsActive    *bool       `json:"isActive"`
}

func (r *CreateHostelRequest) ToModel(ownerID, createdBy string) model.Hostel {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}

	return model.Hostel{
		ID:             uuid.NewString(),
		Name:           strings.TrimSpace(r.Name),
		AddressStreet:  r.Address.Street,
		AddressCity:    r.Address.City,
		AddressState:   r.Address.State,
		AddressPincode: r.Address.Pincode,
		OwnerID:        ownerID,
		ContactPhone:   r.ContactInfo.Phone,
		ContactEmail:   r.ContactInfo.Email,
		Facilities:     NormalizeFacilities(r.Facilities),
		Active:         active,
		Metadata:       gModel.NewMetadata(timezone.Now(), createdBy),
	}
}

type UpdateAddress struct {
	Street  *string `json:"street"  validate:"omitempty,min=1,max=200"`
	City    *string `json:"city"    validate:"omitempty,min=1,max=100"`
	State   *string `json:"state"   validate:"omitempty,min=1,max=100"`
	Pincode *string `json:"pincode" validate:"omitempty,min=1,max=12"`
}

type UpdateContactInfo struct {
	Phone *string `json:"phone" validate:"omitempty,min=1,max=20"`
	Email *string `json:"email" validate:"omitempty,email"`
}

// UpdateHostelRequest is a partial update. Counters are derived and cannot be set.
type UpdateHostelRequest struct {
	Name        *string            `json:"name"        validate:"omitempty,min=1,max=150"`
	Address     *UpdateAddress     `json:"address"`
	Owner       *string            `json:"owner"       validate:"omitempty,uuid"`
	ContactInfo *UpdateContactInfo `json:"contactInfo"`
	Facilities  *[]string          `json:"facilities"  validate:"omitempty,dive,required,max=50"`
	IsActive    *bool              `json:"isActive"`
}

// Fields flattens the request into column updates.
func (r *UpdateHostelRequest) Fields() map[string]any {
	fields := map[string]any{}

	set := func(column string, value *string) {
		if value != nil {
			fields[column] = strings.TrimSpace(*value)
		}
	}

	set("name", r.Name)
	set(model.FieldOwnerID, r.Owner)

	if r.Address != nil {
		set("address_street", r.Address.Street)
		set("address_city", r.Address.City)
		set("address_state", r.Address.State)
		set("address_pincode", r.Address.Pincode)
	}

	if r.ContactInfo != nil {
		set("contact_phone", r.ContactInfo.Phone)
		set("contact_email", r.ContactInfo.Email)
	}

	if r.Facilities != nil {
		fields["facilities"] = pq.StringArray(NormalizeFacilities(*r.Facilities))
	}

	if r.IsActive != nil {
		fields[model.FieldActive] = *r.IsActive
	}

	return fields
}

type Owner struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type HostelResponse struct {
	ID            string      `json:"_id"`
	Name          string      `json:"name"`
	Address       Address     `json:"address"`
	Owner         Owner       `json:"owner"`
	ContactInfo   ContactInfo `json:"contactInfo"`
	Facilities    []string    `json:"facilities"`
	Image         string      `json:"image,omitempty"`
	TotalRooms    int         `json:"totalRooms"`
	OccupiedRooms int         `json:"occupiedRooms"`
	IsActive      bool        `json:"isActive"`
	gDto.Metadata
}

func (r *HostelResponse) FromModel(m model.Hostel) {
	r.ID = m.ID
	r.Name = m.Name
	r.Address = Address{Street: m.AddressStreet, City: m.AddressCity, State: m.AddressState, Pincode: m.AddressPincode}
	r.Owner = Owner{ID: m.OwnerID, Name: m.OwnerName, Email: m.OwnerEmail}
	r.ContactInfo = ContactInfo{Phone: m.ContactPhone, Email: m.ContactEmail}
	r.Facilities = []string(m.Facilities)
	r.Image = m.Image
	r.TotalRooms = m.TotalRooms
	r.OccupiedRooms = m.OccupiedRooms
	r.IsActive = m.Active
	r.Metadata.FromModel(m.Metadata)

	if r.Facilities == nil {
		r.Facilities = []string{}
	}
}

func FromModels(hostels []model.Hostel) []HostelResponse {
	res := make([]HostelResponse, len(hostels))
	for i, hostel := range hostels {
		res[i].FromModel(hostel)
	}

	return res
}

type StatsResponse struct {
	TotalHostels   int `json:"totalHostels"`
	TotalRooms     int `json:"totalRooms"`
	OccupiedRooms  int `json:"occupiedRooms"`
	AvailableRooms int `json:"availableRooms"`
	OccupancyRate  int `json:"occupancyRate"`
}

func (r *StatsResponse) FromModel(m model.Stats) {
	r.TotalHostels = m.TotalHostels
	r.TotalRooms = m.TotalRooms
	r.OccupiedRooms = m.OccupiedRooms
	r.AvailableRooms = max(m.TotalRooms-m.OccupiedRooms, 0)
	r.OccupancyRate = OccupancyRate(m.OccupiedRooms, m.TotalRooms)
}

// OccupancyRate is occupied/total as a rounded percentage, 0 when total is 0.
func OccupancyRate(occupied, total int) int {
	if total <= 0 {
		return 0
	}

	return int(math.Round(float64(occupied) / float64(total) * 100))
}

// NormalizeFacilities trims entries and drops blanks and duplicates, keeping order.
func NormalizeFacilities(facilities []string) []string {
	res := make([]string, 0, len(facilities))

	for _, facility := range facilities {
		facility = strings.TrimSpace(facility)
		if facility == "" || slices.Contains(res, facility) {
			continue
		}

		res = append(res, facility)
	}

	return res
}

// UploadImageRequest is the multipart form of PUT /hostels/{id}/image.
type UploadImageRequest struct {
	Image     multipart.FileHeader `validate:"mimetypes=image/jpeg image/png image/webp,maxfilesize=5"`
	ImageFile multipart.File       `validate:"required"`
}
