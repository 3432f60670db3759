package models

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

type Status string

const (
	Local         Status = "Local"
	International Status = "International"
)

type Block string

// Blocks lists every hostel block in display order.
var Blocks = []Block{"HA", "HB", "HC", "HD", "HE", "HF", "HG", "HH"}

func (g Gender) Valid() bool { return g == Male || g == Female }

func (s Status) Valid() bool { return s == Local || s == International }

func (b Block) Valid() bool {
	for _, v := range Blocks {
		if v == b {
			return true
		}
	}
	return false
}

// Resident is a hostel occupant record, the only persisted entity.
type Resident struct {
	ID         string `json:"id"`
	StudentID  string `json:"studentId"`
	Name       string `json:"name"`
	Programme  string `json:"programme"`
	RoomNumber string `json:"roomNumber"`
	Gender     Gender `json:"gender"`
	Status     Status `json:"status"`
	Block      Block  `json:"block"`
}

// ResidentPayload is the creation input. ID is optional.
type ResidentPayload struct {
	ID         string `json:"id,omitempty"`
	StudentID  string `json:"studentId"`
	Name       string `json:"name"`
	Programme  string `json:"programme"`
	RoomNumber string `json:"roomNumber"`
	Gender     Gender `json:"gender"`
	Status     Status `json:"status"`
	Block      Block  `json:"block"`
}

// MissingField returns the first required field left empty, in the order the
// API reports them, or "" when the payload is complete. Whitespace counts as
// a value.
func (p ResidentPayload) MissingField() string {
	required := []struct {
		name  string
		value string
	}{
		{"name", p.Name},
		{"programme", p.Programme},
		{"roomNumber", p.RoomNumber},
		{"gender", string(p.Gender)},
		{"status", string(p.Status)},
		{"block", string(p.Block)},
	}
	for _, f := range required {
		if f.value == "" {
			return f.name
		}
	}
	return ""
}

// InvalidField returns the first enum field holding an undeclared value.
func (p ResidentPayload) InvalidField() string {
	switch {
	case !p.Gender.Valid():
		return "gender"
	case !p.Status.Valid():
		return "status"
	case !p.Block.Valid():
		return "block"
	}
	return ""
}

// Resident builds the stored record with the given id.
func (p ResidentPayload) Resident(id string) Resident {
	return Resident{
		ID:         id,
		StudentID:  p.StudentID,
		Name:       p.Name,
		Programme:  p.Programme,
		RoomNumber: p.RoomNumber,
		Gender:     p.Gender,
		Status:     p.Status,
		Block:      p.Block,
	}
}

// ResidentPatch carries a partial update. Nil fields are left untouched and
// any id in the body is dropped on decode.
type ResidentPatch struct {
	StudentID  *string `json:"studentId,omitempty"`
	Name       *string `json:"name,omitempty"`
	Programme  *string `json:"programme,omitempty"`
	RoomNumber *string `json:"roomNumber,omitempty"`
	Gender     *Gender `json:"gender,omitempty"`
	Status     *Status `json:"status,omitempty"`
	Block      *Block  `json:"block,omitempty"`
}

// InvalidField returns the first supplied enum field holding an undeclared value.
func (p ResidentPatch) InvalidField() string {
	switch {
	case p.Gender != nil && !p.Gender.Valid():
		return "gender"
	case p.Status != nil && !p.Status.Valid():
		return "status"
	case p.Block != nil && !p.Block.Valid():
		return "block"
	}
	return ""
}

// Apply merges the supplied fields over r and returns the result.
func (p ResidentPatch) Apply(r Resident) Resident {
	if p.StudentID != nil {
		r.StudentID = *p.StudentID
	}
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Programme != nil {
		r.Programme = *p.Programme
	}
	if p.RoomNumber != nil {
		r.RoomNumber = *p.RoomNumber
	}
	if p.Gender != nil {
		r.Gender = *p.Gender
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Block != nil {
		r.Block = *p.Block
	}
	return r
}
