package db_models

import (
	"time"

	"github.com/google/uuid"
)

type Client struct {
	BaseModel
	Name            string    `gorm:"not null;index" json:"name"`
	DOB             time.Time `gorm:"not null" json:"dob"`
	BirthTime       string    `gorm:"not null" json:"birthTime"`
	BirthPlace      string    `gorm:"not null" json:"birthPlace"`
	Phone           string    `gorm:"not null" json:"phone"`
	Email           string    `json:"email,omitempty"`
	FatherName      string    `json:"fatherName,omitempty"`
	MotherName      string    `json:"motherName,omitempty"`
	GrandfatherName string    `json:"grandfatherName,omitempty"`
	Address         string    `json:"address,omitempty"`
	Pincode         string    `json:"pincode,omitempty"`

	CreatedBy uuid.UUID `gorm:"type:uuid;not null;index" json:"createdBy"`
}

func (c *Client) OwnerID() uuid.UUID {
	return c.CreatedBy
}
