package request_models

// ConsultationRequest is the create payload. Dates accept "2006-01-02" or RFC3339.
type ConsultationRequest struct {
	Name               string   `json:"name"`
	DateOfBirth        string   `json:"dateOfBirth"`
	TimeOfBirth        string   `json:"timeOfBirth"`
	PlaceOfBirth       string   `json:"placeOfBirth"`
	Phone              string   `json:"phone"`
	Email              string   `json:"email"`
	FatherName         string   `json:"fatherName"`
	MotherName         string   `json:"motherName"`
	GrandfatherName    string   `json:"grandfatherName"`
	Address            string   `json:"address"`
	Pincode            string   `json:"pincode"`
	ConsultationDate   string   `json:"consultationDate"`
	PlanetaryPositions string   `json:"planetaryPositions"`
	Prediction         string   `json:"prediction"`
	Suggestions        string   `json:"suggestions"`
	Categories         []string `json:"categories"`
	ClientID           string   `json:"clientId"`
	Status             string   `json:"status"`
	KundaliPdfURL      string   `json:"kundaliPdfUrl"`
}

// ConsultationUpdateRequest only changes the fields that are present.
type ConsultationUpdateRequest struct {
	Name               *string   `json:"name"`
	DateOfBirth        *string   `json:"dateOfBirth"`
	TimeOfBirth        *string   `json:"timeOfBirth"`
	PlaceOfBirth       *string   `json:"placeOfBirth"`
	Phone              *string   `json:"phone"`
	Email              *string   `json:"email"`
	FatherName         *string   `json:"fatherName"`
	MotherName         *string   `json:"motherName"`
	GrandfatherName    *string   `json:"grandfatherName"`
	Address            *string   `json:"address"`
	Pincode            *string   `json:"pincode"`
	ConsultationDate   *string   `json:"consultationDate"`
	PlanetaryPositions *string   `json:"planetaryPositions"`
	Prediction         *string   `json:"prediction"`
	Suggestions        *string   `json:"suggestions"`
	Categories         *[]string `json:"categories"`
	ClientID           *string   `json:"clientId"`
	Status             *string   `json:"status"`
}

type ConsultationListQuery struct {
	Category  string `form:"category"`
	DOB       string `form:"dob"`
	Name      string `form:"name"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	SortBy    string `form:"sortBy"`
	SortOrder string `form:"sortOrder"`
}

type ConsultationHistoryRequest struct {
	ConsultationDate   string `json:"consultationDate"`
	PlanetaryPositions string `json:"planetaryPositions"`
	Prediction         string `json:"prediction"`
	Suggestions        string `json:"suggestions"`
	SessionNotes       string `json:"sessionNotes"`
	Status             string `json:"status"`
}

type ConsultationHistoryUpdateRequest struct {
	ConsultationDate   *string `json:"consultationDate"`
	PlanetaryPositions *string `json:"planetaryPositions"`
	Prediction         *string `json:"prediction"`
	Suggestions        *string `json:"suggestions"`
	SessionNotes       *string `json:"sessionNotes"`
	Status             *string `json:"status"`
}

type HistoryListQuery struct {
	Page           int    `form:"page"`
	Limit          int    `form:"limit"`
	ConsultationID string `form:"consultationId"`
}
