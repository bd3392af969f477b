package request_models

type ClientRequest struct {
	Name            string `json:"name"`
	DOB             string `json:"dob"`
	BirthTime       string `json:"birthTime"`
	BirthPlace      string `json:"birthPlace"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	FatherName      string `json:"fatherName"`
	MotherName      string `json:"motherName"`
	GrandfatherName string `json:"grandfatherName"`
	Address         string `json:"address"`
	Pincode         string `json:"pincode"`
}

type ClientListQuery struct {
	Search string `form:"search"`
	DOB    string `form:"dob"`
}

type CategoryRequest struct {
	Name string `json:"name"`
}

type SubcategoryRequest struct {
	Name       string `json:"name"`
	CategoryID string `json:"categoryId"`
}
