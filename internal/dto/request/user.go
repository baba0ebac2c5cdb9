package request

type AddAddressRequest struct {
	Street  string `json:"street" validate:"required,min=3,max=200"`
	City    string `json:"city" validate:"required,min=2,max=100"`
	State   string `json:"state" validate:"required,min=2,max=100"`
	ZipCode string `json:"zip_code" validate:"required,min=3,max=20"`
	Country string `json:"country" validate:"required,min=2,max=100"`
}
