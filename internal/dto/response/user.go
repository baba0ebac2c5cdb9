package response

import (
	"shopline/internal/data/entity"
)

type AddressResponse struct {
	ID      string `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
	Country string `json:"country"`
}

func AddressToResponse(a *entity.Address) AddressResponse {
	return AddressResponse{
		ID:      a.ID.String(),
		Street:  a.Street,
		City:    a.City,
		State:   a.State,
		ZipCode: a.ZipCode,
		Country: a.Country,
	}
}

func AddressesToResponse(addresses []*entity.Address) []AddressResponse {
	out := make([]AddressResponse, 0, len(addresses))
	for _, a := range addresses {
		out = append(out, AddressToResponse(a))
	}
	return out
}
