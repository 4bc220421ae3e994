package model

// Province is reference data for placement preferences and addresses.
type Province struct {
	ID   uint64 `json:"id"`   // provinces.id
	Name string `json:"name"` // provinces.name
}

// City belongs to a province.
type City struct {
	ID         uint64 `json:"id"`          // cities.id
	ProvinceID uint64 `json:"province_id"` // cities.province_id
	Name       string `json:"name"`        // cities.name
}
