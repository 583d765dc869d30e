package master

type LookupsResponse struct {
	Sections        []Section     `json:"sections"`
	Locations       []Location    `json:"locations"`
	Grades          []Grade       `json:"grades"`
	Designations    []Designation `json:"designations"`
	SuggestedHRISID int           `json:"suggested_hris_id"`
}
