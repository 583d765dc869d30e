package master

import "time"

type Section struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Location struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Grade ids are seniority levels; a higher id is a more senior grade.
type Grade struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Designation struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type Holiday struct {
	ID   int64     `json:"id"`
	Name string    `json:"name"`
	Date time.Time `json:"date"`
}
