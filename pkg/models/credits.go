package models

// Person holds the fields shared by cast and crew entries.
type Person struct {
	ID                 int     `json:"id"`
	Name               string  `json:"name"`
	OriginalName       string  `json:"original_name"`
	KnownForDepartment string  `json:"known_for_department"`
	ProfilePath        string  `json:"profile_path"`
	Gender             int     `json:"gender"`
	Popularity         float64 `json:"popularity"`
	Adult              bool    `json:"adult"`
}

type CastMember struct {
	Person
	CastID    int    `json:"cast_id"`
	Character string `json:"character"`
	CreditID  string `json:"credit_id"`
	Order     int    `json:"order"`
}

type CrewMember struct {
	Person
	CreditID   string `json:"credit_id"`
	Department string `json:"department"`
	Job        string `json:"job"`
}

// CastAndCrew is the response of movie/{id}/credits.
type CastAndCrew struct {
	ID   int          `json:"id"`
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// Directors returns the crew entries credited with the Director job.
func (c CastAndCrew) Directors() []CrewMember {
	var out []CrewMember
	for _, m := range c.Crew {
		if m.Job == "Director" {
			out = append(out, m)
		}
	}
	return out
}
