package backstage

import "encoding/json"

// graphqlRequest is the body of POST /api/soundcheck/graphql.
type graphqlRequest struct {
	Query     string            `json:"query"`
	Variables map[string]string `json:"variables"`
}

// graphqlResponse wraps the certifications query result.
type graphqlResponse struct {
	Data struct {
		Certifications []Certification `json:"certifications"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors,omitempty"`
}

// Certification is one track of the soundcheck program for an entity.
type Certification struct {
	EntityRef string `json:"entityRef"`
	Track     Track  `json:"track"`
	Levels    []Level `json:"levels"`
}

// Track describes a certification track (Ownership, Quality, ...).
type Track struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Level is one tier of a track with the checks required at that tier.
type Level struct {
	Ordinal int     `json:"ordinal"`
	Name    string  `json:"name"`
	Checks  []Check `json:"checks"`
}

// Check is a single check result within a level.
type Check struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Result  string       `json:"result"`
	Details CheckDetails `json:"details"`
}

// CheckDetails carries the metric payload attached to a check. The
// notes data field is a JSON string holding value and target numbers.
type CheckDetails struct {
	Notes struct {
		Data json.RawMessage `json:"data"`
	} `json:"notes"`
}

// checkData is the decoded notes payload.
type checkData struct {
	Value struct {
		Count      int     `json:"count"`
		Total      int     `json:"total"`
		Percentage float64 `json:"percentage"`
	} `json:"value"`
	Target map[string]float64 `json:"target"`
}

// resultsResponse is the body of GET /api/soundcheck/results.
type resultsResponse struct {
	Results []ResultEntry `json:"results"`
}

// ResultEntry is one check result from the REST results endpoint.
type ResultEntry struct {
	CheckID string       `json:"checkId"`
	State   string       `json:"state"`
	Details CheckDetails `json:"details"`
}
