package schools

// RawRecord is a single store as returned by the store locator, keys are
// defined by the site and any of them may be missing or null.
type RawRecord = map[string]any

// School is the normalized form of a store. Every field is text, a missing
// source value is "".
type School struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	City        string `json:"city"`
	State       string `json:"state"`
	PostalCode  string `json:"postal_code"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Latitude    string `json:"latitude"`
	Longitude   string `json:"longitude"`
}

// Field maps an output column to the raw key it is read from and the
// School field it is stored in.
type Field struct {
	Column    string
	SourceKey string
	get       func(s *School) *string
}

// FieldMap is the fixed, ordered column layout of a School.
var FieldMap = []Field{
	{Column: "name", SourceKey: "title", get: func(s *School) *string { return &s.Name }},
	{Column: "address", SourceKey: "street", get: func(s *School) *string { return &s.Address }},
	{Column: "city", SourceKey: "city", get: func(s *School) *string { return &s.City }},
	{Column: "state", SourceKey: "state", get: func(s *School) *string { return &s.State }},
	{Column: "postal_code", SourceKey: "postal_code", get: func(s *School) *string { return &s.PostalCode }},
	{Column: "phone", SourceKey: "phone", get: func(s *School) *string { return &s.Phone }},
	{Column: "email", SourceKey: "email", get: func(s *School) *string { return &s.Email }},
	{Column: "website", SourceKey: "website", get: func(s *School) *string { return &s.Website }},
	{Column: "description", SourceKey: "description", get: func(s *School) *string { return &s.Description }},
	{Column: "latitude", SourceKey: "lat", get: func(s *School) *string { return &s.Latitude }},
	{Column: "longitude", SourceKey: "lng", get: func(s *School) *string { return &s.Longitude }},
}

// Columns returns the column names in FieldMap order.
func Columns() []string {
	out := make([]string, len(FieldMap))
	for i, f := range FieldMap {
		out[i] = f.Column
	}
	return out
}

// Row returns the field values of `s` in FieldMap order.
func (s School) Row() []string {
	out := make([]string, len(FieldMap))
	for i, f := range FieldMap {
		out[i] = *f.get(&s)
	}
	return out
}

// FromRow is the inverse of Row. Missing trailing values stay "".
func FromRow(row []string) School {
	var s School
	for i, f := range FieldMap {
		if i >= len(row) {
			break
		}
		*f.get(&s) = row[i]
	}
	return s
}
