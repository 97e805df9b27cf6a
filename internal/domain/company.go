package domain

// CompanyWithDetail is a company joined with its optional profile, as
// returned by company lookups.
type CompanyWithDetail struct {
	Company
	Detail *CompanyDetail `json:"detail,omitempty"`
}
