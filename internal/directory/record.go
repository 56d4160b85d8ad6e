package directory

// Record is one extracted provider-directory entry. Empty string means the
// field was not present in the source; the inference service returns null
// for missing fields and those decode to "".
type Record struct {
	ProviderIDInsurer string `json:"provider_id_insurer"`
	FullName          string `json:"full_name"`
	Specialty         string `json:"specialty"`
	PracticeName      string `json:"practice_name"`
	AddressLine1      string `json:"address_line1"`
	AddressLine2      string `json:"address_line2"`
	City              string `json:"city"`
	State             string `json:"state"`
	Zip               string `json:"zip"`
	County            string `json:"county"`
	Phone             string `json:"phone"`
	Languages         string `json:"languages"` // semicolon-delimited when multiple
}

// Metadata is document-level context captured once per page/document.
type Metadata struct {
	County    string
	Specialty string
}

// Columns is the fixed export column order, matching the Record schema.
var Columns = []string{
	"provider_id_insurer",
	"full_name",
	"specialty",
	"practice_name",
	"address_line1",
	"address_line2",
	"city",
	"state",
	"zip",
	"county",
	"phone",
	"languages",
}

// Row returns the record's fields in Columns order.
func (r Record) Row() []string {
	return []string{
		r.ProviderIDInsurer,
		r.FullName,
		r.Specialty,
		r.PracticeName,
		r.AddressLine1,
		r.AddressLine2,
		r.City,
		r.State,
		r.Zip,
		r.County,
		r.Phone,
		r.Languages,
	}
}

// HasIdentity reports whether the record carries at least one identifying
// field. Records without any are dropped before persistence.
func (r Record) HasIdentity() bool {
	return r.ProviderIDInsurer != "" || r.FullName != "" || r.PracticeName != ""
}

// IsOrganization reports whether the record describes an organization entry
// rather than an individual provider (full_name null, practice_name set).
func (r Record) IsOrganization() bool {
	return r.FullName == "" && r.PracticeName != ""
}

// Filter drops records that lack every identifying field, preserving order.
func Filter(records []Record) []Record {
	out := records[:0:0]
	for _, r := range records {
		if r.HasIdentity() {
			out = append(out, r)
		}
	}
	return out
}
