package directory

// orgKey identifies an organization entry for phone propagation. Providers
// share their organization's phone only when both practice name and street
// line match.
type orgKey struct {
	practice string
	line1    string
}

// PropagateOrgPhones copies organization-level phone numbers onto provider
// records that share the same (practice_name, address_line1) but have no
// phone of their own. Organization entries (full_name empty) must precede
// their providers in document order, which the segmenter guarantees; a
// single forward pass over the list is enough. Present phones are never
// overwritten.
func PropagateOrgPhones(records []Record) {
	phones := make(map[orgKey]string)
	for i := range records {
		r := &records[i]
		key := orgKey{practice: r.PracticeName, line1: r.AddressLine1}
		if r.FullName == "" && r.Phone != "" {
			phones[key] = r.Phone
			continue
		}
		if r.FullName != "" && r.Phone == "" {
			r.Phone = phones[key]
		}
	}
}

// ApplyMetadata fills empty county/specialty fields from the page-level
// metadata. Explicit per-record values win over page-level defaults.
func ApplyMetadata(records []Record, meta Metadata) {
	for i := range records {
		if records[i].County == "" {
			records[i].County = meta.County
		}
		if records[i].Specialty == "" {
			records[i].Specialty = meta.Specialty
		}
	}
}
