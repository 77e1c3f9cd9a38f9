package model

// Organization is a single organization to discover contacts for. The EIN is
// the stable identity key; the remaining fields are display and search-seed
// data loaded from the input file. Organizations are immutable after load
// except for the Processed flag.
type Organization struct {
	EIN               int64  `json:"ein"`
	Name              string `json:"organization_name"`
	DBAName           string `json:"dba_name,omitempty"`
	EntityType        string `json:"entity_type,omitempty"`
	TotalParticipants string `json:"total_participants,omitempty"`
	PlanCount         int    `json:"plan_count,omitempty"`
	Address1          string `json:"mail_us_address1,omitempty"`
	Address2          string `json:"mail_us_address2,omitempty"`
	City              string `json:"mail_us_city,omitempty"`
	State             string `json:"mail_us_state,omitempty"`
	Zip               string `json:"mail_us_zip,omitempty"`
	Phone             string `json:"phone_num,omitempty"`
	Website           string `json:"website,omitempty"`
	Processed         bool   `json:"processed,omitempty"`
}
