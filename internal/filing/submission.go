package filing

// Filing is the payload handed to the downstream filing generator.
type Filing struct {
	Kind                  string            `json:"kind"`
	Description           string            `json:"description"`
	DescriptionIdentifier string            `json:"description_identifier"`
	DescriptionValues     map[string]string `json:"description_values"`
	Data                  FilingData        `json:"data"`
}

// FilingData is the machine readable part of a Filing.
type FilingData struct {
	PackageType  string `json:"package_type"`
	AccountsType string `json:"accounts_type"`
	MadeUpDate   string `json:"made_up_date,omitempty"`
	FileLink     string `json:"file_link"`
}
