package dto

// CreateRfiRequest doubles as the update payload: RFI updates resubmit the
// full shape and the server appends a new version.
type CreateRfiRequest struct {
	RfiNumber           string   `json:"rfiNumber"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	PublicSectorEntity  string   `json:"publicSectorEntity"`
	ClosingDate         string   `json:"closingDate"`
	ClosingTime         string   `json:"closingTime"`
	Categories          []string `json:"categories"`
	DiscoveryDay        bool     `json:"discoveryDay"`
	Addenda             []string `json:"addenda"`
	Attachments         []string `json:"attachments"`
	BuyerContact        string   `json:"buyerContact"`
	ProgramStaffContact string   `json:"programStaffContact"`
}

type CreateDiscoveryDayResponseRequest struct {
	RfiID     string            `json:"rfiId"`
	Attendees []AttendeeRequest `json:"attendees"`
}

type AttendeeRequest struct {
	Name   string `json:"name"`
	Email  string `json:"email"`
	Remote bool   `json:"remote"`
}
