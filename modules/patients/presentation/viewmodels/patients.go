package viewmodels

type Patient struct {
	ID          string `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
	ETag        string `json:"etag"`
}

type PatientListItem struct {
	Patient
	VisitCount  int     `json:"visitCount"`
	LastVisitAt *string `json:"lastVisitAt"`
}

type Visit struct {
	ID        string `json:"id"`
	PatientID string `json:"patientId"`
	VisitedAt string `json:"visitedAt"`
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	ETag      string `json:"etag"`
}
