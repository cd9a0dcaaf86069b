package models

// Submission is one client-originated product request.
// Contact fields are stored exactly as submitted.
type Submission struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	WhatsApp       string   `json:"whatsapp"`
	ProductDetails string   `json:"productDetails"`
	Images         []string `json:"images"` // public paths like /uploads/<client>/<file>
	CreatedAt      string   `json:"createdAt"`
}

// SubmissionDocument is the on-disk shape of the submission store.
type SubmissionDocument struct {
	Submissions []Submission `json:"submissions"`
}

// EmptyDocument returns a document whose submissions list encodes as [] rather than null.
func EmptyDocument() SubmissionDocument {
	return SubmissionDocument{Submissions: []Submission{}}
}
