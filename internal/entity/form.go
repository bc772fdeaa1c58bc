package entity

import "encoding/json"

// VerificationForm represents an identity-verification document submission
type VerificationForm struct {
	Id              int64   `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	UserId          int64   `json:"user_id" gorm:"column:user_id;index"`
	GhanaCardNumber string  `json:"ghana_card_number" gorm:"column:ghana_card_number"`
	LicenseNumber   string  `json:"license_number" gorm:"column:license_number"`
	BookingReason   string  `json:"booking_reason" gorm:"column:booking_reason"`
	EmergencyName   string  `json:"emergency_name" gorm:"column:emergency_name"`
	EmergencyPhone  string  `json:"emergency_phone" gorm:"column:emergency_phone"`
	GhanaCardFront  string  `json:"ghana_card_front" gorm:"column:ghana_card_front"`
	GhanaCardBack   string  `json:"ghana_card_back" gorm:"column:ghana_card_back"`
	LicenseFront    string  `json:"license_front" gorm:"column:license_front"`
	LicenseBack     string  `json:"license_back" gorm:"column:license_back"`
	OtherDocuments  string  `json:"other_documents" gorm:"column:other_documents;type:json"`
	Status          string  `json:"status" gorm:"column:status"`
	AdminNotes      string  `json:"admin_notes" gorm:"column:admin_notes"`
	CreatedAt       int64   `json:"created_at" gorm:"column:created_at;autoCreateTime:milli"`
	UpdatedAt       int64   `json:"updated_at" gorm:"column:updated_at;autoUpdateTime:milli"`
}

// TableName returns the table name for VerificationForm
func (VerificationForm) TableName() string {
	return "verification_forms"
}

// OtherDocumentPaths decodes the stored JSON list of additional document paths
func (f *VerificationForm) OtherDocumentPaths() []string {
	if f.OtherDocuments == "" {
		return nil
	}
	var paths []string
	if err := json.Unmarshal([]byte(f.OtherDocuments), &paths); err != nil {
		return nil
	}
	return paths
}

// SetOtherDocumentPaths encodes the list of additional document paths
func (f *VerificationForm) SetOtherDocumentPaths(paths []string) {
	if len(paths) == 0 {
		f.OtherDocuments = "[]"
		return
	}
	data, err := json.Marshal(paths)
	if err != nil {
		f.OtherDocuments = "[]"
		return
	}
	f.OtherDocuments = string(data)
}

// FormRow is the form joined with the submitting user's profile fields
type FormRow struct {
	VerificationForm
	FirstName string `gorm:"column:first_name" json:"first_name"`
	LastName  string `gorm:"column:last_name" json:"last_name"`
	Email     string `gorm:"column:email" json:"email"`
	Phone     string `gorm:"column:phone" json:"phone"`
	Dob       string `gorm:"column:dob" json:"dob"`
	Avatar    string `gorm:"column:avatar" json:"avatar"`
}
