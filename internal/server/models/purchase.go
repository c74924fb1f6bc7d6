package models

import "time"

type Purchase struct {
	ID        string
	UserID    string
	CourseID  string
	CreatedAt time.Time
}

// PurchaseDetails is a purchase together with the course it references.
type PurchaseDetails struct {
	Purchase
	Course Course
}
