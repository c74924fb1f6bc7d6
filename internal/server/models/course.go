package models

import "time"

// Course is an item authored by an admin. CreatorID is immutable after
// creation and is the only basis for update rights.
type Course struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"imageUrl"`
	CreatorID   string    `json:"creatorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CourseChanges carries the mutable fields of a course.
type CourseChanges struct {
	Title       string
	Description string
	Price       float64
	ImageURL    string
}
