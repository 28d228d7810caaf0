package models

// Teacher represents an instructor record.
type Teacher struct {
	ID               string  `db:"id" json:"id"`
	Name             string  `db:"teacher_name" json:"teacher_name"`
	PhotoFileName    *string `db:"photo_file_name" json:"photo_file_name,omitempty"`
	PhotoContentType *string `db:"photo_content_type" json:"photo_content_type,omitempty"`
}
