package model

type User struct {
	BaseModel
	Email    string  `db:"email" json:"email"`
	FullName string  `db:"full_name" json:"full_name"`
	Phone    *string `db:"phone" json:"phone"`
	Role     string  `db:"role" json:"role"`
	IsActive bool    `db:"is_active" json:"is_active"`
}
