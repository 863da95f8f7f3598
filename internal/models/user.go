package models

// User - проекция таблицы identity-сервиса; модуль её только читает
type User struct {
	BaseModel
	Email    string   `gorm:"uniqueIndex;not null" json:"email"`
	FullName string   `gorm:"type:varchar(160)" json:"fullName"`
	Role     UserRole `gorm:"type:varchar(20);not null" json:"role"`
}
