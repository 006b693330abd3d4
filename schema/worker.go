package schema

import "time"

// Worker is a community health worker who follows up on alerts
type Worker struct {
	ID       int64  `json:"id" bson:"id"`
	FullName string `json:"full_name" bson:"full_name"`
	Phone    string `json:"phone" bson:"phone"`
}

// WorkerAccount is the login record of a worker
type WorkerAccount struct {
	ID           int64     `json:"id" gorm:"primary_key"`
	FullName     string    `json:"full_name" gorm:"not null"`
	Email        string    `json:"email" gorm:"unique_index;not null"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"-" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (WorkerAccount) TableName() string {
	return "workers"
}

func (a WorkerAccount) Worker() Worker {
	return Worker{
		ID:       a.ID,
		FullName: a.FullName,
		Phone:    a.Phone,
	}
}
