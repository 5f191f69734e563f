package models

import "time"

// ContactMessage обращение через форму обратной связи.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// Stats сводные показатели для панели администратора.
type Stats struct {
	TotalUsers    int64 `json:"totalUsers"`
	TotalProducts int64 `json:"totalProducts"`
	TotalOrders   int64 `json:"totalOrders"`
	TotalRevenue  int64 `json:"totalRevenue"`
}
