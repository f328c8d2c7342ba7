package model

import "time"

type AdminToken struct {
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"createdAt"`
}

type Settings struct {
	BusinessName       string `json:"businessName" validate:"max=200"`
	BusinessPhone      string `json:"businessPhone" validate:"max=32"`
	BusinessEmail      string `json:"businessEmail" validate:"omitempty,email,max=254"`
	BusinessAddress    string `json:"businessAddress" validate:"max=300"`
	EmailNotifications bool   `json:"emailNotifications"`
	SMSNotifications   bool   `json:"smsNotifications"`
}

type Stats struct {
	TotalAppointments    int `json:"totalAppointments"`
	TodayAppointments    int `json:"todayAppointments"`
	UpcomingAppointments int `json:"upcomingAppointments"`
	TotalSlots           int `json:"totalSlots"`
	BookedSlots          int `json:"bookedSlots"`
	AvailableSlots       int `json:"availableSlots"`
	OrphanedSlots        int `json:"orphanedSlots"`
}
