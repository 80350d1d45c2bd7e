package dto

type DashboardResponse struct {
	TotalUsers        int `json:"total_users"`
	TotalStudents     int `json:"total_students"`
	TotalTutors       int `json:"total_tutors"`
	TotalBookings     int `json:"total_bookings"`
	ConfirmedBookings int `json:"confirmed_bookings"`
	CompletedBookings int `json:"completed_bookings"`
	CancelledBookings int `json:"cancelled_bookings"`
	TotalCategories   int `json:"total_categories"`
}
