package model

import "time"

// DashboardStats — счётчики верхней панели дашборда.
type DashboardStats struct {
	PatientCount      int `json:"patientCount"`
	TodayAppointments int `json:"todayAppointments"`
	ActiveStaff       int `json:"activeStaff"`
	TodayLabTests     int `json:"todayLabTests"`
}

// OverviewPoint — точка графика поступлений/выписок за месяц.
type OverviewPoint struct {
	Name       string `json:"name"`
	Admissions int    `json:"admissions"`
	Discharges int    `json:"discharges"`
}

// RecentPatient — строка блока «недавние пациенты».
type RecentPatient struct {
	ID           int       `json:"id"`
	PatientID    string    `json:"patient_id"`
	Name         string    `json:"name"`
	DateAdmitted time.Time `json:"date_admitted"`
	Status       string    `json:"status"`
}

// Report — сводный отчёт за период: агрегаты и разбивки для графиков.
type Report struct {
	Patients struct {
		Total      int `json:"total"`
		New        int `json:"new"`
		Admitted   int `json:"admitted"`
		Discharged int `json:"discharged"`
	} `json:"patients"`
	Appointments struct {
		Total     int `json:"total"`
		Completed int `json:"completed"`
		Cancelled int `json:"cancelled"`
		NoShow    int `json:"noShow"`
	} `json:"appointments"`
	Revenue struct {
		Total       float64 `json:"total"`
		Outstanding float64 `json:"outstanding"`
		AverageBill float64 `json:"averageBill"`
		Expenses    float64 `json:"expenses"`
	} `json:"revenue"`
	Medicine struct {
		TotalStockValue float64 `json:"totalStockValue"`
		LowStockItems   int     `json:"lowStockItems"`
		ExpiredItems    int     `json:"expiredItems"`
		MonthlyUsage    float64 `json:"monthlyUsage"`
	} `json:"medicine"`
	PatientAdmissions        []MonthCount       `json:"patientAdmissions"`
	AppointmentsByDepartment []DepartmentCount  `json:"appointmentsByDepartment"`
	RevenueByDepartment      []DepartmentAmount `json:"revenueByDepartment"`
	MedicineByCategory       []CategoryCount    `json:"medicineByCategory"`
}

type MonthCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

type DepartmentCount struct {
	Department string `json:"department"`
	Count      int    `json:"count"`
}

type DepartmentAmount struct {
	Department string  `json:"department"`
	Amount     float64 `json:"amount"`
}

type CategoryCount struct {
	Category *string `json:"category"`
	Count    int     `json:"count"`
}
