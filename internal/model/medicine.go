package model

import "time"

// Статусы позиции на складе. Low Stock выставляется при quantity < 100.
const (
	MedicineInStock  = "In Stock"
	MedicineLowStock = "Low Stock"
)

type Medicine struct {
	ID         int        `json:"id"`
	MedicineID string     `json:"medicine_id"`
	Name       string     `json:"name"`
	Category   *string    `json:"category"`
	Supplier   *string    `json:"supplier"`
	Quantity   int        `json:"quantity"`
	Unit       string     `json:"unit"`
	ExpiryDate *time.Time `json:"expiry_date"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MedicinePurchase — закупка препарата (вкладка purchases).
type MedicinePurchase struct {
	ID           int       `json:"id"`
	PurchaseID   string    `json:"purchase_id"`
	MedicineID   string    `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	Supplier     string    `json:"supplier"`
	Quantity     int       `json:"quantity"`
	Unit         string    `json:"unit"`
	PurchaseDate time.Time `json:"purchase_date"`
	Amount       float64   `json:"amount"`
	Status       string    `json:"status"`
}

// MedicineSale — отпуск препарата пациенту (вкладка sales).
type MedicineSale struct {
	ID           int       `json:"id"`
	SaleID       string    `json:"sale_id"`
	MedicineID   string    `json:"medicine_id"`
	MedicineName string    `json:"medicine_name"`
	PatientID    string    `json:"patient_id"`
	PatientName  string    `json:"patient_name"`
	Quantity     int       `json:"quantity"`
	Unit         string    `json:"unit"`
	SaleDate     time.Time `json:"sale_date"`
	Amount       float64   `json:"amount"`
}

// MedicineDetails — карточка препарата с историей закупок и отпуска.
type MedicineDetails struct {
	Medicine
	Purchases []MedicineHistoryItem `json:"purchases"`
	Sales     []MedicineHistoryItem `json:"sales"`
}

// MedicineHistoryItem — движение по складу в карточке препарата.
type MedicineHistoryItem struct {
	ID       int       `json:"id"`
	RecordID string    `json:"record_id"`
	Quantity int       `json:"quantity"`
	Date     time.Time `json:"date"`
	Amount   float64   `json:"amount"`
	Status   *string   `json:"status,omitempty"`
}
