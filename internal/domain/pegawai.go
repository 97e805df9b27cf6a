package domain

import "time"

// Pegawai is a staff employee record. The personal, address, bank and job
// sections mirror the HR intake form.
type Pegawai struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Gender      string `json:"gender"`
	Rek         string `json:"rek,omitempty"`

	DateOfBirth   time.Time `json:"date_of_birth"`
	PlaceOfBirth  string    `json:"place_of_birth"`
	Religion      string    `json:"religion"`
	MarriedStatus string    `json:"married_status"`
	BloodType     string    `json:"blood_type"`
	FatherName    string    `json:"father_name"`
	MotherName    string    `json:"mother_name"`

	Province    string `json:"province"`
	City        string `json:"city"`
	District    string `json:"district"`
	SubDistrict string `json:"sub_district"`
	RT          string `json:"rt"`
	RW          string `json:"rw"`
	PostalCode  string `json:"postal_code"`
	Address     string `json:"address"`
	Picture     string `json:"picture,omitempty"`

	BankName     string `json:"bank_name"`
	BankRekening string `json:"bank_rekening"`
	BankAccount  string `json:"bank_account"`

	JobStatus    string     `json:"job_status"`
	JobPIC       string     `json:"job_pic,omitempty"`
	JobStartDate time.Time  `json:"job_start_date"`
	JobEndDate   *time.Time `json:"job_end_date"`

	UserID    *string    `json:"user_id,omitempty"`
	User      *User      `json:"user,omitempty"`
	DeletedAt *time.Time `json:"-"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// PegawaiSummary is the trimmed row returned by list queries.
type PegawaiSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	JobStatus   string `json:"job_status"`
}
