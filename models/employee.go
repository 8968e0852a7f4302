package models

import "time"

type Employee struct {
	EmpID         string    `json:"empid" bson:"empid"`
	Username      string    `json:"username" bson:"username"`
	Password      string    `json:"password,omitempty" bson:"password"`
	FullName      string    `json:"full_name" bson:"full_name"`
	ContactNumber string    `json:"contact_number,omitempty" bson:"contact_number,omitempty"`
	Building      string    `json:"building" bson:"building"`
	Role          []string  `json:"role" bson:"role"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"-" bson:"last_login,omitempty"`
}

type Vehicle struct {
	VehicleID      string `json:"vehicleid" bson:"vehicleid"`
	EmpID          string `json:"empid" bson:"empid"`
	RegistrationNo string `json:"registration_no" bson:"registration_no"`
	Model          string `json:"model" bson:"model"`
	Color          string `json:"color" bson:"color"`
	VehicleType    string `json:"vehicle_type" bson:"vehicle_type"`
	IsDefault      bool   `json:"is_default" bson:"is_default"`
	Photo          string `json:"photo,omitempty" bson:"photo,omitempty"`
	PhotoThumb     string `json:"photo_thumb,omitempty" bson:"photo_thumb,omitempty"`
}
