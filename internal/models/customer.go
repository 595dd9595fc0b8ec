package models

import "time"

// Customer is a row of tblCustomer.
type Customer struct {
	ID    int64   `gorm:"column:fldCustomerID;primaryKey" json:"id"`
	Name  string  `gorm:"column:fldCustomerName;size:255" json:"name"`
	Email *string `gorm:"column:fldEmail;size:255" json:"email"`
}

func (Customer) TableName() string { return "tblCustomer" }

// Contact is a customer contact as exposed by vwCustContact.
type Contact struct {
	ID         int64      `gorm:"column:fldCustContactID;primaryKey" json:"contactId"`
	JobTitle   *string    `gorm:"column:fldCJobTitle" json:"jobTitle"`
	FullName   *string    `gorm:"column:fldFullName" json:"fullName"`
	Email      *string    `gorm:"column:fldEmail" json:"email"`
	MobileNo   *string    `gorm:"column:fldMobileNo" json:"mobileNo"`
	PhoneNo    *string    `gorm:"column:fldPhoneNo" json:"phoneNo"`
	Salutation *string    `gorm:"column:fldContactSalutation" json:"salutation"`
	Body       *string    `gorm:"column:fldBody" json:"body"`
	BodyEnd    *string    `gorm:"column:fldBodyEnd" json:"bodyEnd"`
	CreatedOn  *time.Time `gorm:"column:fldContCreatedDate" json:"createdOn"`
	CreatedBy  *string    `gorm:"column:fldContCreatedBy" json:"createdBy"`
	CustomerID int64      `gorm:"column:fldCustomerID;index" json:"customerId"`
}

func (Contact) TableName() string { return "vwCustContact" }
