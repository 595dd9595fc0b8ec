package models

// Asset is a customer asset (usually a vessel) as exposed by the
// customer/asset affiliation view. Vessel and asset are the same entity.
type Asset struct {
	ID               int64   `gorm:"column:fldAssetID;primaryKey" json:"assetId"`
	Identifier       *string `gorm:"column:fldAssetIdentifier" json:"assetIdentifier"`
	Type             *string `gorm:"column:fldAssetType" json:"assetType"`
	TypeID           *int64  `gorm:"column:fldAssetTypeID" json:"assetTypeId"`
	ParentAssetID    *int64  `gorm:"column:fldParentAssetID" json:"parentAssetId"`
	CustomerID       *int64  `gorm:"column:fldCustomerID" json:"customerId"`
	CustomerName     *string `gorm:"column:fldCustomerName" json:"customerName"`
	VesselName       *string `gorm:"column:fldVName" json:"vesselName"`
	Address          *string `gorm:"column:Address" json:"address"`
	Port             *string `gorm:"column:Port" json:"port"`
	Terminal         *string `gorm:"column:Terminal" json:"terminal"`
	PortOfTerminal   *string `gorm:"column:PortofTerminal" json:"portOfTerminal"`
	ParentPort       *string `gorm:"column:ParentPort" json:"parentPort"`
	Country          *string `gorm:"column:fldCountry" json:"country"`
	CustomerType     *string `gorm:"column:fldCustType" json:"customerType"`
	InterCompanyFlag *bool   `gorm:"column:fldInterCo" json:"interCompanyFlag"`
	Blocked          *bool   `gorm:"column:fldBlocked" json:"blocked"`
	CustomerDeleted  *bool   `gorm:"column:fldDeleted" json:"customerDeleted"`
	AssetDeleted     *bool   `gorm:"column:AssetDeleted" json:"assetDeleted"`
}

func (Asset) TableName() string { return "vwCustomerAssetAffiliation" }
