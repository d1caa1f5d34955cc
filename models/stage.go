package models

// ProductionStage represents one step of the fixed production pipeline
type ProductionStage struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:500" json:"description"`
}

// TableName specifies the table name for the ProductionStage model
func (ProductionStage) TableName() string {
	return "production_stages"
}
