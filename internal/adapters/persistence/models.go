package persistence

import (
	"time"
)

// DeltaJournalModel represents the delta_journal table. Every resource
// delta applied to the station ledger is recorded here, keyed by the
// message ID, so duplicates survive restarts. MessageID is NULL for
// producers that publish without one; those entries never participate in
// deduplication.
type DeltaJournalModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	MessageID *string   `gorm:"column:message_id;uniqueIndex"`
	PlanetID  string    `gorm:"column:planet_id"`
	ReqGold   int       `gorm:"column:req_gold;not null"`
	ReqFood   int       `gorm:"column:req_food;not null"`
	ReqMetal  int       `gorm:"column:req_metal;not null"`
	AppGold   int       `gorm:"column:app_gold;not null"`
	AppFood   int       `gorm:"column:app_food;not null"`
	AppMetal  int       `gorm:"column:app_metal;not null"`
	BalGold   int       `gorm:"column:bal_gold;not null"`
	BalFood   int       `gorm:"column:bal_food;not null"`
	BalMetal  int       `gorm:"column:bal_metal;not null"`
	AppliedAt time.Time `gorm:"column:applied_at;not null"`
}

func (DeltaJournalModel) TableName() string {
	return "delta_journal"
}

// PlanetModel represents the planets table
type PlanetModel struct {
	ID         string `gorm:"column:id;primaryKey;not null"`
	Name       string `gorm:"column:name;not null"`
	X          int    `gorm:"column:x;not null"`
	Y          int    `gorm:"column:y;not null"`
	Size       string `gorm:"column:size;not null"`
	Gold       int    `gorm:"column:gold;not null"`
	Food       int    `gorm:"column:food;not null"`
	Metal      int    `gorm:"column:metal;not null"`
	SpeedGold  int    `gorm:"column:speed_gold;not null;default:1"`
	SpeedFood  int    `gorm:"column:speed_food;not null;default:1"`
	SpeedMetal int    `gorm:"column:speed_metal;not null;default:1"`
	UpGold     int    `gorm:"column:up_gold;not null;default:0"`
	UpFood     int    `gorm:"column:up_food;not null;default:0"`
	UpMetal    int    `gorm:"column:up_metal;not null;default:0"`
	Claimed    bool   `gorm:"column:claimed;not null;default:false"`
	SectorX    int    `gorm:"column:sector_x;not null;index:idx_planets_sector"`
	SectorY    int    `gorm:"column:sector_y;not null;index:idx_planets_sector"`
}

func (PlanetModel) TableName() string {
	return "planets"
}
