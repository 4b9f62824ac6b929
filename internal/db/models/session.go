package models

// SessionRecord is a row of the session storage table.
//
// The column layout (k, v, e) is the one the gofiber storage drivers use, so the
// same table can be served by the gorm store or by the postgres / mysql drivers.
type SessionRecord struct {
	// Key is the session token.
	Key string `gorm:"column:k;primaryKey;size:64"`
	// Value is the JSON encoded session.
	Value []byte `gorm:"column:v"`
	// Expires is the unix time after which the row is stale, 0 means never.
	Expires int64 `gorm:"column:e;index;not null;default:0"`
}

// TableName sets the table name.
func (SessionRecord) TableName() string { return "sessions" }
