package sqlstore

import (
	"time"

	"github.com/uptrace/bun"
)

// optionRecord is one row of the host option table. option_value holds the
// JSON document written by the settings store caller.
type optionRecord struct {
	bun.BaseModel `bun:"table:plugin_options,alias:po"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"option_name,notnull"`
	Value     string    `bun:"option_value,notnull"`
	Autoload  bool      `bun:"autoload,notnull"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

func newOptionRecord(name string, value []byte, autoload bool, now time.Time) *optionRecord {
	return &optionRecord{
		Name:      name,
		Value:     string(value),
		Autoload:  autoload,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
