// internal/model/plan.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Plan struct {
	ID          string        `db:"id" json:"id"`
	Name        string        `db:"name" json:"name"`
	Code        string        `db:"code" json:"code"`
	Description *string       `db:"description" json:"description"`
	CreatedAt   time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updatedAt"`
	Versions    []PlanVersion `db:"-" json:"versions"`
}

type PlanVersion struct {
	ID             string     `db:"id" json:"id"`
	PlanID         string     `db:"plan_id" json:"planId"`
	BasePriceCents int64      `db:"base_price_cents" json:"basePriceCents"`
	Version        int        `db:"version" json:"version"`
	Zone           string     `db:"zone" json:"zone"`
	Bucket         string     `db:"bucket" json:"bucket"`
	Cadence        string     `db:"cadence" json:"cadence"`
	Components     Components `db:"components" json:"components"`
}

// FlatPlan is a plan with its first version projected onto top-level fields.
type FlatPlan struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Code           string     `json:"code"`
	Description    *string    `json:"description"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	VersionID      *string    `json:"versionId"`
	BasePriceCents *int64     `json:"basePriceCents"`
	Version        *int       `json:"version"`
	Zone           *string    `json:"zone"`
	Bucket         *string    `json:"bucket"`
	Cadence        *string    `json:"cadence"`
	Components     Components `json:"components"`
}

// Components is a jsonb array of opaque pricing components.
type Components []json.RawMessage

func (c *Components) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*c = nil
		return nil
	case []byte:
		return json.Unmarshal(v, c)
	case string:
		return json.Unmarshal([]byte(v), c)
	default:
		return fmt.Errorf("Components.Scan: expected []byte, got %T", src)
	}
}

func (c Components) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]json.RawMessage(c))
}
