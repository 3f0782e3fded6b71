// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// StringList is a list of strings stored as a JSON array in a TEXT column.
type StringList []string

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = StringList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("StringList: unsupported source type %T", src)
	}

	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("StringList: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*l = out
	return nil
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

type Banner struct {
	ID        string
	Title     string
	TitleEn   sql.NullString
	TitleRu   sql.NullString
	Subtitle  sql.NullString
	Image     string
	Link      sql.NullString
	SortOrder int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Contact struct {
	ID        string
	Type      string
	Value     string
	Label     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Event struct {
	ID        int64
	Level     string
	Category  string
	Message   string
	Metadata  string
	IpAddress string
	CreatedAt time.Time
}

type Lead struct {
	ID          string
	Name        string
	Email       sql.NullString
	Phone       string
	Subject     string
	Message     string
	Status      string
	ContactedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type News struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     sql.NullString
	Content     string
	Image       sql.NullString
	Status      string
	Tags        StringList
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PageVisit struct {
	ID         string
	Path       string
	Referrer   string
	Browser    string
	Os         string
	DeviceType string
	Country    string
	VisitedAt  time.Time
}

type Product struct {
	ID          string
	NameVi      string
	NameEn      string
	NameRu      sql.NullString
	ProductCode string
	Category    string
	Price       float64
	Stock       int64
	Unit        sql.NullString
	Image       string
	Images      StringList
	Description sql.NullString
	Benefits    StringList
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Project struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Image       sql.NullString
	Images      StringList
	Category    sql.NullString
	Results     sql.NullString
	Year        sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string
	LastLoginAt  sql.NullTime
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
