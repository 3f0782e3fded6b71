// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package geoip resolves visitor countries from a MaxMind GeoLite2-Country database.
package geoip

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"time"

	"github.com/oschwald/maxminddb-golang"

	"github.com/olegiv/lefarm/internal/util"
)

// CountryLocal is reported for private and loopback addresses.
const CountryLocal = "LOCAL"

// countryRecord is the part of a GeoLite2-Country record we read.
type countryRecord struct {
	Country struct {
		ISOCode string `maxminddb:"iso_code"`
	} `maxminddb:"country"`
}

// Lookup maps client IPs to ISO country codes. It is safe for concurrent
// use and can be reloaded when the file on disk is refreshed.
type Lookup struct {
	mu      sync.RWMutex
	path    string
	reader  *maxminddb.Reader
	modTime time.Time
}

// Open loads the database at path. An empty path returns a Lookup that
// only recognizes private addresses. On error the returned Lookup is still
// usable, in the same degraded mode.
func Open(path string) (*Lookup, error) {
	l := &Lookup{path: path}
	if path == "" {
		return l, nil
	}
	if err := l.Reload(); err != nil {
		return l, err
	}
	return l, nil
}

// Reload reopens the database when its modification time changed.
func (l *Lookup) Reload() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.path == "" {
		return nil
	}

	fi, err := os.Stat(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("GeoIP database not found: %s", l.path)
	}
	if err != nil {
		return fmt.Errorf("stat GeoIP database: %w", err)
	}
	if l.reader != nil && fi.ModTime().Equal(l.modTime) {
		return nil
	}

	reader, err := maxminddb.Open(l.path)
	if err != nil {
		return fmt.Errorf("opening GeoIP database: %w", err)
	}
	if l.reader != nil {
		_ = l.reader.Close()
	}
	l.reader = reader
	l.modTime = fi.ModTime()
	return nil
}

// LookupCountry returns the ISO code for ip, CountryLocal for private
// addresses and "" when the address is invalid or unknown.
func (l *Lookup) LookupCountry(ip string) string {
	addr := net.ParseIP(ip)
	switch {
	case addr == nil:
		return ""
	case util.IsPrivateIP(addr):
		return CountryLocal
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.reader == nil {
		return ""
	}

	var rec countryRecord
	if err := l.reader.Lookup(addr, &rec); err != nil {
		return ""
	}
	return rec.Country.ISOCode
}

// Enabled reports whether a database is loaded.
func (l *Lookup) Enabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.reader != nil
}

// Close releases the database. Lookups afterwards only see private addresses.
func (l *Lookup) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.reader == nil {
		return nil
	}
	err := l.reader.Close()
	l.reader = nil
	return err
}
