// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"time"
)

type timeUnit int

const (
	unitMinute timeUnit = iota
	unitHour
	unitDay
	unitWeek
	unitMonth
)

var viUnits = map[timeUnit]string{
	unitMinute: "phút",
	unitHour:   "giờ",
	unitDay:    "ngày",
	unitWeek:   "tuần",
	unitMonth:  "tháng",
}

var enUnits = map[timeUnit][2]string{
	unitMinute: {"minute", "minutes"},
	unitHour:   {"hour", "hours"},
	unitDay:    {"day", "days"},
	unitWeek:   {"week", "weeks"},
	unitMonth:  {"month", "months"},
}

// one, few, many
var ruUnits = map[timeUnit][3]string{
	unitMinute: {"минуту", "минуты", "минут"},
	unitHour:   {"час", "часа", "часов"},
	unitDay:    {"день", "дня", "дней"},
	unitWeek:   {"неделю", "недели", "недель"},
	unitMonth:  {"месяц", "месяца", "месяцев"},
}

// RelativeTime renders how long ago t was, relative to now, in lang
// ("vi", "en" or "ru"; anything else falls back to Vietnamese).
// Times less than a minute old, or in the future, render as "just now".
func RelativeTime(t, now time.Time, lang string) string {
	seconds := int64(now.Sub(t) / time.Second)

	var n int64
	var unit timeUnit
	switch {
	case seconds < 60:
		return justNow(lang)
	case seconds < 3600:
		n, unit = seconds/60, unitMinute
	case seconds < 86400:
		n, unit = seconds/3600, unitHour
	case seconds < 604800:
		n, unit = seconds/86400, unitDay
	case seconds < 2592000:
		n, unit = seconds/604800, unitWeek
	default:
		n, unit = seconds/2592000, unitMonth
	}

	switch lang {
	case "en":
		forms := enUnits[unit]
		if n == 1 {
			return fmt.Sprintf("1 %s ago", forms[0])
		}
		return fmt.Sprintf("%d %s ago", n, forms[1])
	case "ru":
		return fmt.Sprintf("%d %s назад", n, ruUnits[unit][russianPluralForm(n)])
	default:
		return fmt.Sprintf("%d %s trước", n, viUnits[unit])
	}
}

func justNow(lang string) string {
	switch lang {
	case "en":
		return "just now"
	case "ru":
		return "только что"
	default:
		return "vừa xong"
	}
}

// russianPluralForm returns 0 for the "one" form, 1 for "few", 2 for "many".
func russianPluralForm(n int64) int {
	mod10, mod100 := n%10, n%100
	switch {
	case mod10 == 1 && mod100 != 11:
		return 0
	case mod10 >= 2 && mod10 <= 4 && (mod100 < 12 || mod100 > 14):
		return 1
	default:
		return 2
	}
}
