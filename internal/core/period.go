package core

import (
	"fmt"
	"sort"
	"time"
)

const (
	Month Granularity = "month"
	Week  Granularity = "week"
	Year  Granularity = "year"
)

type (
	Granularity string

	// TypeTotal is the summed amount of one transaction type within a bucket.
	TypeTotal struct {
		Type  TxType
		Total Money
	}

	// PeriodBucket groups totals for one calendar period.
	PeriodBucket struct {
		Period string
		Totals []TypeTotal
	}
)

// ParseGranularity returns the typed value for a wire string, or false when
// the value is outside the closed set.
func ParseGranularity(s string) (Granularity, bool) {
	switch Granularity(s) {
	case Month, Week, Year:
		return Granularity(s), true
	}
	return "", false
}

// PeriodKey derives the string bucket key for a date at the given
// granularity. All three formats use fixed zero-padded widths so that
// lexicographic order coincides with chronological order; any future
// granularity must preserve that property.
func PeriodKey(date time.Time, g Granularity) string {
	switch g {
	case Year:
		return yearKey(date)
	case Week:
		return weekKey(date)
	default:
		return monthKey(date)
	}
}

func yearKey(date time.Time) string {
	return fmt.Sprintf("%04d", date.Year())
}

func monthKey(date time.Time) string {
	return fmt.Sprintf("%04d-%02d", date.Year(), int(date.Month()))
}

// weekKey uses the ISO-8601 week-year, not the calendar year. Near a year
// boundary the two differ: 2024-12-30 belongs to ISO week 2025-01.
func weekKey(date time.Time) string {
	isoYear, isoWeek := date.ISOWeek()
	return fmt.Sprintf("%04d-%02d", isoYear, isoWeek)
}

// Summarize buckets transactions by calendar period (of the event date,
// never the creation time) and sums amounts per type within each bucket.
// Types with no transactions in a period are omitted from Totals, not
// zero-filled; callers must treat a missing type as zero. Buckets come back
// ascending by period key; totals within a bucket ascending by type string.
func Summarize(txs []Transaction, g Granularity) []PeriodBucket {
	type groupKey struct {
		period string
		txType TxType
	}
	sums := make(map[groupKey]int64)
	for _, t := range txs {
		k := groupKey{period: PeriodKey(t.Date, g), txType: t.Type}
		sums[k] += t.Amount.Cents
	}

	byPeriod := make(map[string][]TypeTotal)
	for k, cents := range sums {
		byPeriod[k.period] = append(byPeriod[k.period], TypeTotal{
			Type:  k.txType,
			Total: Money{Cents: cents},
		})
	}

	periods := make([]string, 0, len(byPeriod))
	for p := range byPeriod {
		periods = append(periods, p)
	}
	sort.Strings(periods)

	buckets := make([]PeriodBucket, 0, len(periods))
	for _, p := range periods {
		totals := byPeriod[p]
		sort.Slice(totals, func(i, j int) bool {
			return totals[i].Type < totals[j].Type
		})
		buckets = append(buckets, PeriodBucket{Period: p, Totals: totals})
	}
	return buckets
}
