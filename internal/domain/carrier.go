package domain

import (
	"fmt"
	"strings"
	"time"
)

// Carrier is reference data for a shipping company. It does not participate
// in the state machine's logic.
type Carrier struct {
	Name                string
	TrackingURLTemplate string
	StandardDays        int
	ExpressDays         int
	Logo                string
}

// ShippingCarriers lists the supported carriers keyed by code.
var ShippingCarriers = map[string]Carrier{
	"yamato": {
		Name:                "ヤマト運輸",
		TrackingURLTemplate: "https://toi.kuronekoyamato.co.jp/cgi-bin/tneko?init&q={tracking}",
		StandardDays:        2,
		ExpressDays:         1,
		Logo:                "🐈",
	},
	"sagawa": {
		Name:                "佐川急便",
		TrackingURLTemplate: "https://k2k.sagawa-exp.co.jp/p/web/okurijosearch.do?okurijoNo={tracking}",
		StandardDays:        3,
		ExpressDays:         1,
		Logo:                "🚚",
	},
	"jppost": {
		Name:                "日本郵便",
		TrackingURLTemplate: "https://trackings.post.japanpost.jp/services/srv/search/?requestNo1={tracking}",
		StandardDays:        3,
		ExpressDays:         2,
		Logo:                "📮",
	},
}

var trackingNumberPrefixes = map[string]string{
	"yamato": "1234",
	"sagawa": "5678",
	"jppost": "9012",
}

// GenerateTrackingNumber builds a carrier-prefixed tracking number from an
// 8-digit random component supplied by the caller.
func GenerateTrackingNumber(carrier string, random int) string {
	prefix, ok := trackingNumberPrefixes[carrier]
	if !ok {
		prefix = "0000"
	}
	return fmt.Sprintf("%s%08d", prefix, random%100000000)
}

// TrackingURL renders the carrier's tracking URL for the given number.
// Returns empty when the carrier is unknown.
func TrackingURL(carrier, trackingNumber string) string {
	c, ok := ShippingCarriers[carrier]
	if !ok {
		return ""
	}
	return strings.Replace(c.TrackingURLTemplate, "{tracking}", trackingNumber, 1)
}

// EstimatedDelivery computes the expected delivery date from now, skipping
// weekends. Returns the zero time for unknown carriers.
func EstimatedDelivery(carrier string, express bool, now time.Time) time.Time {
	c, ok := ShippingCarriers[carrier]
	if !ok {
		return time.Time{}
	}

	days := c.StandardDays
	if express {
		days = c.ExpressDays
	}

	d := now.AddDate(0, 0, days)
	for d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
		d = d.AddDate(0, 0, 1)
	}
	return d
}
