// FAQRec - FAQ Recommendation and Experimentation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/faqrec

package device

import (
	"regexp"
	"strings"
	"sync"
	"time"
)

// DeviceType classifies the client form factor.
type DeviceType string

const (
	// DeviceMobile is a phone-class device.
	DeviceMobile DeviceType = "mobile"

	// DeviceTablet is a tablet or a medium-width screen.
	DeviceTablet DeviceType = "tablet"

	// DeviceDesktop is everything else, including server-side rendering.
	DeviceDesktop DeviceType = "desktop"
)

// ConnectionType is the client's effective network class.
type ConnectionType string

const (
	ConnectionSlow2G ConnectionType = "slow-2g"
	Connection2G     ConnectionType = "2g"
	Connection3G     ConnectionType = "3g"
	Connection4G     ConnectionType = "4g"
	Connection5G     ConnectionType = "5g"
	ConnectionWiFi   ConnectionType = "wifi"
)

// ParseConnectionType returns the connection type named by s.
func ParseConnectionType(s string) (ConnectionType, bool) {
	switch c := ConnectionType(strings.ToLower(strings.TrimSpace(s))); c {
	case ConnectionSlow2G, Connection2G, Connection3G, Connection4G, Connection5G, ConnectionWiFi:
		return c, true
	default:
		return "", false
	}
}

// MemoryConstraint is the coarse memory class of the client.
type MemoryConstraint string

const (
	MemoryLow    MemoryConstraint = "low"
	MemoryNormal MemoryConstraint = "normal"
	MemoryHigh   MemoryConstraint = "high"
)

// UnknownBattery marks a Profile without a battery reading.
const UnknownBattery = -1

// Detection thresholds.
const (
	tabletMinWidth  = 768
	desktopMinWidth = 1024

	lowMemoryGB    = 2
	normalMemoryGB = 4

	// Mobile devices are assumed to be in low-power mode outside these hours.
	lowPowerBeforeHour = 7
	lowPowerAfterHour  = 22
)

var (
	mobileUserAgent = regexp.MustCompile(`(?i)android|webos|iphone|ipod|blackberry|iemobile|opera mini`)
	tabletUserAgent = regexp.MustCompile(`(?i)ipad|android.*tablet|tablet`)
)

// ClientContext carries the facts a calling layer knows about its client.
// Every field is optional; zero values select the fallbacks.
type ClientContext struct {
	// UserAgent is the raw User-Agent header.
	UserAgent string

	// ScreenWidth is the reported screen width in CSS pixels.
	ScreenWidth int

	// EffectiveType is the Network Information API effective type.
	EffectiveType string

	// DeviceMemory is the Device Memory API value in gigabytes.
	DeviceMemory *float64

	// BatteryLevel is the charge in percent (0-100).
	BatteryLevel *float64

	// ReducedMotion mirrors prefers-reduced-motion.
	ReducedMotion bool

	// ServerSide marks a render without any client information.
	ServerSide bool

	// Now is the client's local time. Zero means time.Now().
	Now time.Time
}

// Profile is the detected capability profile. It is a comparable value and
// is used directly as a memoisation key.
type Profile struct {
	DeviceType       DeviceType       `json:"deviceType"`
	ConnectionType   ConnectionType   `json:"connectionType"`
	MemoryConstraint MemoryConstraint `json:"memoryConstraint"`
	BatteryLevel     int              `json:"batteryLevel"`
	LowPowerMode     bool             `json:"lowPowerMode"`
	ReducedMotion    bool             `json:"reducedMotion"`
}

// ServerProfile is the profile used for server-side rendering.
func ServerProfile() Profile {
	return Profile{
		DeviceType:       DeviceDesktop,
		ConnectionType:   ConnectionWiFi,
		MemoryConstraint: MemoryNormal,
		BatteryLevel:     UnknownBattery,
	}
}

// Detect classifies a client context.
func Detect(cc ClientContext) Profile {
	if cc.ServerSide {
		return ServerProfile()
	}

	deviceType := detectDeviceType(cc.UserAgent, cc.ScreenWidth)
	p := Profile{
		DeviceType:       deviceType,
		ConnectionType:   detectConnection(cc.EffectiveType, deviceType),
		MemoryConstraint: detectMemory(cc.DeviceMemory, deviceType),
		BatteryLevel:     UnknownBattery,
		ReducedMotion:    cc.ReducedMotion,
	}

	if cc.BatteryLevel != nil {
		level := *cc.BatteryLevel
		if level < 0 {
			level = 0
		}
		if level > 100 {
			level = 100
		}
		p.BatteryLevel = int(level)
	}

	if deviceType == DeviceMobile {
		now := cc.Now
		if now.IsZero() {
			now = time.Now()
		}
		hour := now.Hour()
		p.LowPowerMode = hour < lowPowerBeforeHour || hour > lowPowerAfterHour
	}
	return p
}

func detectDeviceType(userAgent string, width int) DeviceType {
	if mobileUserAgent.MatchString(userAgent) && width < tabletMinWidth {
		return DeviceMobile
	}
	if tabletUserAgent.MatchString(userAgent) || (width >= tabletMinWidth && width < desktopMinWidth) {
		return DeviceTablet
	}
	return DeviceDesktop
}

func detectConnection(effectiveType string, deviceType DeviceType) ConnectionType {
	if c, ok := ParseConnectionType(effectiveType); ok {
		return c
	}
	if deviceType == DeviceMobile {
		return Connection4G
	}
	return ConnectionWiFi
}

func detectMemory(deviceMemory *float64, deviceType DeviceType) MemoryConstraint {
	if deviceMemory != nil {
		switch {
		case *deviceMemory <= lowMemoryGB:
			return MemoryLow
		case *deviceMemory <= normalMemoryGB:
			return MemoryNormal
		default:
			return MemoryHigh
		}
	}

	switch deviceType {
	case DeviceMobile:
		return MemoryLow
	case DeviceTablet:
		return MemoryNormal
	default:
		return MemoryHigh
	}
}

// Detector caches the profile of one client until Refresh.
type Detector struct {
	mu      sync.Mutex
	client  ClientContext
	profile *Profile
}

// NewDetector creates a detector for a client context.
func NewDetector(cc ClientContext) *Detector {
	return &Detector{client: cc}
}

// Detect returns the cached profile, detecting it on first use.
func (d *Detector) Detect() Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.profile == nil {
		p := Detect(d.client)
		d.profile = &p
	}
	return *d.profile
}

// Refresh replaces the client context and re-detects.
func (d *Detector) Refresh(cc ClientContext) Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.client = cc
	p := Detect(cc)
	d.profile = &p
	return p
}

// Redetect re-detects from the current client context. Time-dependent
// fields such as LowPowerMode follow the clock when ClientContext.Now is zero.
func (d *Detector) Redetect() Profile {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := Detect(d.client)
	d.profile = &p
	return p
}
