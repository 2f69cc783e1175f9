// Copyright 2024 Google Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package resconfig parses Android resource-qualifier directory suffixes
// (the part of a resource directory name after the first dash) into a
// structured configuration descriptor.
package resconfig

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Density names understood as an alternative to a literal "NNNdpi" value.
var densityNames = map[string]int{
	"nodpi":   0,
	"anydpi":  0xffff,
	"ldpi":    120,
	"mdpi":    160,
	"tvdpi":   213,
	"hdpi":    240,
	"xhdpi":   320,
	"xxhdpi":  480,
	"xxxhdpi": 640,
}

var orientations = map[string]bool{"port": true, "land": true, "square": true}
var uiModes = map[string]bool{
	"car": true, "desk": true, "television": true, "appliance": true,
	"watch": true, "vrheadset": true,
}
var nightModes = map[string]bool{"night": true, "notnight": true}
var screenSizes = map[string]bool{"small": true, "normal": true, "large": true, "xlarge": true}
var screenLongs = map[string]bool{"long": true, "notlong": true}
var layoutDirs = map[string]bool{"ldltr": true, "ldrtl": true}

// Config is the parsed form of a resource-qualifier suffix, e.g. the
// "fr-rFR-hdpi-v21" in "values-fr-rFR-hdpi-v21".
type Config struct {
	Language     string // ISO 639, lowercase, empty if unspecified.
	Region       string // ISO 3166, uppercase, empty if unspecified.
	LayoutDir    string // "ldltr" or "ldrtl".
	ScreenSize   string // "small", "normal", "large", "xlarge".
	ScreenLong   string // "long", "notlong".
	Orientation  string // "port", "land", "square".
	UIMode       string // "car", "desk", "television", ...
	NightMode    string // "night", "notnight".
	Density      int    // dots per inch; 0 means "nodpi".
	HasDensity   bool
	Touchscreen  string
	KeysHidden   string
	Keyboard     string
	NavHidden    string
	Navigation   string
	Version      int // API level from a trailing "vNN" qualifier.
	HasVersion   bool
	unknownParts []string // qualifiers accepted but not semantically modeled.
}

// String reconstructs the dash-joined qualifier string in canonical order.
// It is not guaranteed to equal the original input byte-for-byte (e.g.
// mixed-case locale qualifiers are normalized), only to re-parse to an
// equivalent Config.
func (c Config) String() string {
	var parts []string
	if c.Language != "" {
		if c.Region != "" {
			parts = append(parts, c.Language, "r"+c.Region)
		} else {
			parts = append(parts, c.Language)
		}
	}
	if c.LayoutDir != "" {
		parts = append(parts, c.LayoutDir)
	}
	if c.ScreenSize != "" {
		parts = append(parts, c.ScreenSize)
	}
	if c.ScreenLong != "" {
		parts = append(parts, c.ScreenLong)
	}
	if c.Orientation != "" {
		parts = append(parts, c.Orientation)
	}
	if c.UIMode != "" {
		parts = append(parts, c.UIMode)
	}
	if c.NightMode != "" {
		parts = append(parts, c.NightMode)
	}
	if c.HasDensity {
		parts = append(parts, densityString(c.Density))
	}
	parts = append(parts, c.unknownParts...)
	if c.HasVersion {
		parts = append(parts, fmt.Sprintf("v%d", c.Version))
	}
	return strings.Join(parts, "-")
}

// IsDefault reports whether this is the default (unqualified) configuration.
func (c Config) IsDefault() bool {
	if len(c.unknownParts) != 0 {
		return false
	}
	c.unknownParts = nil
	return reflect.DeepEqual(c, Config{})
}

func densityString(d int) string {
	for name, v := range densityNames {
		if v == d && name != "nodpi" {
			return name
		}
	}
	return fmt.Sprintf("%ddpi", d)
}

// Parse parses a resource-qualifier suffix (the text after the first dash
// in a resource directory name, e.g. "fr-rFR-hdpi-v21") into a Config.
// An empty string parses to the default Config.
func Parse(qualifiers string) (Config, error) {
	var c Config
	if qualifiers == "" {
		return c, nil
	}

	parts := strings.Split(qualifiers, "-")
	i := 0

	// Locale: either a bare two/three-letter language, optionally followed
	// by "rXX" region, or a BCP-47 form "b+lang+REGION".
	if i < len(parts) && strings.HasPrefix(parts[i], "b+") {
		lang, region, err := parseBcp47(parts[i])
		if err != nil {
			return Config{}, err
		}
		c.Language, c.Region = lang, region
		i++
	} else if i < len(parts) && isAlpha(parts[i]) && (len(parts[i]) == 2 || len(parts[i]) == 3) {
		c.Language = strings.ToLower(parts[i])
		i++
		if i < len(parts) && strings.HasPrefix(parts[i], "r") && len(parts[i]) == 3 && isAlpha(parts[i][1:]) {
			c.Region = strings.ToUpper(parts[i][1:])
			i++
		}
	}

	for i < len(parts) {
		p := parts[i]
		switch {
		case layoutDirs[p]:
			c.LayoutDir = p
		case screenSizes[p]:
			c.ScreenSize = p
		case screenLongs[p]:
			c.ScreenLong = p
		case orientations[p]:
			c.Orientation = p
		case uiModes[p]:
			c.UIMode = p
		case nightModes[p]:
			c.NightMode = p
		case p == "notouch" || p == "stylus" || p == "finger":
			c.Touchscreen = p
		case p == "keysexposed" || p == "keyshidden" || p == "keyssoft":
			c.KeysHidden = p
		case p == "nokeys" || p == "qwerty" || p == "12key":
			c.Keyboard = p
		case p == "navexposed" || p == "navhidden":
			c.NavHidden = p
		case p == "nonav" || p == "dpad" || p == "trackball" || p == "wheel":
			c.Navigation = p
		case isDensity(p):
			d, err := parseDensity(p)
			if err != nil {
				return Config{}, err
			}
			c.Density = d
			c.HasDensity = true
		case len(p) > 1 && p[0] == 'v' && isDigits(p[1:]):
			v, err := strconv.Atoi(p[1:])
			if err != nil {
				return Config{}, fmt.Errorf("invalid version qualifier %q", p)
			}
			c.Version = v
			c.HasVersion = true
		case p == "":
			return Config{}, fmt.Errorf("empty qualifier segment in %q", qualifiers)
		default:
			for _, r := range p {
				if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
					return Config{}, fmt.Errorf("invalid qualifier %q", p)
				}
			}
			c.unknownParts = append(c.unknownParts, p)
		}
		i++
	}

	return c, nil
}

func isDensity(s string) bool {
	if _, ok := densityNames[s]; ok {
		return true
	}
	return strings.HasSuffix(s, "dpi") && isDigits(strings.TrimSuffix(s, "dpi"))
}

func parseDensity(s string) (int, error) {
	if d, ok := densityNames[s]; ok {
		return d, nil
	}
	n := strings.TrimSuffix(s, "dpi")
	d, err := strconv.Atoi(n)
	if err != nil {
		return 0, fmt.Errorf("invalid density qualifier %q", s)
	}
	return d, nil
}

func parseBcp47(s string) (lang, region string, err error) {
	fields := strings.Split(strings.TrimPrefix(s, "b+"), "+")
	if len(fields) == 0 || fields[0] == "" {
		return "", "", fmt.Errorf("invalid locale qualifier %q", s)
	}
	lang = strings.ToLower(fields[0])
	for _, f := range fields[1:] {
		if len(f) == 2 && isAlpha(f) {
			region = strings.ToUpper(f)
			break
		}
	}
	return lang, region, nil
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
