package contact

import (
	"strings"
	"sync"
)

// PhoneRegion is the display metadata for one supported country.
type PhoneRegion struct {
	Code        string `json:"code"`
	Flag        string `json:"flag"`
	Name        string `json:"name"`
	DialCode    string `json:"dialCode"`
	Format      string `json:"format"`
	Placeholder string `json:"placeholder"`
}

// Region formats and validates phone numbers for one country.
type Region interface {
	Info() PhoneRegion
	// Strip reduces raw input to national digits, dropping trunk and country prefixes.
	Strip(raw string) string
	// Format groups digits for display. No digit is ever dropped.
	Format(digits string) string
	// IsValid reports whether the digit count satisfies the region rule.
	IsValid(digits string) bool
	// ToWire returns the international form sent to the booking backend.
	ToWire(digits string) string
}

// Grouping styles understood by Rule.
const (
	StyleSpaced        = "spaced"
	StyleNorthAmerican = "north-american"
)

const (
	defaultMinDigits = 7
	defaultMaxDigits = 15
)

// Rule is the table-driven Region implementation.
type Rule struct {
	Region    PhoneRegion
	Prefixes  []string
	Groups    []int
	Style     string
	MinDigits int
	MaxDigits int
}

func (r Rule) Info() PhoneRegion { return r.Region }

func (r Rule) Strip(raw string) string {
	digits := DigitsOnly(raw)
	for _, prefix := range r.Prefixes {
		digits = strings.TrimPrefix(digits, prefix)
	}
	return digits
}

func (r Rule) Format(digits string) string {
	digits = DigitsOnly(digits)
	if digits == "" {
		return ""
	}
	if r.Style == StyleNorthAmerican {
		return formatNorthAmerican(digits)
	}
	if len(r.Groups) == 0 {
		return digits
	}
	return strings.Join(splitGroups(digits, r.Groups), " ")
}

func (r Rule) IsValid(digits string) bool {
	n := len(DigitsOnly(digits))
	if n == 0 {
		return false
	}
	lo, hi := r.MinDigits, r.MaxDigits
	if lo == 0 && hi == 0 {
		lo, hi = defaultMinDigits, defaultMaxDigits
	}
	return n >= lo && n <= hi
}

func (r Rule) ToWire(digits string) string {
	digits = DigitsOnly(digits)
	if digits == "" {
		return ""
	}
	return r.Region.DialCode + digits
}

// splitGroups cuts digits by the group sizes; the last group absorbs any overflow.
func splitGroups(digits string, sizes []int) []string {
	var groups []string
	rest := digits
	for i, size := range sizes {
		if rest == "" {
			break
		}
		if i == len(sizes)-1 || len(rest) <= size {
			groups = append(groups, rest)
			rest = ""
			break
		}
		groups = append(groups, rest[:size])
		rest = rest[size:]
	}
	return groups
}

func formatNorthAmerican(digits string) string {
	switch {
	case len(digits) <= 3:
		return "(" + digits
	case len(digits) <= 6:
		return "(" + digits[:3] + ") " + digits[3:]
	default:
		return "(" + digits[:3] + ") " + digits[3:6] + "-" + digits[6:]
	}
}

// DigitsOnly removes every non-digit rune.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Registry maps region codes to Region implementations, preserving registration order.
type Registry struct {
	mu      sync.RWMutex
	order   []string
	regions map[string]Region
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{regions: make(map[string]Region)}
}

// DefaultRegistry returns the clinic's supported regions. VN is listed first and is the default.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, r := range defaultRules() {
		reg.Register(r)
	}
	return reg
}

// Register adds or replaces a region.
func (g *Registry) Register(r Region) {
	code := strings.ToUpper(r.Info().Code)
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.regions[code]; !exists {
		g.order = append(g.order, code)
	}
	g.regions[code] = r
}

// Lookup finds a region by code, case-insensitively.
func (g *Registry) Lookup(code string) (Region, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.regions[strings.ToUpper(strings.TrimSpace(code))]
	return r, ok
}

// First returns the first registered region, used as the fallback default.
func (g *Registry) First() (Region, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if len(g.order) == 0 {
		return nil, false
	}
	return g.regions[g.order[0]], true
}

// List returns region metadata in registration order.
func (g *Registry) List() []PhoneRegion {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]PhoneRegion, 0, len(g.order))
	for _, code := range g.order {
		out = append(out, g.regions[code].Info())
	}
	return out
}

func defaultRules() []Rule {
	return []Rule{
		{
			Region: PhoneRegion{
				Code: "VN", Flag: "🇻🇳", Name: "Vietnam", DialCode: "+84",
				Format: "XXX XXX XXX", Placeholder: "901 234 567",
			},
			Prefixes:  []string{"0", "84"},
			Groups:    []int{3, 3, 3},
			Style:     StyleSpaced,
			MinDigits: 9,
			MaxDigits: 10,
		},
		{
			Region: PhoneRegion{
				Code: "US", Flag: "🇺🇸", Name: "United States", DialCode: "+1",
				Format: "(XXX) XXX-XXXX", Placeholder: "(555) 123-4567",
			},
			Prefixes:  []string{"1"},
			Style:     StyleNorthAmerican,
			MinDigits: 10,
			MaxDigits: 10,
		},
		{
			Region: PhoneRegion{
				Code: "GB", Flag: "🇬🇧", Name: "United Kingdom", DialCode: "+44",
				Format: "XXXX XXX XXX", Placeholder: "7911 123456",
			},
			Prefixes:  []string{"44"},
			Groups:    []int{4, 3, 3},
			Style:     StyleSpaced,
			MinDigits: 10,
			MaxDigits: 11,
		},
		{
			Region: PhoneRegion{
				Code: "AU", Flag: "🇦🇺", Name: "Australia", DialCode: "+61",
				Format: "XXX XXX XXX", Placeholder: "412 345 678",
			},
			Prefixes:  []string{"61", "0"},
			Groups:    []int{3, 3, 3},
			Style:     StyleSpaced,
			MinDigits: 9,
			MaxDigits: 9,
		},
		{
			Region: PhoneRegion{
				Code: "CA", Flag: "🇨🇦", Name: "Canada", DialCode: "+1",
				Format: "(XXX) XXX-XXXX", Placeholder: "(555) 123-4567",
			},
			Prefixes:  []string{"1"},
			Style:     StyleNorthAmerican,
			MinDigits: 10,
			MaxDigits: 10,
		},
	}
}
