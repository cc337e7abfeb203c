package sanlan

import "strings"

// ConvertGame drives a fresh Converter over every SAN move of a game,
// producing the full LAN move list the session's position command consumes.
func ConvertGame(moves []string) ([]string, error) {
	c := New()
	out := make([]string, 0, len(moves))
	for _, san := range moves {
		lan, err := c.Convert(san)
		if err != nil {
			return nil, err
		}
		out = append(out, lan)
	}
	return out, nil
}

// NormalizeUCI rewrites a converter-emitted LAN move ("e7e8=Q") into the
// lowercase, no-"=" form UCI engines expect ("e7e8q"). See DESIGN.md's open
// question decision on promotion casing.
func NormalizeUCI(lan string) string {
	idx := strings.Index(lan, "=")
	if idx == -1 {
		return lan
	}
	promo := strings.ToLower(lan[idx+1:])
	return lan[:idx] + promo
}
