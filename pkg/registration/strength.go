package registration

import "unicode/utf8"

// Weight names the visual weight of a strength tier. Renderers map it to a
// colour token (see render.ThemeConfig).
type Weight string

const (
	WeightMuted  Weight = "muted"
	WeightRed    Weight = "red"
	WeightOrange Weight = "orange"
	WeightYellow Weight = "yellow"
	WeightGreen  Weight = "green"
)

// StrengthSegments is the number of segments in the strength meter.
const StrengthSegments = 4

// PasswordStrength is the coarse tier of a passphrase, derived from its
// length only.
type PasswordStrength struct {
	Level  int    `json:"level"`
	Label  string `json:"label"`
	Weight Weight `json:"weight"`
}

// Segments reports which meter segments are lit: segment i (0-based) is lit
// when i < Level.
func (s PasswordStrength) Segments() [StrengthSegments]bool {
	var out [StrengthSegments]bool
	for i := range out {
		out[i] = i < s.Level
	}
	return out
}

var strengthTiers = [...]PasswordStrength{
	{Level: 0, Label: "Belum diisi", Weight: WeightMuted},
	{Level: 1, Label: "Sangat Lemah", Weight: WeightRed},
	{Level: 2, Label: "Lemah", Weight: WeightOrange},
	{Level: 3, Label: "Cukup Kuat", Weight: WeightYellow},
	{Level: 4, Label: "Kuat", Weight: WeightGreen},
}

// StrengthFor returns the strength tier of passphrase.
func StrengthFor(passphrase string) PasswordStrength {
	return strengthForLength(utf8.RuneCountInString(passphrase))
}

func strengthForLength(n int) PasswordStrength {
	switch {
	case n == 0:
		return strengthTiers[0]
	case n < 50:
		return strengthTiers[1]
	case n < 100:
		return strengthTiers[2]
	case n < 150:
		return strengthTiers[3]
	default:
		return strengthTiers[4]
	}
}
