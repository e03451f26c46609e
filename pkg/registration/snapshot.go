package registration

// Snapshot is a plain copy of a Session suitable for encoding (gob, JSON).
// Errors are not part of it: Restore derives them from values and touched
// flags.
type Snapshot struct {
	Values            map[string]string `json:"values"`
	Touched           map[string]bool   `json:"touched,omitempty"`
	Stage             Stage             `json:"stage"`
	PassphraseVisible bool              `json:"passphraseVisible,omitempty"`
}

// Snapshot captures the session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Values:            make(map[string]string, len(s.values)),
		Touched:           make(map[string]bool, len(s.touched)),
		Stage:             s.stage,
		PassphraseVisible: s.passphraseVisible,
	}
	for field, value := range s.values {
		snap.Values[field.String()] = value
	}
	for field, touched := range s.touched {
		if touched {
			snap.Touched[field.String()] = true
		}
	}
	return snap
}

// Restore rebuilds a Session from snap. Unknown field names are dropped and
// errors are recomputed for every touched field.
func Restore(snap Snapshot) *Session {
	s := NewSession()
	for name, value := range snap.Values {
		if field, ok := ParseField(name); ok {
			s.values[field] = value
		}
	}
	for name, touched := range snap.Touched {
		field, ok := ParseField(name)
		if !ok || !touched {
			continue
		}
		s.touched[field] = true
		s.revalidate(field)
	}
	if snap.Stage == StageConfirmed && s.Valid() {
		s.stage = StageConfirmed
	}
	s.passphraseVisible = snap.PassphraseVisible
	return s
}
