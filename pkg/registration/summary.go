package registration

// SummaryEntry is one line of the confirmation view.
type SummaryEntry struct {
	Field Field  `json:"field"`
	Label string `json:"label"`
	Value string `json:"value"`
}

// Summary lists the submitted values shown after a successful submission.
// The passphrase is never part of it and the NIK is masked.
type Summary struct {
	Entries []SummaryEntry `json:"entries"`
}

// NewSummary builds the confirmation summary for values.
func NewSummary(values Values) Summary {
	entries := make([]SummaryEntry, 0, len(orderedFields)-1)
	for _, field := range orderedFields {
		if field == FieldPassphrase {
			continue
		}
		value := values[field]
		if field == FieldNIK {
			value = MaskNIK(value)
		}
		entries = append(entries, SummaryEntry{
			Field: field,
			Label: field.Label(),
			Value: value,
		})
	}
	return Summary{Entries: entries}
}

// Value returns the summary value for field.
func (s Summary) Value(field Field) (string, bool) {
	for _, entry := range s.Entries {
		if entry.Field == field {
			return entry.Value, true
		}
	}
	return "", false
}

// Map returns the entries keyed by field identifier.
func (s Summary) Map() map[string]string {
	out := make(map[string]string, len(s.Entries))
	for _, entry := range s.Entries {
		out[entry.Field.String()] = entry.Value
	}
	return out
}

// MaskNIK keeps the first and last four characters of nik and replaces the
// middle with "****". Values shorter than four characters repeat in both
// halves.
func MaskNIK(nik string) string {
	head := nik
	if len(head) > 4 {
		head = head[:4]
	}
	tail := nik
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return head + "****" + tail
}
