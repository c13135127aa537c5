package rhythm

// Voice selects one of the two click voices of an instance.
type Voice int

const (
	VoiceMain Voice = iota
	VoiceOffbeat
)

func (v Voice) String() string {
	switch v {
	case VoiceMain:
		return "main"
	case VoiceOffbeat:
		return "offbeat"
	default:
		return "unknown"
	}
}

// VoiceFilter restricts which voices are shown (visual mode) or scored (practice).
type VoiceFilter string

const (
	MainOnly    VoiceFilter = "main"
	OffbeatOnly VoiceFilter = "offbeat"
	BothVoices  VoiceFilter = "both"
)

// Includes reports whether v passes the filter. Unknown filters behave like BothVoices.
func (f VoiceFilter) Includes(v Voice) bool {
	switch f {
	case MainOnly:
		return v == VoiceMain
	case OffbeatOnly:
		return v == VoiceOffbeat
	default:
		return true
	}
}

// Valid reports whether f is one of the known filters.
func (f VoiceFilter) Valid() bool {
	return f == MainOnly || f == OffbeatOnly || f == BothVoices
}

// Next cycles main -> offbeat -> both.
func (f VoiceFilter) Next() VoiceFilter {
	switch f {
	case MainOnly:
		return OffbeatOnly
	case OffbeatOnly:
		return BothVoices
	default:
		return MainOnly
	}
}
