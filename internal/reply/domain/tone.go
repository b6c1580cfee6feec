package domain

// Tone is the register a generated reply is written in.
type Tone string

const (
	ToneFormal  Tone = "formal"
	ToneCasual  Tone = "casual"
	ToneDecline Tone = "decline"
	ToneThanks  Tone = "thanks"
)

// Tones lists every recognized tone in display order.
var Tones = []Tone{ToneFormal, ToneCasual, ToneDecline, ToneThanks}

var toneLabels = map[Tone]string{
	ToneFormal:  "정중한",
	ToneCasual:  "캐주얼",
	ToneDecline: "거절",
	ToneThanks:  "감사",
}

// Valid reports whether t is one of the four recognized tones.
func (t Tone) Valid() bool {
	_, ok := toneLabels[t]
	return ok
}

// Label returns the Korean display label, or the raw value for unknown tones.
func (t Tone) Label() string {
	if label, ok := toneLabels[t]; ok {
		return label
	}
	return string(t)
}
