package gate

import "strings"

const PinLength = 4

// PinAttempt models digit-by-digit PIN entry: four positions, a focus
// cursor, submission exactly once when every position is filled. A failed
// attempt resets all positions and returns focus to the first one.
type PinAttempt struct {
	digits [PinLength]byte
	focus  int
}

func NewPinAttempt() *PinAttempt {
	return &PinAttempt{}
}

// EnterDigit writes a digit at the focused position and advances the
// focus. It reports whether the attempt is now complete and ready to
// submit. Non-digit input is ignored.
func (p *PinAttempt) EnterDigit(c byte) bool {
	if c < '0' || c > '9' {
		return false
	}
	if p.focus >= PinLength {
		return false
	}

	p.digits[p.focus] = c
	p.focus++

	return p.Complete()
}

// Backspace clears the previous position and moves focus back, matching
// backspace behavior on an empty input box.
func (p *PinAttempt) Backspace() {
	if p.focus == 0 {
		return
	}

	p.focus--
	p.digits[p.focus] = 0
}

// Paste accepts a whole pasted string, keeping only digits. It fills the
// attempt only when exactly PinLength digits remain.
func (p *PinAttempt) Paste(s string) bool {
	var digits strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			digits.WriteByte(s[i])
		}
	}

	if digits.Len() != PinLength {
		return false
	}

	copy(p.digits[:], digits.String())
	p.focus = PinLength

	return true
}

func (p *PinAttempt) Complete() bool {
	for _, d := range p.digits {
		if d == 0 {
			return false
		}
	}

	return true
}

func (p *PinAttempt) Pin() string {
	return string(p.digits[:p.focus])
}

func (p *PinAttempt) Focus() int {
	return p.focus
}

// Reset clears every position and refocuses the first input.
func (p *PinAttempt) Reset() {
	p.digits = [PinLength]byte{}
	p.focus = 0
}
