package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnterDigitsCompletesOnFourth(t *testing.T) {
	p := NewPinAttempt()

	assert.False(t, p.EnterDigit('1'))
	assert.False(t, p.EnterDigit('2'))
	assert.False(t, p.EnterDigit('3'))
	assert.True(t, p.EnterDigit('4'))
	assert.Equal(t, "1234", p.Pin())
}

func TestEnterDigitIgnoresNonDigits(t *testing.T) {
	p := NewPinAttempt()

	assert.False(t, p.EnterDigit('a'))
	assert.Equal(t, 0, p.Focus())
}

func TestBackspaceMovesFocusBack(t *testing.T) {
	p := NewPinAttempt()
	p.EnterDigit('1')
	p.EnterDigit('2')

	p.Backspace()
	assert.Equal(t, 1, p.Focus())

	assert.False(t, p.EnterDigit('9'))
	assert.Equal(t, 2, p.Focus())
}

func TestPasteFillsWholeAttempt(t *testing.T) {
	p := NewPinAttempt()

	assert.True(t, p.Paste("1234"))
	assert.Equal(t, "1234", p.Pin())
}

func TestPasteStripsNonDigits(t *testing.T) {
	p := NewPinAttempt()

	assert.True(t, p.Paste("1-2 3x4"))
	assert.Equal(t, "1234", p.Pin())
}

func TestPasteRejectsWrongLength(t *testing.T) {
	p := NewPinAttempt()

	assert.False(t, p.Paste("123"))
	assert.False(t, p.Paste("12345"))
	assert.Equal(t, 0, p.Focus())
}

func TestResetClearsAndRefocusesFirstInput(t *testing.T) {
	p := NewPinAttempt()
	p.Paste("1234")

	p.Reset()

	assert.Equal(t, 0, p.Focus())
	assert.False(t, p.Complete())
	assert.Equal(t, "", p.Pin())
}
