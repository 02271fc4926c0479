package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"formatted national", "(11) 91234-5678", "5511912345678"},
		{"already prefixed", "5511912345678", "5511912345678"},
		{"plus prefixed", "+55 11 91234-5678", "5511912345678"},
		{"bare digits", "11912345678", "5511912345678"},
		{"whitespace", "  11 9 1234 5678 ", "5511912345678"},
		{"no digits", "abc-()", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePhone(tt.in))
		})
	}
}

func TestNormalizePhone_Idempotent(t *testing.T) {
	for _, in := range []string{"(11) 91234-5678", "21 3333-4444", "5511912345678"} {
		once := NormalizePhone(in)
		assert.Equal(t, once, NormalizePhone(once))
	}
}

func TestNormalizePhoneWithCode(t *testing.T) {
	assert.Equal(t, "3512345678", NormalizePhoneWithCode("351 2345678", "351"))
	assert.Equal(t, "912345678", NormalizePhoneWithCode("912-345-678", ""))
}
