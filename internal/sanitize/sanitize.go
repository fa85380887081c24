// Package sanitize strips input-mask formatting from masked field values.
// Masked inputs pad unfilled positions with underscores, so a partially
// typed CEP looks like "12345-___" and a CPF like "123.456.___-__".
package sanitize

import "strings"

// CEP removes hyphen and underscore characters from a masked postal code,
// turning "99999-999" into a pure digit string.
func CEP(cep string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || r == '_' {
			return -1
		}
		return r
	}, cep)
}

// CPF removes dot, hyphen and underscore characters from a masked CPF,
// turning "999.999.999-99" into a pure digit string.
func CPF(cpf string) string {
	return strings.Map(func(r rune) rune {
		if r == '.' || r == '-' || r == '_' {
			return -1
		}
		return r
	}, cpf)
}
