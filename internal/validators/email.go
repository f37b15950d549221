// Package validators contiene predicados de entrada reutilizables.
package validators

import "regexp"

// local@label(.label)*.suffix; sin DNS, sin límites de longitud, sin normalización Unicode.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9_.+-]+@(?:[A-Za-z0-9-]+\.)+[A-Za-z0-9-]+$`)

// IsEmail reporta si s tiene la forma sintáctica de una dirección de correo.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
