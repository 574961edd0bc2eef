package validate

import (
	"fmt"
	"regexp"
)

var (
	phonePattern    = regexp.MustCompile(`^\+[1-9][0-9]{9,14}$`)
	documentPattern = regexp.MustCompile(`^([0-9]{11}|[0-9]{14})$`)
)

// PixKey checks the destination key against the format its type demands:
// email addresses via the validator tag, phones as E.164, documents as
// bare CPF (11 digits) or CNPJ (14 digits), random keys as UUIDs.
func PixKey(keyType, key string) error {
	switch keyType {
	case "email":
		if v.Var(key, "email") != nil {
			return fmt.Errorf("%q is not a valid email pix key", key)
		}
	case "phone":
		if !phonePattern.MatchString(key) {
			return fmt.Errorf("%q is not a valid phone pix key", key)
		}
	case "document":
		if !documentPattern.MatchString(key) {
			return fmt.Errorf("%q is not a valid document pix key", key)
		}
	case "random":
		if v.Var(key, "uuid4") != nil {
			return fmt.Errorf("%q is not a valid random pix key", key)
		}
	default:
		return fmt.Errorf("unknown pix key type %q", keyType)
	}
	return nil
}
