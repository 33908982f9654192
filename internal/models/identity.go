// Package models defines the data exchanged with the challenge service.
package models

// Identity is the caller's registration data sent with the challenge request.
// The service treats it as opaque pass-through data.
type Identity struct {
	Name  string `json:"name"`
	RegNo string `json:"regNo"`
	Email string `json:"email"`
}

// Validate checks that all identity fields are present and within limits.
func (i *Identity) Validate() error {
	if i.Name == "" {
		return ErrMissingName
	}

	if len(i.Name) > 200 {
		return ErrFieldTooLong("name", 200)
	}

	if i.RegNo == "" {
		return ErrMissingRegNo
	}

	if len(i.RegNo) > 64 {
		return ErrFieldTooLong("regNo", 64)
	}

	if i.Email == "" {
		return ErrMissingEmail
	}

	if len(i.Email) > 320 {
		return ErrFieldTooLong("email", 320)
	}

	return nil
}
