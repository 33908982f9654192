package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// User is a member of the follows graph. Follows may reference ids that are
// not present in the user collection.
type User struct {
	ID      int    `json:"id"`
	Name    string `json:"name,omitempty"`
	Follows []int  `json:"follows"`
}

// UnmarshalJSON decodes a user and rejects entries without an id or follows list.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID      *int   `json:"id"`
		Name    string `json:"name"`
		Follows *[]int `json:"follows"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: user: %v", ErrMalformedPayload, err)
	}

	if raw.ID == nil {
		return ErrMissingField("user.id")
	}

	if raw.Follows == nil {
		return fmt.Errorf("%w: user %d: follows is required", ErrMalformedPayload, *raw.ID)
	}

	u.ID = *raw.ID
	u.Name = raw.Name
	u.Follows = *raw.Follows

	return nil
}

// MutualPayload is the challenge data for the mutual-followers problem:
// {"users": [user, ...]}.
type MutualPayload struct {
	Users []User `json:"users"`
}

// UnmarshalJSON requires data.users to be a JSON array.
func (p *MutualPayload) UnmarshalJSON(data []byte) error {
	var raw struct {
		Users json.RawMessage `json:"users"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	users := bytes.TrimSpace(raw.Users)
	if isNull(users) {
		return ErrMissingField("users")
	}

	if users[0] != '[' {
		return fmt.Errorf("%w: users must be an array for the mutual followers problem", ErrMalformedPayload)
	}

	decoded := make([]User, 0)
	if err := json.Unmarshal(users, &decoded); err != nil {
		return wrapMalformed(err)
	}

	p.Users = decoded

	return nil
}

// LevelPayload is the challenge data for the nth-level followers problem:
// {"users": {"n": int, "findId": int, "users": [user, ...]}}.
type LevelPayload struct {
	N      int    `json:"n"`
	FindID int    `json:"findId"`
	Users  []User `json:"users"`
}

// UnmarshalJSON requires data.users to be an object carrying n, findId and users.
func (p *LevelPayload) UnmarshalJSON(data []byte) error {
	var outer struct {
		Users json.RawMessage `json:"users"`
	}

	if err := json.Unmarshal(data, &outer); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	users := bytes.TrimSpace(outer.Users)
	if isNull(users) {
		return ErrMissingField("users")
	}

	if users[0] != '{' {
		return fmt.Errorf("%w: users must be an object for the nth-level followers problem", ErrMalformedPayload)
	}

	var inner struct {
		N      *int    `json:"n"`
		FindID *int    `json:"findId"`
		Users  *[]User `json:"users"`
	}

	if err := json.Unmarshal(users, &inner); err != nil {
		return wrapMalformed(err)
	}

	switch {
	case inner.N == nil:
		return ErrMissingField("users.n")
	case inner.FindID == nil:
		return ErrMissingField("users.findId")
	case inner.Users == nil:
		return ErrMissingField("users.users")
	}

	p.N = *inner.N
	p.FindID = *inner.FindID
	p.Users = *inner.Users

	return nil
}

func isNull(raw []byte) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}

// wrapMalformed tags decode errors that did not already come from a User.
func wrapMalformed(err error) error {
	if errors.Is(err, ErrMalformedPayload) {
		return err
	}

	return fmt.Errorf("%w: %v", ErrMalformedPayload, err)
}
