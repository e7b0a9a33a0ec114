package common

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// FlexibleString handles JSON fields that can be a string, a number, a []string or null.
// Museum APIs return different types for the same field across records (GalleryNumber
// is "" on one object and 822 on the next), so decoding never fails: any other
// shape degrades to the empty string instead of rejecting the whole record.
type FlexibleString struct {
	value string
}

// UnmarshalJSON implements custom unmarshaling to handle multiple types.
func (fs *FlexibleString) UnmarshalJSON(data []byte) error {
	fs.value = ""
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		fs.value = strings.TrimSpace(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		fs.value = n.String()
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		fs.value = strings.Join(NonEmpty(arr), ", ")
		return nil
	}

	return nil
}

// MarshalJSON implements JSON marshaling.
func (fs FlexibleString) MarshalJSON() ([]byte, error) {
	return json.Marshal(fs.value)
}

// String returns the string value.
func (fs FlexibleString) String() string {
	return fs.value
}

// IsEmpty returns true if the value is empty.
func (fs FlexibleString) IsEmpty() bool {
	return fs.value == ""
}

// FlexibleInt handles JSON fields that can be a number, a numeric string or null.
// Non-numeric values decode as 0.
type FlexibleInt struct {
	value int
	set   bool
}

// UnmarshalJSON implements custom unmarshaling to handle multiple types.
func (fi *FlexibleInt) UnmarshalJSON(data []byte) error {
	fi.value, fi.set = 0, false
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err == nil {
		fi.value, fi.set = int(f), true
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			fi.value, fi.set = n, true
		}
	}
	return nil
}

// MarshalJSON implements JSON marshaling.
func (fi FlexibleInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(fi.value)
}

// Int returns the int value.
func (fi FlexibleInt) Int() int {
	return fi.value
}

// IsSet reports whether the field carried a numeric value.
func (fi FlexibleInt) IsSet() bool {
	return fi.set
}

// String returns the decimal representation, or "" when unset.
func (fi FlexibleInt) String() string {
	if !fi.set {
		return ""
	}
	return strconv.Itoa(fi.value)
}
