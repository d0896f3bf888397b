// Package utils holds small helpers shared by the HTTP handlers: query
// parameter parsing and input validation.
package utils

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

// Transit IDs are alphanumeric plus underscore, hyphen and dot.
var validIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// ParseFloatParam retrieves a float64 value from the provided URL query
// parameters. A missing key yields 0 without an error; an unparseable value
// records a message in fieldErrors. The (possibly newly allocated)
// fieldErrors map is returned so calls can be chained.
func ParseFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	val := params.Get(key)
	if val == "" {
		return 0, fieldErrors
	}

	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Invalid field value for field %q.", key))
	}
	return f, fieldErrors
}

// RequireFloatParam is ParseFloatParam for parameters that must be present.
func RequireFloatParam(params url.Values, key string, fieldErrors map[string][]string) (float64, map[string][]string) {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}

	if params.Get(key) == "" {
		fieldErrors[key] = append(fieldErrors[key], fmt.Sprintf("Missing required field %q.", key))
		return 0, fieldErrors
	}
	return ParseFloatParam(params, key, fieldErrors)
}

// ExtractIDFromParams retrieves a path parameter and strips a trailing
// ".json" extension.
func ExtractIDFromParams(r *http.Request, paramName string) string {
	params := httprouter.ParamsFromContext(r.Context())
	rawID := params.ByName(paramName)
	return strings.Split(rawID, ".json")[0]
}

// ValidateID validates that an ID is safe and within reasonable limits.
func ValidateID(id string) error {
	if id == "" {
		return errors.New("id cannot be empty")
	}
	if len(id) > 100 {
		return errors.New("id too long (max 100 characters)")
	}
	if !validIDPattern.MatchString(id) {
		return errors.New("id contains invalid characters")
	}
	return nil
}

// ValidateLatitude validates latitude values.
func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

// ValidateLongitude validates longitude values.
func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadiusKm validates the optional radius for stop searches.
func ValidateRadiusKm(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}
	if radius > 10 {
		return errors.New("radius too large (max 10 km)")
	}
	return nil
}

// ValidateCoordinatePair collects validation errors for one lat/lon pair
// under the given field names.
func ValidateCoordinatePair(lat, lon float64, latField, lonField string, fieldErrors map[string][]string) map[string][]string {
	if fieldErrors == nil {
		fieldErrors = make(map[string][]string)
	}
	if err := ValidateLatitude(lat); err != nil {
		fieldErrors[latField] = append(fieldErrors[latField], err.Error())
	}
	if err := ValidateLongitude(lon); err != nil {
		fieldErrors[lonField] = append(fieldErrors[lonField], err.Error())
	}
	return fieldErrors
}
